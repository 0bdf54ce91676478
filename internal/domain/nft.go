package domain

import (
	"context"
	"strings"
	"time"
)

// NftType says what an NFT represents.
type NftType string

const (
	NftAlbum  NftType = "Album"
	NftTrack  NftType = "Track"
	NftArtist NftType = "Artist"
	// NftAll is a listing facet value, never stored.
	NftAll NftType = "All"
)

// ParseNftType matches s case-insensitively.
func ParseNftType(s string) (NftType, bool) {
	for _, t := range []NftType{NftAlbum, NftTrack, NftArtist, NftAll} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Collection groups NFTs released together.
type Collection struct {
	BaseModel
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description string  `gorm:"size:2000" json:"description"`
	ArtistID    *uint   `gorm:"index" json:"artistId,omitempty"`
	Artist      *Artist `json:"artist,omitempty"`
	CoverPath   string  `gorm:"size:255" json:"coverPath,omitempty"`
	Nfts        []Nft   `json:"nfts,omitempty"`
}

// Nft is a marketplace item minted on chain when purchased.
type Nft struct {
	BaseModel
	Name          string      `gorm:"size:200;not null" json:"name"`
	Type          NftType     `gorm:"size:16;index;not null" json:"type"`
	CollectionID  *uint       `gorm:"index" json:"collectionId,omitempty"`
	Collection    *Collection `json:"collection,omitempty"`
	ArtistID      *uint       `gorm:"index" json:"artistId,omitempty"`
	Artist        *Artist     `json:"artist,omitempty"`
	AlbumID       *uint       `json:"albumId,omitempty"`
	TrackID       *uint       `json:"trackId,omitempty"`
	ImagePath     string      `gorm:"size:255" json:"imagePath,omitempty"`
	PriceLamports int64       `gorm:"not null;default:0" json:"priceLamports"`
	Supply        int         `gorm:"not null;default:1" json:"supply"`
	Minted        int         `gorm:"not null;default:0" json:"minted"`
}

// NftLike records that a user liked an NFT.
type NftLike struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	NftID     uint      `gorm:"primaryKey" json:"nftId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NftPurchase records a settled on-chain purchase.
type NftPurchase struct {
	BaseModel
	NftID       uint   `gorm:"index;not null" json:"nftId"`
	UserID      uint   `gorm:"index;not null" json:"userId"`
	TxSignature string `gorm:"size:128;uniqueIndex;not null" json:"txSignature"`
	ExplorerURL string `gorm:"-" json:"explorerUrl,omitempty"`
}

// NftDetail is an NFT with its like state for the requesting user.
type NftDetail struct {
	Nft
	Likes int64 `json:"likes"`
	Liked bool  `json:"liked"`
}

// NftRepository defines the data access interface for the marketplace.
type NftRepository interface {
	ListNfts(ctx context.Context, q ListingQuery) (*Page[Nft], error)
	ListLiked(ctx context.Context, userID uint, q ListingQuery) (*Page[Nft], error)
	GetNft(ctx context.Context, id uint) (*Nft, error)
	GetCollection(ctx context.Context, id uint) (*Collection, error)
	CountLikes(ctx context.Context, nftID uint) (int64, error)
	IsLiked(ctx context.Context, userID, nftID uint) (bool, error)
	Like(ctx context.Context, userID, nftID uint) error
	Unlike(ctx context.Context, userID, nftID uint) error
	// RecordPurchase stores the purchase and bumps the minted count, failing
	// with a validation error when the supply is exhausted.
	RecordPurchase(ctx context.Context, purchase *NftPurchase) error
}

// NftService defines the business logic interface for the marketplace.
type NftService interface {
	ListNfts(ctx context.Context, q ListingQuery) (*Page[Nft], error)
	ListLiked(ctx context.Context, userID uint, q ListingQuery) (*Page[Nft], error)
	GetNft(ctx context.Context, id uint, viewerID uint) (*NftDetail, error)
	GetCollection(ctx context.Context, id uint) (*Collection, error)
	Like(ctx context.Context, userID, nftID uint) error
	Unlike(ctx context.Context, userID, nftID uint) error
	RecordPurchase(ctx context.Context, userID, nftID uint, txSignature string) (*NftPurchase, error)
}
