package nft

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const (
	artistJoin     = "LEFT JOIN artists ON artists.id = nfts.artist_id"
	collectionJoin = "LEFT JOIN collections ON collections.id = nfts.collection_id"
)

// Listing describes the marketplace listing. The dashboard reuses it.
var Listing = pkg.ListingSpec{
	Table: "nfts",
	Search: []pkg.SortColumn{
		{Expr: "nfts.name"},
		{Expr: "artists.name", Joins: []string{artistJoin}},
	},
	TimeColumn: "nfts.created_at",
	Sort: map[string]pkg.SortColumn{
		"name":            {Expr: "nfts.name"},
		"type":            {Expr: "nfts.type"},
		"priceLamports":   {Expr: "nfts.price_lamports"},
		"supply":          {Expr: "nfts.supply"},
		"minted":          {Expr: "nfts.minted"},
		"createdAt":       {Expr: "nfts.created_at"},
		"artist.name":     {Expr: "artists.name", Joins: []string{artistJoin}},
		"collection.name": {Expr: "collections.name", Joins: []string{collectionJoin}},
	},
	DefaultOrder: "nfts.created_at DESC, nfts.id DESC",
	Preloads:     []string{"Artist", "Collection"},
}

// Facets returns the scopes for the type, collectionId and artistId facets.
func Facets(q domain.ListingQuery) []pkg.Scope {
	return []pkg.Scope{
		pkg.WhereIn(q, "type", "nfts.type", parseType),
		pkg.WhereIn(q, "collectionId", "nfts.collection_id", pkg.ParseUint),
		pkg.WhereIn(q, "artistId", "nfts.artist_id", pkg.ParseUint),
	}
}

// parseType accepts concrete types; All and unknown values add no filter.
func parseType(raw string) (any, bool) {
	t, ok := domain.ParseNftType(raw)
	if !ok || t == domain.NftAll {
		return nil, false
	}
	return t, true
}

// nftRepository implements domain.NftRepository using GORM.
type nftRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewNftRepository creates a new NftRepository backed by the given GORM database.
func NewNftRepository(db *gorm.DB) domain.NftRepository {
	return &nftRepository{db: db, now: time.Now}
}

func (r *nftRepository) ListNfts(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	page, err := pkg.FetchPage[domain.Nft](ctx, r.db, q, Listing, r.now(), Facets(q)...)
	if err != nil {
		return nil, pkg.MapDBError(err, "nft")
	}
	return page, nil
}

// ListLiked lists the NFTs userID liked, with the same filters as ListNfts.
func (r *nftRepository) ListLiked(ctx context.Context, userID uint, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	liked := func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&domain.NftLike{}).
			Select("nft_id").
			Where("user_id = ?", userID)
		return db.Where("nfts.id IN (?)", sub)
	}
	page, err := pkg.FetchPage[domain.Nft](ctx, r.db, q, Listing, r.now(), append(Facets(q), liked)...)
	if err != nil {
		return nil, pkg.MapDBError(err, "nft")
	}
	return page, nil
}

func (r *nftRepository) GetNft(ctx context.Context, id uint) (*domain.Nft, error) {
	var n domain.Nft
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Collection").
		First(&n, id).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "nft")
	}
	return &n, nil
}

// GetCollection retrieves a collection with its artist and NFTs.
func (r *nftRepository) GetCollection(ctx context.Context, id uint) (*domain.Collection, error) {
	var c domain.Collection
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Preload("Nfts", func(db *gorm.DB) *gorm.DB { return db.Order("nfts.id") }).
		First(&c, id).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "collection")
	}
	return &c, nil
}

func (r *nftRepository) CountLikes(ctx context.Context, nftID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.NftLike{}).Where("nft_id = ?", nftID).Count(&n).Error; err != nil {
		return 0, pkg.MapDBError(err, "like")
	}
	return n, nil
}

func (r *nftRepository) IsLiked(ctx context.Context, userID, nftID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.NftLike{}).
		Where("user_id = ? AND nft_id = ?", userID, nftID).
		Count(&n).Error
	if err != nil {
		return false, pkg.MapDBError(err, "like")
	}
	return n > 0, nil
}

// Like records a like. Liking twice is a no-op.
func (r *nftRepository) Like(ctx context.Context, userID, nftID uint) error {
	like := &domain.NftLike{UserID: userID, NftID: nftID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	return pkg.MapDBError(err, "like")
}

// Unlike removes a like. Removing a missing like is a no-op.
func (r *nftRepository) Unlike(ctx context.Context, userID, nftID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND nft_id = ?", userID, nftID).
		Delete(&domain.NftLike{}).Error
	return pkg.MapDBError(err, "like")
}

// RecordPurchase bumps the minted count while supply remains and stores the
// purchase. A repeated transaction signature is rejected as a duplicate.
func (r *nftRepository) RecordPurchase(ctx context.Context, purchase *domain.NftPurchase) error {
	return pkg.InTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&domain.Nft{}).
			Where("id = ? AND minted < supply", purchase.NftID).
			UpdateColumn("minted", gorm.Expr("minted + 1"))
		if result.Error != nil {
			return pkg.MapDBError(result.Error, "nft")
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&domain.Nft{}).Where("id = ?", purchase.NftID).Count(&n).Error; err != nil {
				return pkg.MapDBError(err, "nft")
			}
			if n == 0 {
				return errNftNotFound
			}
			return errSoldOut
		}

		if err := tx.Create(purchase).Error; err != nil {
			return pkg.MapDBError(err, "purchase")
		}
		return nil
	})
}
