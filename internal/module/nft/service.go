package nft

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const signatureSize = 64

var (
	errNftNotFound = domain.NewAppError(domain.CodeNotFound, "nft not found", nil)
	errSoldOut     = domain.NewAppError(domain.CodeValidation, "nft is sold out", nil)
)

// Explorer builds transaction links for a block explorer.
type Explorer struct {
	BaseURL string
	Cluster string
}

// TxURL returns the explorer page for signature, or "" when no explorer is
// configured. Mainnet links carry no cluster parameter.
func (e Explorer) TxURL(signature string) string {
	if e.BaseURL == "" {
		return ""
	}
	u := strings.TrimSuffix(e.BaseURL, "/") + "/tx/" + url.PathEscape(signature)
	if e.Cluster != "" && e.Cluster != "mainnet" && e.Cluster != "mainnet-beta" {
		u += "?cluster=" + url.QueryEscape(e.Cluster)
	}
	return u
}

// nftService implements domain.NftService.
type nftService struct {
	repo     domain.NftRepository
	details  *pkg.Cache[uint, domain.Nft]
	explorer Explorer
}

// NewNftService creates a new NftService. details caches NFT rows by id and
// may be nil.
func NewNftService(repo domain.NftRepository, details *pkg.Cache[uint, domain.Nft], explorer Explorer) domain.NftService {
	return &nftService{repo: repo, details: details, explorer: explorer}
}

func (s *nftService) ListNfts(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	return s.repo.ListNfts(ctx, q)
}

func (s *nftService) ListLiked(ctx context.Context, userID uint, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	return s.repo.ListLiked(ctx, userID, q)
}

// GetNft returns the NFT with its like count. Liked is reported for
// viewerID; zero means an anonymous viewer.
func (s *nftService) GetNft(ctx context.Context, id uint, viewerID uint) (*domain.NftDetail, error) {
	n, err := s.nft(ctx, id)
	if err != nil {
		return nil, err
	}

	likes, err := s.repo.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.NftDetail{Nft: n, Likes: likes}
	if viewerID != 0 {
		if detail.Liked, err = s.repo.IsLiked(ctx, viewerID, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *nftService) GetCollection(ctx context.Context, id uint) (*domain.Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

func (s *nftService) Like(ctx context.Context, userID, nftID uint) error {
	if _, err := s.nft(ctx, nftID); err != nil {
		return err
	}
	return s.repo.Like(ctx, userID, nftID)
}

func (s *nftService) Unlike(ctx context.Context, userID, nftID uint) error {
	return s.repo.Unlike(ctx, userID, nftID)
}

// RecordPurchase stores a settled purchase identified by its transaction
// signature and returns it with an explorer link.
func (s *nftService) RecordPurchase(ctx context.Context, userID, nftID uint, txSignature string) (*domain.NftPurchase, error) {
	txSignature = strings.TrimSpace(txSignature)
	if sig, err := base58.Decode(txSignature); err != nil || len(sig) != signatureSize {
		return nil, domain.NewAppError(domain.CodeValidation, "txSignature must be a base58 transaction signature", err)
	}

	purchase := &domain.NftPurchase{NftID: nftID, UserID: userID, TxSignature: txSignature}
	if err := s.repo.RecordPurchase(ctx, purchase); err != nil {
		return nil, err
	}
	s.details.Remove(nftID)

	purchase.ExplorerURL = s.explorer.TxURL(txSignature)
	slog.InfoContext(ctx, "nft purchase recorded",
		slog.Uint64("nft_id", uint64(nftID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("tx", txSignature),
	)
	return purchase, nil
}

// nft loads one NFT through the detail cache.
func (s *nftService) nft(ctx context.Context, id uint) (domain.Nft, error) {
	if n, ok := s.details.Get(id); ok {
		return n, nil
	}
	n, err := s.repo.GetNft(ctx, id)
	if err != nil {
		return domain.Nft{}, err
	}
	s.details.Add(id, *n)
	return *n, nil
}
