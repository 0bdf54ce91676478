package dashboard

import (
	"context"

	"github.com/simp-lee/soundmint/internal/domain"
)

// dashboardService implements domain.DashboardService.
type dashboardService struct {
	repo    domain.DashboardRepository
	artists domain.ArtistService
}

// NewDashboardService creates a new DashboardService. The active
// applications count comes from artists, which owns its cache.
func NewDashboardService(repo domain.DashboardRepository, artists domain.ArtistService) domain.DashboardService {
	return &dashboardService{repo: repo, artists: artists}
}

func (s *dashboardService) Users(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.User], error) {
	return s.repo.Users(ctx, q)
}

func (s *dashboardService) Artists(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Artist], error) {
	return s.repo.Artists(ctx, q)
}

func (s *dashboardService) Tracks(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Track], error) {
	return s.repo.Tracks(ctx, q)
}

func (s *dashboardService) Nfts(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	return s.repo.Nfts(ctx, q)
}

func (s *dashboardService) Applications(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.ArtistApplication], error) {
	return s.repo.Applications(ctx, q)
}

func (s *dashboardService) ActiveApplications(ctx context.Context) (int64, error) {
	return s.artists.ActiveApplications(ctx)
}
