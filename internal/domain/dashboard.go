package domain

import "context"

// DashboardService serves the admin listings.
type DashboardService interface {
	Users(ctx context.Context, q ListingQuery) (*Page[User], error)
	Artists(ctx context.Context, q ListingQuery) (*Page[Artist], error)
	Tracks(ctx context.Context, q ListingQuery) (*Page[Track], error)
	Nfts(ctx context.Context, q ListingQuery) (*Page[Nft], error)
	Applications(ctx context.Context, q ListingQuery) (*Page[ArtistApplication], error)
	ActiveApplications(ctx context.Context) (int64, error)
}

// DashboardRepository runs the admin listing queries.
type DashboardRepository interface {
	Users(ctx context.Context, q ListingQuery) (*Page[User], error)
	Artists(ctx context.Context, q ListingQuery) (*Page[Artist], error)
	Tracks(ctx context.Context, q ListingQuery) (*Page[Track], error)
	Nfts(ctx context.Context, q ListingQuery) (*Page[Nft], error)
	Applications(ctx context.Context, q ListingQuery) (*Page[ArtistApplication], error)
}
