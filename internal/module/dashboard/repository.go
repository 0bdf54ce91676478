package dashboard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/module/catalog"
	"github.com/simp-lee/soundmint/internal/module/nft"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const (
	profileJoin        = "LEFT JOIN profiles ON profiles.user_id = users.id"
	profileCountryJoin = "LEFT JOIN countries ON countries.id = profiles.country_id"
	artistCountryJoin  = "LEFT JOIN countries ON countries.id = artists.country_id"
	applicantJoin      = "LEFT JOIN users ON users.id = artist_applications.user_id"
	appCountryJoin     = "LEFT JOIN countries ON countries.id = artist_applications.country_id"
)

var userListing = pkg.ListingSpec{
	Table: "users",
	Search: []pkg.SortColumn{
		{Expr: "users.name"},
		{Expr: "users.email"},
		{Expr: "profiles.display_name", Joins: []string{profileJoin}},
	},
	TimeColumn: "users.created_at",
	Sort: map[string]pkg.SortColumn{
		"name":                 {Expr: "users.name"},
		"email":                {Expr: "users.email"},
		"role":                 {Expr: "users.role"},
		"createdAt":            {Expr: "users.created_at"},
		"profile.displayName":  {Expr: "profiles.display_name", Joins: []string{profileJoin}},
		"profile.country.name": {Expr: "countries.name", Joins: []string{profileJoin, profileCountryJoin}},
	},
	DefaultOrder: "users.created_at DESC, users.id DESC",
	Preloads:     []string{"Profile", "Profile.Country"},
}

var artistListing = pkg.ListingSpec{
	Table: "artists",
	Search: []pkg.SortColumn{
		{Expr: "artists.name"},
		{Expr: "countries.name", Joins: []string{artistCountryJoin}},
	},
	TimeColumn: "artists.created_at",
	Sort: map[string]pkg.SortColumn{
		"name":         {Expr: "artists.name"},
		"verified":     {Expr: "artists.verified"},
		"createdAt":    {Expr: "artists.created_at"},
		"country.name": {Expr: "countries.name", Joins: []string{artistCountryJoin}},
	},
	DefaultOrder: "artists.created_at DESC, artists.id DESC",
	Preloads:     []string{"Country"},
}

var applicationListing = pkg.ListingSpec{
	Table: "artist_applications",
	Search: []pkg.SortColumn{
		{Expr: "artist_applications.artist_name"},
		{Expr: "users.name", Joins: []string{applicantJoin}},
	},
	TimeColumn: "artist_applications.created_at",
	Sort: map[string]pkg.SortColumn{
		"artistName":   {Expr: "artist_applications.artist_name"},
		"status":       {Expr: "artist_applications.status"},
		"createdAt":    {Expr: "artist_applications.created_at"},
		"reviewedAt":   {Expr: "artist_applications.reviewed_at"},
		"user.name":    {Expr: "users.name", Joins: []string{applicantJoin}},
		"country.name": {Expr: "countries.name", Joins: []string{appCountryJoin}},
	},
	DefaultOrder: "artist_applications.created_at DESC, artist_applications.id DESC",
	Preloads:     []string{"User", "Country"},
}

// dashboardRepository implements domain.DashboardRepository using GORM.
type dashboardRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardRepository creates a new DashboardRepository backed by the given GORM database.
func NewDashboardRepository(db *gorm.DB) domain.DashboardRepository {
	return &dashboardRepository{db: db, now: time.Now}
}

// Users supports the role facet.
func (r *dashboardRepository) Users(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.User], error) {
	page, err := pkg.FetchPage[domain.User](ctx, r.db, q, userListing, r.now(),
		pkg.WhereIn(q, "role", "users.role", parseRole),
	)
	if err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return page, nil
}

// Artists supports the countryId and verified facets.
func (r *dashboardRepository) Artists(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Artist], error) {
	page, err := pkg.FetchPage[domain.Artist](ctx, r.db, q, artistListing, r.now(),
		pkg.WhereIn(q, "countryId", "artists.country_id", pkg.ParseUint),
		pkg.WhereIn(q, "verified", "artists.verified", parseBool),
	)
	if err != nil {
		return nil, pkg.MapDBError(err, "artist")
	}
	return page, nil
}

func (r *dashboardRepository) Tracks(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Track], error) {
	page, err := pkg.FetchPage[domain.Track](ctx, r.db, q, catalog.TrackListing, r.now(), catalog.TrackFacets(q)...)
	if err != nil {
		return nil, pkg.MapDBError(err, "track")
	}
	return page, nil
}

func (r *dashboardRepository) Nfts(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Nft], error) {
	page, err := pkg.FetchPage[domain.Nft](ctx, r.db, q, nft.Listing, r.now(), nft.Facets(q)...)
	if err != nil {
		return nil, pkg.MapDBError(err, "nft")
	}
	return page, nil
}

// Applications supports the status facet. Status All adds no filter.
func (r *dashboardRepository) Applications(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.ArtistApplication], error) {
	page, err := pkg.FetchPage[domain.ArtistApplication](ctx, r.db, q, applicationListing, r.now(),
		pkg.WhereIn(q, "status", "artist_applications.status", parseStatus),
	)
	if err != nil {
		return nil, pkg.MapDBError(err, "application")
	}
	return page, nil
}

func parseStatus(raw string) (any, bool) {
	st, ok := domain.ParseApplicationStatus(raw)
	if !ok || st == domain.ApplicationAll {
		return nil, false
	}
	return st, true
}

func parseRole(raw string) (any, bool) {
	switch r := domain.Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case domain.RoleUser, domain.RoleArtist, domain.RoleAdmin:
		return r, true
	default:
		return nil, false
	}
}

func parseBool(raw string) (any, bool) {
	b, err := strconv.ParseBool(raw)
	return b, err == nil
}
