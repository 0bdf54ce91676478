package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

var albumListing = pkg.ListingSpec{
	Table:      "albums",
	Search:     []pkg.SortColumn{{Expr: "albums.title"}},
	TimeColumn: "albums.release_date",
	Sort: map[string]pkg.SortColumn{
		"title":       {Expr: "albums.title"},
		"releaseDate": {Expr: "albums.release_date"},
		"createdAt":   {Expr: "albums.created_at"},
	},
	DefaultOrder: "albums.release_date DESC, albums.id DESC",
	Preloads:     []string{"Artists"},
}

const albumJoin = "LEFT JOIN albums ON albums.id = tracks.album_id"

// TrackListing describes the track listing. The dashboard reuses it.
var TrackListing = pkg.ListingSpec{
	Table: "tracks",
	Search: []pkg.SortColumn{
		{Expr: "tracks.title"},
		{Expr: "albums.title", Joins: []string{albumJoin}},
	},
	TimeColumn: "tracks.release_date",
	Sort: map[string]pkg.SortColumn{
		"title":       {Expr: "tracks.title"},
		"releaseDate": {Expr: "tracks.release_date"},
		"playCount":   {Expr: "tracks.play_count"},
		"createdAt":   {Expr: "tracks.created_at"},
		"album.title": {Expr: "albums.title", Joins: []string{albumJoin}},
	},
	DefaultOrder: "tracks.release_date DESC, tracks.id DESC",
	Preloads:     []string{"Artists", "Genres", "Album"},
}

// catalogRepository implements domain.CatalogRepository using GORM.
type catalogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCatalogRepository creates a new CatalogRepository backed by the given GORM database.
func NewCatalogRepository(db *gorm.DB) domain.CatalogRepository {
	return &catalogRepository{db: db, now: time.Now}
}

// CreateAlbum inserts album and its artist links. Linked artists must exist.
func (r *catalogRepository) CreateAlbum(ctx context.Context, album *domain.Album) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Omit("Artists.*").Create(album).Error, "album")
}

// CreateTrack inserts track and its artist and genre links.
func (r *catalogRepository) CreateTrack(ctx context.Context, track *domain.Track) error {
	err := r.db.WithContext(ctx).
		Omit("Artists.*", "Genres.*", "Album").
		Create(track).Error
	return pkg.MapDBError(err, "track")
}

func (r *catalogRepository) GetAlbum(ctx context.Context, id uint) (*domain.Album, error) {
	var album domain.Album
	if err := r.db.WithContext(ctx).Preload("Artists").First(&album, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "album")
	}
	return &album, nil
}

func (r *catalogRepository) FindGenres(ctx context.Context, ids []uint) ([]domain.Genre, error) {
	var genres []domain.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&genres).Error; err != nil {
		return nil, pkg.MapDBError(err, "genre")
	}
	return genres, nil
}

// ListAlbums supports the artistId facet.
func (r *catalogRepository) ListAlbums(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Album], error) {
	page, err := pkg.FetchPage[domain.Album](ctx, r.db, q, albumListing, r.now(),
		linkedTo(q, "artistId", "albums.id", "album_artists", "album_id", "artist_id"),
	)
	if err != nil {
		return nil, pkg.MapDBError(err, "album")
	}
	return page, nil
}

// TrackFacets returns the scopes for the artistId, genreId and albumId facets.
func TrackFacets(q domain.ListingQuery) []pkg.Scope {
	return []pkg.Scope{
		linkedTo(q, "artistId", "tracks.id", "track_artists", "track_id", "artist_id"),
		linkedTo(q, "genreId", "tracks.id", "track_genres", "track_id", "genre_id"),
		pkg.WhereIn(q, "albumId", "tracks.album_id", pkg.ParseUint),
	}
}

func (r *catalogRepository) ListTracks(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Track], error) {
	page, err := pkg.FetchPage[domain.Track](ctx, r.db, q, TrackListing, r.now(), TrackFacets(q)...)
	if err != nil {
		return nil, pkg.MapDBError(err, "track")
	}
	return page, nil
}

func (r *catalogRepository) Genres(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	if err := r.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, pkg.MapDBError(err, "genre")
	}
	return genres, nil
}

func (r *catalogRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	var countries []domain.Country
	if err := r.db.WithContext(ctx).Order("name").Find(&countries).Error; err != nil {
		return nil, pkg.MapDBError(err, "country")
	}
	return countries, nil
}

// linkedTo filters rows whose id appears in a many2many join table next to
// one of the facet's ids.
func linkedTo(q domain.ListingQuery, facet, idColumn, joinTable, ownKey, otherKey string) pkg.Scope {
	return func(db *gorm.DB) *gorm.DB {
		ids := make([]uint, 0, len(q.Facets[facet]))
		for _, raw := range q.Facets[facet] {
			if v, ok := pkg.ParseUint(raw); ok {
				ids = append(ids, v.(uint))
			}
		}
		if len(ids) == 0 {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(joinTable).
			Select(ownKey).
			Where(otherKey+" IN ?", ids)
		return db.Where(idColumn+" IN (?)", sub)
	}
}
