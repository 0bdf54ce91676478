package domain

import (
	"context"
	"time"
)

// Album groups tracks released together by one or more artists.
type Album struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:220;index;not null" json:"slug"`
	ReleaseDate time.Time `json:"releaseDate"`
	CoverPath   string    `gorm:"size:255" json:"coverPath"`
	Artists     []Artist  `gorm:"many2many:album_artists" json:"artists"`
}

// Track is a single playable recording.
type Track struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:220;index;not null" json:"slug"`
	ReleaseDate time.Time `json:"releaseDate"`
	CoverPath   string    `gorm:"size:255" json:"coverPath,omitempty"`
	AudioPath   string    `gorm:"size:255;not null" json:"audioPath"`
	AlbumID     *uint     `gorm:"index" json:"albumId,omitempty"`
	Album       *Album    `json:"album,omitempty"`
	PlayCount   int64     `gorm:"not null;default:0" json:"playCount"`
	Artists     []Artist  `gorm:"many2many:track_artists" json:"artists"`
	Genres      []Genre   `gorm:"many2many:track_genres" json:"genres"`
}

// NewAlbum is the validated input for album creation. CoverPath is the
// already stored cover image.
type NewAlbum struct {
	Title       string
	ArtistIDs   []uint
	ReleaseDate time.Time
	CoverPath   string
}

// NewTrack is the validated input for track creation.
type NewTrack struct {
	Title       string
	ArtistIDs   []uint
	ReleaseDate time.Time
	CoverPath   string
	AudioPath   string
	GenreIDs    []uint
	AlbumID     *uint
}

// CatalogRepository defines the data access interface for albums, tracks and reference data.
type CatalogRepository interface {
	CreateAlbum(ctx context.Context, album *Album) error
	CreateTrack(ctx context.Context, track *Track) error
	GetAlbum(ctx context.Context, id uint) (*Album, error)
	FindGenres(ctx context.Context, ids []uint) ([]Genre, error)
	ListAlbums(ctx context.Context, q ListingQuery) (*Page[Album], error)
	ListTracks(ctx context.Context, q ListingQuery) (*Page[Track], error)
	Genres(ctx context.Context) ([]Genre, error)
	Countries(ctx context.Context) ([]Country, error)
}

// CatalogService defines the business logic interface for the catalog.
type CatalogService interface {
	CreateAlbum(ctx context.Context, in NewAlbum) (*Album, error)
	CreateTrack(ctx context.Context, in NewTrack) (*Track, error)
	ListAlbums(ctx context.Context, q ListingQuery) (*Page[Album], error)
	ListTracks(ctx context.Context, q ListingQuery) (*Page[Track], error)
	Genres(ctx context.Context) ([]Genre, error)
	Countries(ctx context.Context) ([]Country, error)
}
