package catalog

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/simp-lee/soundmint/internal/domain"
)

// catalogService implements domain.CatalogService.
type catalogService struct {
	repo    domain.CatalogRepository
	artists domain.ArtistRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo domain.CatalogRepository, artists domain.ArtistRepository) domain.CatalogService {
	return &catalogService{repo: repo, artists: artists}
}

// CreateAlbum validates in and stores the album linked to its artists.
func (s *catalogService) CreateAlbum(ctx context.Context, in domain.NewAlbum) (*domain.Album, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.ReleaseDate.IsZero() {
		return nil, domain.NewAppError(domain.CodeValidation, "releaseDate is required", nil)
	}
	if in.CoverPath == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "cover is required", nil)
	}
	artists, err := s.resolveArtists(ctx, in.ArtistIDs)
	if err != nil {
		return nil, err
	}

	album := &domain.Album{
		Title:       title,
		Slug:        slug.Make(title),
		ReleaseDate: in.ReleaseDate,
		CoverPath:   in.CoverPath,
		Artists:     artists,
	}
	if err := s.repo.CreateAlbum(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// CreateTrack validates in and stores the track linked to its artists,
// genres and optional album.
func (s *catalogService) CreateTrack(ctx context.Context, in domain.NewTrack) (*domain.Track, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.ReleaseDate.IsZero() {
		return nil, domain.NewAppError(domain.CodeValidation, "releaseDate is required", nil)
	}
	if in.AudioPath == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "track file is required", nil)
	}
	artists, err := s.resolveArtists(ctx, in.ArtistIDs)
	if err != nil {
		return nil, err
	}

	genreIDs := dedupe(in.GenreIDs)
	genres, err := s.repo.FindGenres(ctx, genreIDs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(genreIDs) {
		return nil, domain.NewAppError(domain.CodeValidation, "genreIds references an unknown genre", nil)
	}

	if in.AlbumID != nil {
		if _, err := s.repo.GetAlbum(ctx, *in.AlbumID); err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.NewAppError(domain.CodeValidation, "albumId references an unknown album", nil)
			}
			return nil, err
		}
	}

	track := &domain.Track{
		Title:       title,
		Slug:        slug.Make(title),
		ReleaseDate: in.ReleaseDate,
		CoverPath:   in.CoverPath,
		AudioPath:   in.AudioPath,
		AlbumID:     in.AlbumID,
		Artists:     artists,
		Genres:      genres,
	}
	if err := s.repo.CreateTrack(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

func (s *catalogService) ListAlbums(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Album], error) {
	return s.repo.ListAlbums(ctx, q)
}

func (s *catalogService) ListTracks(ctx context.Context, q domain.ListingQuery) (*domain.Page[domain.Track], error) {
	return s.repo.ListTracks(ctx, q)
}

func (s *catalogService) Genres(ctx context.Context) ([]domain.Genre, error) {
	return s.repo.Genres(ctx)
}

func (s *catalogService) Countries(ctx context.Context) ([]domain.Country, error) {
	return s.repo.Countries(ctx)
}

func (s *catalogService) resolveArtists(ctx context.Context, ids []uint) ([]domain.Artist, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "at least one artist is required", nil)
	}
	artists, err := s.artists.FindArtists(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(artists) != len(ids) {
		return nil, domain.NewAppError(domain.CodeValidation, "artistIds references an unknown artist", nil)
	}
	return artists, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return "", domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}
	if n > 200 {
		return "", domain.NewAppError(domain.CodeValidation, "title must not exceed 200 characters", nil)
	}
	return title, nil
}

func dedupe(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
