package catalog

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/module/artist"
	"github.com/simp-lee/soundmint/internal/testutil"
)

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }

func newTestService(t *testing.T) (domain.CatalogService, seed) {
	t.Helper()
	db := testutil.OpenDB(t)
	s := seedCatalog(t, db)
	return NewCatalogService(NewCatalogRepository(db), artist.NewArtistRepository(db)), s
}

var released = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCreateAlbum(t *testing.T) {
	svc, s := newTestService(t)

	album, err := svc.CreateAlbum(context.Background(), domain.NewAlbum{
		Title:       "  Midnight Sun  ",
		ArtistIDs:   []uint{s.artists[1].ID, s.artists[0].ID, s.artists[1].ID},
		ReleaseDate: released,
		CoverPath:   "covers/m.png",
	})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	if album.Title != "Midnight Sun" || album.Slug != "midnight-sun" {
		t.Errorf("title/slug = %q/%q", album.Title, album.Slug)
	}
	if len(album.Artists) != 2 {
		t.Errorf("artists = %d; want 2 after dedupe", len(album.Artists))
	}
}

func TestCreateAlbum_Validation(t *testing.T) {
	svc, s := newTestService(t)
	valid := domain.NewAlbum{Title: "T", ArtistIDs: []uint{s.artists[0].ID}, ReleaseDate: released, CoverPath: "c.png"}

	tests := []struct {
		name   string
		mutate func(*domain.NewAlbum)
	}{
		{"blank title", func(in *domain.NewAlbum) { in.Title = " " }},
		{"long title", func(in *domain.NewAlbum) { in.Title = strings.Repeat("t", 201) }},
		{"no artists", func(in *domain.NewAlbum) { in.ArtistIDs = nil }},
		{"unknown artist", func(in *domain.NewAlbum) { in.ArtistIDs = []uint{999} }},
		{"no release date", func(in *domain.NewAlbum) { in.ReleaseDate = time.Time{} }},
		{"no cover", func(in *domain.NewAlbum) { in.CoverPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := svc.CreateAlbum(context.Background(), in); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateTrack(t *testing.T) {
	svc, s := newTestService(t)

	track, err := svc.CreateTrack(context.Background(), domain.NewTrack{
		Title:       "Aurora Borealis",
		ArtistIDs:   []uint{s.artists[0].ID},
		ReleaseDate: released,
		AudioPath:   "tracks/a.mp3",
		GenreIDs:    []uint{s.genres[0].ID, s.genres[1].ID},
		AlbumID:     &s.album.ID,
	})
	if err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	if track.ID == 0 || track.Slug != "aurora-borealis" || len(track.Genres) != 2 {
		t.Errorf("track = %+v", track)
	}
}

func TestCreateTrack_Validation(t *testing.T) {
	svc, s := newTestService(t)
	missingAlbum := uint(999)
	valid := domain.NewTrack{Title: "T", ArtistIDs: []uint{s.artists[0].ID}, ReleaseDate: released, AudioPath: "a.mp3"}

	tests := []struct {
		name   string
		mutate func(*domain.NewTrack)
	}{
		{"no audio", func(in *domain.NewTrack) { in.AudioPath = "" }},
		{"unknown genre", func(in *domain.NewTrack) { in.GenreIDs = []uint{s.genres[0].ID, 999} }},
		{"unknown album", func(in *domain.NewTrack) { in.AlbumID = &missingAlbum }},
		{"unknown artist", func(in *domain.NewTrack) { in.ArtistIDs = []uint{s.artists[0].ID, 999} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := svc.CreateTrack(context.Background(), in); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
