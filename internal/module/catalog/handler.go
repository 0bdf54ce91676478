package catalog

import (
	"log/slog"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const (
	coverDir = "covers"
	audioDir = "tracks"
)

// FileStore persists uploaded media.
type FileStore interface {
	Save(fh *multipart.FileHeader, kind pkg.FileKind, dir string) (string, error)
	Remove(rel string) error
}

// CatalogHandler handles REST API requests for albums, tracks and reference data.
type CatalogHandler struct {
	svc   domain.CatalogService
	files FileStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc domain.CatalogService, files FileStore) *CatalogHandler {
	return &CatalogHandler{svc: svc, files: files}
}

// CreateAlbum handles POST /api/v1/albums.
func (h *CatalogHandler) CreateAlbum(c *gin.Context) {
	var form CreateAlbumForm
	if !pkg.BindAndValidate(c, &form) {
		return
	}

	cover, err := h.files.Save(form.Cover, pkg.KindImage, coverDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	album, err := h.svc.CreateAlbum(c.Request.Context(), domain.NewAlbum{
		Title:       form.Title,
		ArtistIDs:   form.ArtistIDs,
		ReleaseDate: form.ReleaseDate,
		CoverPath:   cover,
	})
	if err != nil {
		h.discard(c, cover)
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, album)
}

// CreateTrack handles POST /api/v1/tracks.
func (h *CatalogHandler) CreateTrack(c *gin.Context) {
	var form CreateTrackForm
	if !pkg.BindAndValidate(c, &form) {
		return
	}

	audio, err := h.files.Save(form.Track, pkg.KindAudio, audioDir)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var cover string
	if form.Cover != nil {
		if cover, err = h.files.Save(form.Cover, pkg.KindImage, coverDir); err != nil {
			h.discard(c, audio)
			pkg.Error(c, err)
			return
		}
	}

	track, err := h.svc.CreateTrack(c.Request.Context(), domain.NewTrack{
		Title:       form.Title,
		ArtistIDs:   form.ArtistIDs,
		ReleaseDate: form.ReleaseDate,
		CoverPath:   cover,
		AudioPath:   audio,
		GenreIDs:    form.GenreIDs,
		AlbumID:     form.AlbumID,
	})
	if err != nil {
		h.discard(c, audio, cover)
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, track)
}

// discard removes files stored for a request that then failed.
func (h *CatalogHandler) discard(c *gin.Context, paths ...string) {
	for _, p := range paths {
		if err := h.files.Remove(p); err != nil {
			slog.WarnContext(c.Request.Context(), "failed to remove orphaned upload",
				slog.String("path", p),
				slog.Any("error", err),
			)
		}
	}
}

// ListAlbums handles GET /api/v1/albums.
func (h *CatalogHandler) ListAlbums(c *gin.Context) {
	page, err := h.svc.ListAlbums(c.Request.Context(), pkg.ParseListingQuery(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// ListTracks handles GET /api/v1/tracks.
func (h *CatalogHandler) ListTracks(c *gin.Context) {
	page, err := h.svc.ListTracks(c.Request.Context(), pkg.ParseListingQuery(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, page)
}

// Genres handles GET /api/v1/genres.
func (h *CatalogHandler) Genres(c *gin.Context) {
	genres, err := h.svc.Genres(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, genres)
}

// Countries handles GET /api/v1/countries.
func (h *CatalogHandler) Countries(c *gin.Context) {
	countries, err := h.svc.Countries(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, countries)
}
