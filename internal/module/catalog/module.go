package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
)

// CatalogModule implements the app.Module interface for the catalog.
type CatalogModule struct {
	handler *CatalogHandler
}

// NewModule creates a new CatalogModule with the given handler.
// Panics if h is nil.
func NewModule(h *CatalogHandler) *CatalogModule {
	if h == nil {
		panic("catalog.NewModule: handler must not be nil")
	}
	return &CatalogModule{handler: h}
}

// RegisterRoutes registers catalog API routes. Creating content requires
// an artist or admin token.
func (m *CatalogModule) RegisterRoutes(api *gin.RouterGroup) {
	creator := middleware.RequireRole(domain.RoleArtist, domain.RoleAdmin)

	api.POST("/albums", creator, m.handler.CreateAlbum)
	api.GET("/albums", m.handler.ListAlbums)
	api.POST("/tracks", creator, m.handler.CreateTrack)
	api.GET("/tracks", m.handler.ListTracks)
	api.GET("/genres", m.handler.Genres)
	api.GET("/countries", m.handler.Countries)
}
