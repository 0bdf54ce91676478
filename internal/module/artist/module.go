package artist

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
)

// ArtistModule implements the app.Module interface for artists.
type ArtistModule struct {
	handler *ArtistHandler
}

// NewModule creates a new ArtistModule with the given handler.
// Panics if h is nil.
func NewModule(h *ArtistHandler) *ArtistModule {
	if h == nil {
		panic("artist.NewModule: handler must not be nil")
	}
	return &ArtistModule{handler: h}
}

// RegisterRoutes registers artist API routes.
func (m *ArtistModule) RegisterRoutes(api *gin.RouterGroup) {
	artists := api.Group("/artists")
	artists.POST("/applications", middleware.RequireUser(), m.handler.Apply)
	artists.PATCH("/applications/:id", middleware.RequireRole(domain.RoleAdmin), m.handler.Review)
	artists.GET("/:id", m.handler.Get)
}
