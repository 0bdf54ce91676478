package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
)

// DashboardModule implements the app.Module interface for the admin dashboard.
type DashboardModule struct {
	handler *DashboardHandler
}

// NewModule creates a new DashboardModule with the given handler.
// Panics if h is nil.
func NewModule(h *DashboardHandler) *DashboardModule {
	if h == nil {
		panic("dashboard.NewModule: handler must not be nil")
	}
	return &DashboardModule{handler: h}
}

// RegisterRoutes registers admin dashboard routes.
func (m *DashboardModule) RegisterRoutes(api *gin.RouterGroup) {
	dash := api.Group("/dashboard", middleware.RequireRole(domain.RoleAdmin))
	dash.GET("/users", m.handler.Users)
	dash.GET("/artists", m.handler.Artists)
	dash.GET("/tracks", m.handler.Tracks)
	dash.GET("/nfts", m.handler.Nfts)
	dash.GET("/applications", m.handler.Applications)
	dash.GET("/active-applications", m.handler.ActiveApplications)
}
