package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
)

// UserModule implements the app.Module interface for the user domain.
type UserModule struct {
	handler *UserHandler
}

// NewModule creates a new UserModule with the given handler.
// Panics if h is nil.
func NewModule(h *UserHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h}
}

// RegisterRoutes registers user API routes.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.GET("/me", middleware.RequireUser(), m.handler.Me)
	users.PATCH("/me/profile", middleware.RequireUser(), m.handler.UpdateProfile)
	users.GET("/:id", m.handler.Get)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), m.handler.Delete)
}
