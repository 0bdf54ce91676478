package referral

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/middleware"
)

// ReferralModule implements the app.Module interface for referrals.
type ReferralModule struct {
	handler *ReferralHandler
}

// NewModule creates a new ReferralModule with the given handler.
// Panics if h is nil.
func NewModule(h *ReferralHandler) *ReferralModule {
	if h == nil {
		panic("referral.NewModule: handler must not be nil")
	}
	return &ReferralModule{handler: h}
}

// RegisterRoutes registers referral API routes.
func (m *ReferralModule) RegisterRoutes(api *gin.RouterGroup) {
	referrals := api.Group("/referrals", middleware.RequireUser())
	referrals.POST("/milestones", m.handler.Claim)
	referrals.GET("/:userId", m.handler.Summary)
}
