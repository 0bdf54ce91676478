package dashboard

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// DashboardHandler serves the admin listings.
type DashboardHandler struct {
	svc domain.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler with the given service.
func NewDashboardHandler(svc domain.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// listing adapts a listing fetch to a gin handler.
func listing[T any](fetch func(context.Context, domain.ListingQuery) (*domain.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := fetch(c.Request.Context(), pkg.ParseListingQuery(c))
		if err != nil {
			pkg.Error(c, err)
			return
		}
		pkg.List(c, page)
	}
}

// Users handles GET /api/v1/dashboard/users.
func (h *DashboardHandler) Users(c *gin.Context) { listing(h.svc.Users)(c) }

// Artists handles GET /api/v1/dashboard/artists.
func (h *DashboardHandler) Artists(c *gin.Context) { listing(h.svc.Artists)(c) }

// Tracks handles GET /api/v1/dashboard/tracks.
func (h *DashboardHandler) Tracks(c *gin.Context) { listing(h.svc.Tracks)(c) }

// Nfts handles GET /api/v1/dashboard/nfts.
func (h *DashboardHandler) Nfts(c *gin.Context) { listing(h.svc.Nfts)(c) }

// Applications handles GET /api/v1/dashboard/applications.
func (h *DashboardHandler) Applications(c *gin.Context) { listing(h.svc.Applications)(c) }

// ActiveApplications handles GET /api/v1/dashboard/active-applications.
func (h *DashboardHandler) ActiveApplications(c *gin.Context) {
	n, err := h.svc.ActiveApplications(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, n)
}
