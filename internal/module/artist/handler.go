package artist

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// ArtistHandler handles REST API requests for artists and applications.
type ArtistHandler struct {
	svc domain.ArtistService
}

// NewArtistHandler creates a new ArtistHandler with the given service.
func NewArtistHandler(svc domain.ArtistService) *ArtistHandler {
	return &ArtistHandler{svc: svc}
}

// Get handles GET /api/v1/artists/:id.
func (h *ArtistHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	artist, err := h.svc.GetArtist(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, artist)
}

// Apply handles POST /api/v1/artists/applications.
func (h *ArtistHandler) Apply(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req ApplyRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), userID, req.ArtistName, req.Bio, req.CountryID)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, app)
}

// Review handles PATCH /api/v1/artists/applications/:id. The reviewerId in
// the body must name the authenticated admin.
func (h *ArtistHandler) Review(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req ReviewRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	adminID, _ := middleware.UserID(c)
	if req.ReviewerID != adminID {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "reviewerId must match the authenticated reviewer", nil))
		return
	}

	app, err := h.svc.Review(c.Request.Context(), id, domain.ApplicationReview{
		Status:     domain.ApplicationStatus(req.Status),
		ReviewerID: req.ReviewerID,
		ArtistName: req.ArtistName,
		Bio:        req.Bio,
		CountryID:  req.CountryID,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, app)
}
