package referral

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// ReferralHandler handles REST API requests for the referral program.
type ReferralHandler struct {
	svc domain.ReferralService
}

// NewReferralHandler creates a new ReferralHandler with the given service.
func NewReferralHandler(svc domain.ReferralService) *ReferralHandler {
	return &ReferralHandler{svc: svc}
}

// Summary handles GET /api/v1/referrals/:userId. Users see their own
// summary; admins may see anyone's.
func (h *ReferralHandler) Summary(c *gin.Context) {
	userID, err := pkg.ParseID(c, "userId")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	callerID, _ := middleware.UserID(c)
	if callerID != userID && middleware.UserRole(c) != domain.RoleAdmin {
		pkg.Error(c, domain.ErrForbidden)
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, summary)
}

// Claim handles POST /api/v1/referrals/milestones.
func (h *ReferralHandler) Claim(c *gin.Context) {
	var req ClaimRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.UserID(c)
	claim, err := h.svc.ClaimMilestone(c.Request.Context(), userID, req.MilestoneID)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, claim)
}
