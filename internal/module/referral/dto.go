package referral

// ClaimRequest is the body of a milestone claim.
type ClaimRequest struct {
	MilestoneID uint `json:"milestoneId" binding:"required,min=1"`
}
