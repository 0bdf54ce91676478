package domain

import "context"

// Referral links a referred user to the user whose code they registered with.
type Referral struct {
	BaseModel
	ReferrerID uint `gorm:"index;not null" json:"referrerId"`
	ReferredID uint `gorm:"uniqueIndex;not null" json:"referredId"`
}

// Milestone is a referral-count threshold that unlocks a one-time reward.
type Milestone struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	Threshold int    `gorm:"uniqueIndex;not null" json:"threshold"`
	Reward    string `gorm:"size:255" json:"reward"`
}

// MilestoneClaim records that a user claimed a milestone reward.
type MilestoneClaim struct {
	BaseModel
	UserID      uint `gorm:"uniqueIndex:idx_claim_user_milestone;not null" json:"userId"`
	MilestoneID uint `gorm:"uniqueIndex:idx_claim_user_milestone;not null" json:"milestoneId"`
}

// MilestoneProgress is a milestone as seen by one user.
type MilestoneProgress struct {
	Milestone
	Reached bool `json:"reached"`
	Claimed bool `json:"claimed"`
}

// ReferralSummary is a user's referral state.
type ReferralSummary struct {
	UserID        uint                `json:"userId"`
	ReferralCode  string              `json:"referralCode"`
	ReferralCount int64               `json:"referralCount"`
	Milestones    []MilestoneProgress `json:"milestones"`
}

// ReferralRepository defines the data access interface for referrals.
type ReferralRepository interface {
	CountReferrals(ctx context.Context, referrerID uint) (int64, error)
	Milestones(ctx context.Context) ([]Milestone, error)
	GetMilestone(ctx context.Context, id uint) (*Milestone, error)
	ClaimedMilestoneIDs(ctx context.Context, userID uint) ([]uint, error)
	CreateClaim(ctx context.Context, claim *MilestoneClaim) error
}

// ReferralService defines the business logic interface for the referral program.
type ReferralService interface {
	Summary(ctx context.Context, userID uint) (*ReferralSummary, error)
	ClaimMilestone(ctx context.Context, userID, milestoneID uint) (*MilestoneClaim, error)
}
