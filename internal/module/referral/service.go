package referral

import (
	"context"
	"log/slog"
	"slices"

	"github.com/simp-lee/soundmint/internal/domain"
)

var errNotReached = domain.NewAppError(domain.CodeValidation, "milestone has not been reached", nil)

// referralService implements domain.ReferralService.
type referralService struct {
	repo  domain.ReferralRepository
	users domain.UserRepository
}

// NewReferralService creates a new ReferralService.
func NewReferralService(repo domain.ReferralRepository, users domain.UserRepository) domain.ReferralService {
	return &referralService{repo: repo, users: users}
}

// Summary reports the user's code, how many users registered with it and
// the state of every milestone.
func (s *referralService) Summary(ctx context.Context, userID uint) (*domain.ReferralSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.repo.Milestones(ctx)
	if err != nil {
		return nil, err
	}
	claimed, err := s.repo.ClaimedMilestoneIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := make([]domain.MilestoneProgress, 0, len(milestones))
	for _, m := range milestones {
		progress = append(progress, domain.MilestoneProgress{
			Milestone: m,
			Reached:   count >= int64(m.Threshold),
			Claimed:   slices.Contains(claimed, m.ID),
		})
	}

	return &domain.ReferralSummary{
		UserID:        user.ID,
		ReferralCode:  user.ReferralCode,
		ReferralCount: count,
		Milestones:    progress,
	}, nil
}

// ClaimMilestone records a one-time claim of a reached milestone.
func (s *referralService) ClaimMilestone(ctx context.Context, userID, milestoneID uint) (*domain.MilestoneClaim, error) {
	m, err := s.repo.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count < int64(m.Threshold) {
		return nil, errNotReached
	}

	claim := &domain.MilestoneClaim{UserID: userID, MilestoneID: m.ID}
	if err := s.repo.CreateClaim(ctx, claim); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "milestone claimed", "user_id", userID, "milestone_id", m.ID, "threshold", m.Threshold)
	return claim, nil
}
