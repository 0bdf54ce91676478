package referral

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// referralRepository implements domain.ReferralRepository using GORM.
type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new ReferralRepository backed by the given GORM database.
func NewReferralRepository(db *gorm.DB) domain.ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) CountReferrals(ctx context.Context, referrerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Referral{}).Where("referrer_id = ?", referrerID).Count(&n).Error
	if err != nil {
		return 0, pkg.MapDBError(err, "referral")
	}
	return n, nil
}

// Milestones returns every milestone, lowest threshold first.
func (r *referralRepository) Milestones(ctx context.Context) ([]domain.Milestone, error) {
	var ms []domain.Milestone
	if err := r.db.WithContext(ctx).Order("threshold").Find(&ms).Error; err != nil {
		return nil, pkg.MapDBError(err, "milestone")
	}
	return ms, nil
}

func (r *referralRepository) GetMilestone(ctx context.Context, id uint) (*domain.Milestone, error) {
	var m domain.Milestone
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "milestone")
	}
	return &m, nil
}

func (r *referralRepository) ClaimedMilestoneIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.MilestoneClaim{}).
		Where("user_id = ?", userID).
		Pluck("milestone_id", &ids).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "milestone claim")
	}
	return ids, nil
}

// CreateClaim stores claim. A second claim of the same milestone by the same
// user violates the unique index and maps to AlreadyExists.
func (r *referralRepository) CreateClaim(ctx context.Context, claim *domain.MilestoneClaim) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(claim).Error, "milestone claim")
}
