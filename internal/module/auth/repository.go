package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// AccountRepository stores new accounts.
type AccountRepository interface {
	// CreateAccount inserts user and, when referrerID is set, the referral
	// edge in the same transaction.
	CreateAccount(ctx context.Context, user *domain.User, referrerID *uint) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an AccountRepository backed by db.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, user *domain.User, referrerID *uint) error {
	return pkg.InTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return pkg.MapDBError(err, "user")
		}
		if referrerID == nil {
			return nil
		}
		ref := &domain.Referral{ReferrerID: *referrerID, ReferredID: user.ID}
		if err := tx.Create(ref).Error; err != nil {
			return pkg.MapDBError(err, "referral")
		}
		return nil
	})
}
