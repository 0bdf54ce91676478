package user

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and, when present, its profile.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return mapError(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID retrieves a user with profile and country.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "users.id = ?", id)
}

// GetByEmail matches the stored, lower-cased email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "users.email = ?", email)
}

// GetByWallet matches a base58 wallet address exactly.
func (r *userRepository) GetByWallet(ctx context.Context, address string) (*domain.User, error) {
	return r.first(ctx, "users.wallet_address = ?", address)
}

// GetByExternalID matches the subject issued by an external login provider.
func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.first(ctx, "users.external_id = ?", externalID)
}

// GetByReferralCode matches a referral code exactly.
func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return r.first(ctx, "users.referral_code = ?", code)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Profile.Country").
		Where(query, arg).
		First(&user).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Update saves the user's own columns. The profile is saved separately.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// SaveProfile inserts a new profile or updates an existing one. The unique
// user_id index keeps one profile per user.
func (r *userRepository) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	return mapError(r.db.WithContext(ctx).Omit("Country").Save(profile).Error)
}

// Delete removes a user together with the rows that reference it.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return pkg.InTx(ctx, r.db, func(tx *gorm.DB) error {
		for _, dep := range []struct {
			model  any
			column string
		}{
			{&domain.Profile{}, "user_id"},
			{&domain.ArtistApplication{}, "user_id"},
			{&domain.NftLike{}, "user_id"},
			{&domain.MilestoneClaim{}, "user_id"},
			{&domain.Referral{}, "referred_id"},
		} {
			if err := tx.Where(dep.column+" = ?", id).Delete(dep.model).Error; err != nil {
				return mapError(err)
			}
		}

		result := tx.Delete(&domain.User{}, id)
		if result.Error != nil {
			return mapError(result.Error)
		}
		if result.RowsAffected == 0 {
			return errUserNotFound
		}
		return nil
	})
}

var errUserNotFound = domain.NewAppError(domain.CodeNotFound, "user not found", nil)

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	return pkg.MapDBError(err, "user")
}
