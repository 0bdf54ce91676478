package user

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/soundmint/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile validates and stores the editable profile fields, creating the
// profile on first edit.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, in domain.ProfileUpdate) (*domain.User, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Bio = strings.TrimSpace(in.Bio)
	if err := validateProfile(in); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &domain.Profile{UserID: user.ID}
	}
	profile.DisplayName = in.DisplayName
	profile.Bio = in.Bio
	profile.CountryID = in.CountryID
	profile.Country = nil

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// DeleteUser removes a user by ID.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func validateProfile(in domain.ProfileUpdate) error {
	if utf8.RuneCountInString(in.DisplayName) > 100 {
		return domain.NewAppError(domain.CodeValidation, "displayName must be at most 100 characters", nil)
	}
	if utf8.RuneCountInString(in.Bio) > 1000 {
		return domain.NewAppError(domain.CodeValidation, "bio must be at most 1000 characters", nil)
	}
	if in.CountryID != nil && *in.CountryID == 0 {
		return domain.NewAppError(domain.CodeValidation, "countryId must be positive", nil)
	}
	return nil
}
