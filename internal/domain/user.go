package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Role controls what an authenticated user may do.
type Role string

const (
	RoleUser   Role = "user"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

// User represents an account. Email, WalletAddress and ExternalID are
// optional because wallet and external-provider accounts may lack them.
type User struct {
	BaseModel
	Name          string   `gorm:"size:100;not null" json:"name"`
	Email         *string  `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash  string   `gorm:"size:255" json:"-"`
	WalletAddress *string  `gorm:"size:64;uniqueIndex" json:"walletAddress,omitempty"`
	ExternalID    *string  `gorm:"size:128;uniqueIndex" json:"-"`
	Role          Role     `gorm:"size:16;not null;default:user" json:"role"`
	ReferralCode  string   `gorm:"size:16;uniqueIndex;not null" json:"referralCode"`
	Profile       *Profile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// Profile holds the public, user-editable part of an account.
type Profile struct {
	BaseModel
	UserID      uint     `gorm:"uniqueIndex;not null" json:"userId"`
	DisplayName string   `gorm:"size:100" json:"displayName"`
	Bio         string   `gorm:"size:1000" json:"bio"`
	AvatarPath  string   `gorm:"size:255" json:"avatarPath,omitempty"`
	CountryID   *uint    `json:"countryId,omitempty"`
	Country     *Country `json:"country,omitempty"`
}

// NewReferralCode returns a fresh upper-case eight character code.
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// StringPtr returns a pointer to a trimmed copy of s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	DisplayName string
	Bio         string
	CountryID   *uint
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByWallet(ctx context.Context, address string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	Update(ctx context.Context, user *User) error
	SaveProfile(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, id uint) error
}

// UserService defines the business logic interface for users.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*User, error)
	DeleteUser(ctx context.Context, id uint) error
}
