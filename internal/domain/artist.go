package domain

import (
	"context"
	"strings"
	"time"
)

// ApplicationStatus is the review state of an artist application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
	// ApplicationAll is a listing facet value, never stored.
	ApplicationAll ApplicationStatus = "All"
)

// ParseApplicationStatus matches s case-insensitively.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	for _, st := range []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationAll} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Artist is a performer whose albums, tracks and NFTs are listed in the catalog.
type Artist struct {
	BaseModel
	UserID    *uint    `gorm:"index" json:"userId,omitempty"`
	Name      string   `gorm:"size:100;not null" json:"name"`
	Bio       string   `gorm:"size:2000" json:"bio"`
	CountryID *uint    `json:"countryId,omitempty"`
	Country   *Country `json:"country,omitempty"`
	Verified  bool     `gorm:"not null;default:false" json:"verified"`
}

// ArtistApplication is a user's request to become an artist.
type ArtistApplication struct {
	BaseModel
	UserID     uint              `gorm:"index;not null" json:"userId"`
	User       *User             `json:"user,omitempty"`
	ArtistName string            `gorm:"size:100;not null" json:"artistName"`
	Bio        string            `gorm:"size:2000" json:"bio"`
	CountryID  *uint             `json:"countryId,omitempty"`
	Country    *Country          `json:"country,omitempty"`
	Status     ApplicationStatus `gorm:"size:16;index;not null" json:"status"`
	ReviewerID *uint             `json:"reviewerId,omitempty"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
	ArtistID   *uint             `json:"artistId,omitempty"`
}

// ApplicationReview is the admin decision on an application. The optional
// fields override what the applicant submitted.
type ApplicationReview struct {
	Status     ApplicationStatus
	ReviewerID uint
	ArtistName *string
	Bio        *string
	CountryID  *uint
}

// ArtistRepository defines the data access interface for artists and applications.
type ArtistRepository interface {
	GetArtist(ctx context.Context, id uint) (*Artist, error)
	FindArtists(ctx context.Context, ids []uint) ([]Artist, error)
	CreateApplication(ctx context.Context, app *ArtistApplication) error
	GetApplication(ctx context.Context, id uint) (*ArtistApplication, error)
	HasPendingApplication(ctx context.Context, userID uint) (bool, error)
	CountApplications(ctx context.Context, status ApplicationStatus) (int64, error)
	// ApplyReview stores the reviewed application and, on approval, the new
	// artist and the applicant's role change in one transaction.
	ApplyReview(ctx context.Context, app *ArtistApplication, artist *Artist) error
}

// ArtistService defines the business logic interface for artists.
type ArtistService interface {
	GetArtist(ctx context.Context, id uint) (*Artist, error)
	Apply(ctx context.Context, userID uint, artistName, bio string, countryID *uint) (*ArtistApplication, error)
	Review(ctx context.Context, applicationID uint, review ApplicationReview) (*ArtistApplication, error)
	ActiveApplications(ctx context.Context) (int64, error)
}
