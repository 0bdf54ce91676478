package artist

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const pendingCountKey = "pending"

var (
	errAlreadyReviewed = domain.NewAppError(domain.CodeValidation, "application has already been reviewed", nil)
	errPendingExists   = domain.NewAppError(domain.CodeAlreadyExists, "an application is already pending", nil)
)

// artistService implements domain.ArtistService.
type artistService struct {
	repo   domain.ArtistRepository
	counts *pkg.Cache[string, int64]
	now    func() time.Time
}

// NewArtistService creates a new ArtistService. counts caches the pending
// application count and may be nil.
func NewArtistService(repo domain.ArtistRepository, counts *pkg.Cache[string, int64]) domain.ArtistService {
	return &artistService{repo: repo, counts: counts, now: time.Now}
}

func (s *artistService) GetArtist(ctx context.Context, id uint) (*domain.Artist, error) {
	return s.repo.GetArtist(ctx, id)
}

// Apply files a pending application. A user may have one pending
// application at a time.
func (s *artistService) Apply(ctx context.Context, userID uint, artistName, bio string, countryID *uint) (*domain.ArtistApplication, error) {
	artistName = strings.TrimSpace(artistName)
	bio = strings.TrimSpace(bio)
	if err := validateArtistFields(artistName, bio, countryID); err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPendingApplication(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, errPendingExists
	}

	app := &domain.ArtistApplication{
		UserID:     userID,
		ArtistName: artistName,
		Bio:        bio,
		CountryID:  countryID,
		Status:     domain.ApplicationPending,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	s.counts.Remove(pendingCountKey)
	return app, nil
}

// Review approves or rejects a pending application. Approval creates the
// artist from the application, with any overrides from the review applied.
func (s *artistService) Review(ctx context.Context, applicationID uint, review domain.ApplicationReview) (*domain.ArtistApplication, error) {
	if review.Status != domain.ApplicationApproved && review.Status != domain.ApplicationRejected {
		return nil, domain.NewAppError(domain.CodeValidation, "status must be Approved or Rejected", nil)
	}

	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, errAlreadyReviewed
	}

	if review.ArtistName != nil {
		app.ArtistName = strings.TrimSpace(*review.ArtistName)
	}
	if review.Bio != nil {
		app.Bio = strings.TrimSpace(*review.Bio)
	}
	if review.CountryID != nil {
		app.CountryID = review.CountryID
		app.Country = nil
	}
	if err := validateArtistFields(app.ArtistName, app.Bio, app.CountryID); err != nil {
		return nil, err
	}

	now := s.now()
	app.Status = review.Status
	app.ReviewerID = &review.ReviewerID
	app.ReviewedAt = &now

	var artist *domain.Artist
	if review.Status == domain.ApplicationApproved {
		userID := app.UserID
		artist = &domain.Artist{
			UserID:    &userID,
			Name:      app.ArtistName,
			Bio:       app.Bio,
			CountryID: app.CountryID,
			Verified:  true,
		}
	}

	if err := s.repo.ApplyReview(ctx, app, artist); err != nil {
		return nil, err
	}
	s.counts.Remove(pendingCountKey)

	slog.InfoContext(ctx, "artist application reviewed",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.String("status", string(app.Status)),
		slog.Uint64("reviewer_id", uint64(review.ReviewerID)),
	)
	return app, nil
}

// ActiveApplications returns the number of pending applications.
func (s *artistService) ActiveApplications(ctx context.Context) (int64, error) {
	if n, ok := s.counts.Get(pendingCountKey); ok {
		return n, nil
	}
	n, err := s.repo.CountApplications(ctx, domain.ApplicationPending)
	if err != nil {
		return 0, err
	}
	s.counts.Add(pendingCountKey, n)
	return n, nil
}

func validateArtistFields(name, bio string, countryID *uint) error {
	nameLen := utf8.RuneCountInString(name)
	if nameLen == 0 {
		return domain.NewAppError(domain.CodeValidation, "artistName is required", nil)
	}
	if nameLen > 100 {
		return domain.NewAppError(domain.CodeValidation, "artistName must not exceed 100 characters", nil)
	}
	if utf8.RuneCountInString(bio) > 2000 {
		return domain.NewAppError(domain.CodeValidation, "bio must not exceed 2000 characters", nil)
	}
	if countryID != nil && *countryID == 0 {
		return domain.NewAppError(domain.CodeValidation, "countryId must be positive", nil)
	}
	return nil
}
