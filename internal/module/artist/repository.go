package artist

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/pkg"
)

// artistRepository implements domain.ArtistRepository using GORM.
type artistRepository struct {
	db *gorm.DB
}

// NewArtistRepository creates a new ArtistRepository backed by the given GORM database.
func NewArtistRepository(db *gorm.DB) domain.ArtistRepository {
	return &artistRepository{db: db}
}

// GetArtist retrieves an artist with its country.
func (r *artistRepository) GetArtist(ctx context.Context, id uint) (*domain.Artist, error) {
	var a domain.Artist
	if err := r.db.WithContext(ctx).Preload("Country").First(&a, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "artist")
	}
	return &a, nil
}

// FindArtists returns the artists among ids that exist, in id order.
func (r *artistRepository) FindArtists(ctx context.Context, ids []uint) ([]domain.Artist, error) {
	var artists []domain.Artist
	if len(ids) == 0 {
		return artists, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&artists).Error; err != nil {
		return nil, pkg.MapDBError(err, "artist")
	}
	return artists, nil
}

func (r *artistRepository) CreateApplication(ctx context.Context, app *domain.ArtistApplication) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Omit("User", "Country").Create(app).Error, "application")
}

// GetApplication retrieves an application with its applicant and country.
func (r *artistRepository) GetApplication(ctx context.Context, id uint) (*domain.ArtistApplication, error) {
	var app domain.ArtistApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Country").
		First(&app, id).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "application")
	}
	return &app, nil
}

func (r *artistRepository) HasPendingApplication(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ArtistApplication{}).
		Where("user_id = ? AND status = ?", userID, domain.ApplicationPending).
		Count(&n).Error
	if err != nil {
		return false, pkg.MapDBError(err, "application")
	}
	return n > 0, nil
}

// CountApplications counts applications in status; ApplicationAll counts every one.
func (r *artistRepository) CountApplications(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ArtistApplication{})
	if status != domain.ApplicationAll {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, pkg.MapDBError(err, "application")
	}
	return n, nil
}

// ApplyReview stores the reviewed application. When artist is non-nil it is
// created first and linked to the application, and a plain user applicant
// becomes an artist. The status guard in the UPDATE makes concurrent reviews of the
// same application fail instead of both applying.
func (r *artistRepository) ApplyReview(ctx context.Context, app *domain.ArtistApplication, artist *domain.Artist) error {
	return pkg.InTx(ctx, r.db, func(tx *gorm.DB) error {
		if artist != nil {
			if err := tx.Omit("Country").Create(artist).Error; err != nil {
				return pkg.MapDBError(err, "artist")
			}
			app.ArtistID = &artist.ID

			err := tx.Model(&domain.User{}).
				Where("id = ? AND role = ?", app.UserID, domain.RoleUser).
				Update("role", domain.RoleArtist).Error
			if err != nil {
				return pkg.MapDBError(err, "user")
			}
		}

		result := tx.Model(&domain.ArtistApplication{}).
			Where("id = ? AND status = ?", app.ID, domain.ApplicationPending).
			Updates(map[string]any{
				"status":      app.Status,
				"artist_name": app.ArtistName,
				"bio":         app.Bio,
				"country_id":  app.CountryID,
				"reviewer_id": app.ReviewerID,
				"reviewed_at": app.ReviewedAt,
				"artist_id":   app.ArtistID,
			})
		if result.Error != nil {
			return pkg.MapDBError(result.Error, "application")
		}
		if result.RowsAffected == 0 {
			return errAlreadyReviewed
		}
		return nil
	})
}
