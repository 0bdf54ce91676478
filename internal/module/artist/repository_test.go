package artist

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/testutil"
)

func createApplication(t *testing.T, db *gorm.DB, userID uint, status domain.ApplicationStatus) *domain.ArtistApplication {
	t.Helper()
	app := &domain.ArtistApplication{UserID: userID, ArtistName: "Band", Status: status}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}
	return app
}

func TestApplyReview_ApprovalCreatesArtist(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	applicant := testutil.CreateUser(t, db, "applicant", domain.RoleUser)
	admin := testutil.CreateUser(t, db, "admin", domain.RoleAdmin)
	app := createApplication(t, db, applicant.ID, domain.ApplicationPending)

	now := time.Now()
	app.Status = domain.ApplicationApproved
	app.ReviewerID = &admin.ID
	app.ReviewedAt = &now
	artist := &domain.Artist{UserID: &applicant.ID, Name: "Band", Verified: true}

	if err := repo.ApplyReview(ctx, app, artist); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}

	got, err := repo.GetApplication(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.Status != domain.ApplicationApproved || got.ArtistID == nil || *got.ArtistID != artist.ID {
		t.Errorf("application = %+v; want approved and linked to artist %d", got, artist.ID)
	}
	if got.User == nil || got.User.Role != domain.RoleArtist {
		t.Errorf("applicant role = %v; want artist", got.User)
	}

	stored, err := repo.GetArtist(ctx, artist.ID)
	if err != nil {
		t.Fatalf("GetArtist: %v", err)
	}
	if stored.Name != "Band" || !stored.Verified {
		t.Errorf("artist = %+v", stored)
	}
}

func TestApplyReview_SecondReviewFails(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	applicant := testutil.CreateUser(t, db, "applicant", domain.RoleUser)
	app := createApplication(t, db, applicant.ID, domain.ApplicationRejected)

	app.Status = domain.ApplicationApproved
	err := repo.ApplyReview(ctx, app, &domain.Artist{UserID: &applicant.ID, Name: "Band"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var artists int64
	db.Model(&domain.Artist{}).Count(&artists)
	if artists != 0 {
		t.Errorf("artists = %d; want 0 after rollback", artists)
	}
}

func TestApplyReview_AdminApplicantKeepsRole(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewArtistRepository(db)

	admin := testutil.CreateUser(t, db, "admin", domain.RoleAdmin)
	app := createApplication(t, db, admin.ID, domain.ApplicationPending)
	app.Status = domain.ApplicationApproved

	if err := repo.ApplyReview(context.Background(), app, &domain.Artist{UserID: &admin.ID, Name: "Band"}); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}

	var u domain.User
	db.First(&u, admin.ID)
	if u.Role != domain.RoleAdmin {
		t.Errorf("role = %q; want admin", u.Role)
	}
}

func TestCountApplications(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewArtistRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u", domain.RoleUser)
	createApplication(t, db, u.ID, domain.ApplicationPending)
	createApplication(t, db, u.ID, domain.ApplicationPending)
	createApplication(t, db, u.ID, domain.ApplicationRejected)

	tests := []struct {
		status domain.ApplicationStatus
		want   int64
	}{
		{domain.ApplicationPending, 2},
		{domain.ApplicationRejected, 1},
		{domain.ApplicationApproved, 0},
		{domain.ApplicationAll, 3},
	}
	for _, tt := range tests {
		got, err := repo.CountApplications(ctx, tt.status)
		if err != nil {
			t.Fatalf("CountApplications(%s): %v", tt.status, err)
		}
		if got != tt.want {
			t.Errorf("CountApplications(%s) = %d; want %d", tt.status, got, tt.want)
		}
	}

	pending, _ := repo.HasPendingApplication(ctx, u.ID)
	if !pending {
		t.Error("HasPendingApplication = false; want true")
	}
}

func TestFindArtists(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewArtistRepository(db)

	a := &domain.Artist{Name: "A"}
	b := &domain.Artist{Name: "B"}
	db.Create(a)
	db.Create(b)

	got, err := repo.FindArtists(context.Background(), []uint{b.ID, a.ID, 999})
	if err != nil {
		t.Fatalf("FindArtists: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID {
		t.Errorf("FindArtists = %+v; want A, B", got)
	}

	if _, err := repo.GetArtist(context.Background(), 999); !domain.IsNotFound(err) {
		t.Errorf("GetArtist(999): expected not found, got %v", err)
	}
}
