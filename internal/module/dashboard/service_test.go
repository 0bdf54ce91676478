package dashboard

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/simp-lee/soundmint/internal/domain"
)

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

// fakeArtistService only answers ActiveApplications.
type fakeArtistService struct {
	domain.ArtistService
	active int64
	err    error
	calls  int
}

func (f *fakeArtistService) ActiveApplications(context.Context) (int64, error) {
	f.calls++
	return f.active, f.err
}

func TestDashboardService_ActiveApplicationsDelegates(t *testing.T) {
	artists := &fakeArtistService{active: 4}
	svc := NewDashboardService(nil, artists)

	n, err := svc.ActiveApplications(context.Background())
	if err != nil || n != 4 {
		t.Errorf("ActiveApplications = %d, %v; want 4", n, err)
	}
	if artists.calls != 1 {
		t.Errorf("calls = %d; want 1", artists.calls)
	}
}

func TestDashboardService_ActiveApplicationsError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDashboardService(nil, &fakeArtistService{err: boom})

	if _, err := svc.ActiveApplications(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
