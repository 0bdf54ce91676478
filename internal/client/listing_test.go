package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/soundmint/internal/domain"
)

type fakeFetch struct {
	mu    sync.Mutex
	calls []Filter
	sorts []Sorting
	err   error
	page  *domain.Page[string]
}

func (f *fakeFetch) fetch(_ context.Context, filter Filter, s Sorting) (*domain.Page[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filter)
	f.sorts = append(f.sorts, s)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeFetch) last() Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestListing_Defaults(t *testing.T) {
	l := NewListing((&fakeFetch{}).fetch, nil)
	f := l.Filter()

	assert.Equal(t, 1, f.PageNumber)
	assert.Equal(t, domain.DefaultPageSize, f.PageSize)
	assert.Equal(t, domain.TimeAllTime, f.TimeFilter)
	assert.Empty(t, l.Sorting().Column)
	assert.Nil(t, l.Page())
}

func TestListing_ChangesResetPage(t *testing.T) {
	changes := map[string]func(l *Listing[string]){
		"query":       func(l *Listing[string]) { l.SetQuery("dusk") },
		"time filter": func(l *Listing[string]) { l.SetTimeFilter(domain.TimeMonth) },
		"sort column": func(l *Listing[string]) { l.ToggleSort("name") },
		"page size":   func(l *Listing[string]) { l.SetPageSize(50) },
		"status":      func(l *Listing[string]) { l.SetStatus(domain.ApplicationRejected) },
		"type":        func(l *Listing[string]) { l.SetType(domain.NftTrack) },
		"facet":       func(l *Listing[string]) { l.SetFacet("artistId", "3") },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			ff := &fakeFetch{page: &domain.Page[string]{Data: []string{"x"}, PageNumber: 1, TotalPages: 9, TotalCount: 90}}
			l := NewListing(ff.fetch, nil)
			l.GoTo(5)
			assert.Equal(t, 5, l.Filter().PageNumber)

			change(l)
			require.NoError(t, l.Refresh(context.Background()))
			assert.Equal(t, 1, ff.last().PageNumber)
		})
	}
}

func TestListing_PageSizeSnapsAndDrivesPager(t *testing.T) {
	ff := &fakeFetch{page: &domain.Page[string]{Data: []string{"a"}, PageNumber: 2, TotalPages: 3, TotalCount: 25}}
	l := NewListing(ff.fetch, nil)
	l.SetPageSize(7)
	assert.Equal(t, 10, l.Filter().PageSize)

	require.NoError(t, l.Refresh(context.Background()))
	p := l.Pager()
	assert.Equal(t, []int{1, 2, 3}, p.Pages)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(11), p.StartItem)
	assert.Equal(t, int64(20), p.EndItem)
}

func TestListing_RefreshAdoptsServerPage(t *testing.T) {
	ff := &fakeFetch{page: &domain.Page[string]{Data: []string{"a"}, PageNumber: 3, TotalPages: 3, TotalCount: 25}}
	l := NewListing(ff.fetch, nil)
	l.GoTo(7)

	require.NoError(t, l.Refresh(context.Background()))
	f := l.Filter()
	assert.Equal(t, 3, f.PageNumber, "server clamped the page")
	assert.Equal(t, 3, f.TotalPages)

	p := l.Pager()
	assert.Equal(t, []int{1, 2, 3}, p.Pages)
	assert.True(t, p.NextDisabled)
	assert.Equal(t, int64(21), p.StartItem)
	assert.Equal(t, int64(25), p.EndItem)
}

func TestListing_KeepsLastPageOnError(t *testing.T) {
	good := &domain.Page[string]{Data: []string{"a", "b"}, PageNumber: 1, TotalPages: 1, TotalCount: 2}
	ff := &fakeFetch{page: good}
	l := NewListing(ff.fetch, nil)
	require.NoError(t, l.Refresh(context.Background()))

	ff.err = errors.New("offline")
	l.SetQuery("zzz")
	require.Error(t, l.Refresh(context.Background()))

	assert.Same(t, good, l.Page())
	assert.Len(t, ff.calls, 2, "no retry")
}

func TestListing_ToggleSortPassesSorting(t *testing.T) {
	ff := &fakeFetch{page: &domain.Page[string]{PageNumber: 1, TotalPages: 1}}
	l := NewListing(ff.fetch, nil)
	l.ToggleSort("profile.country.name")
	l.ToggleSort("profile.country.name")

	require.NoError(t, l.Refresh(context.Background()))
	assert.Equal(t, Sorting{Column: "profile.country.name", Direction: domain.SortDesc}, ff.sorts[0])
}

func TestListing_StaleResponseDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	stale := &domain.Page[string]{Data: []string{"stale"}, PageNumber: 1, TotalPages: 1, TotalCount: 1}
	fresh := &domain.Page[string]{Data: []string{"fresh"}, PageNumber: 1, TotalPages: 1, TotalCount: 1}

	var calls int
	var mu sync.Mutex
	l := NewListing(func(ctx context.Context, _ Filter, _ Sorting) (*domain.Page[string], error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			assert.ErrorIs(t, ctx.Err(), context.Canceled, "superseded request is cancelled")
			return stale, nil
		}
		return fresh, nil
	}, nil)

	done := make(chan error, 1)
	go func() { done <- l.Refresh(context.Background()) }()
	<-started

	require.NoError(t, l.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Same(t, fresh, l.Page())
}
