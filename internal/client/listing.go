package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/simp-lee/soundmint/internal/domain"
)

// Fetcher loads one page for a filter and sorting.
type Fetcher[T any] func(ctx context.Context, f Filter, s Sorting) (*domain.Page[T], error)

// Listing is the state of one listing view. Every filter or sort change
// moves back to the first page. A failed refresh keeps the last page.
type Listing[T any] struct {
	fetch  Fetcher[T]
	logger *slog.Logger
	latest Latest

	mu      sync.Mutex
	filter  Filter
	sorting Sorting
	page    *domain.Page[T]
	// version counts state changes so a late response does not move the
	// page of a newer filter.
	version uint64
}

// NewListing creates a listing in its default state. A nil logger uses
// slog.Default.
func NewListing[T any](fetch Fetcher[T], logger *slog.Logger) *Listing[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listing[T]{fetch: fetch, logger: logger, filter: DefaultFilter()}
}

// DashboardListing binds a listing to one of the admin listings of c.
func DashboardListing[T any](c *Client, entity Entity, logger *slog.Logger) *Listing[T] {
	return NewListing(func(ctx context.Context, f Filter, s Sorting) (*domain.Page[T], error) {
		return ListDashboard[T](ctx, c, entity, f, s)
	}, logger)
}

func (l *Listing[T]) update(fn func(f *Filter)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.filter)
	l.filter.PageNumber = 1
	l.version++
}

func (l *Listing[T]) SetQuery(q string) {
	l.update(func(f *Filter) { f.Query = q })
}

func (l *Listing[T]) SetTimeFilter(tf domain.TimeFilter) {
	l.update(func(f *Filter) { f.TimeFilter = tf })
}

// SetPageSize selects the page length, rounded the way the server rounds it.
func (l *Listing[T]) SetPageSize(n int) {
	l.update(func(f *Filter) { f.PageSize = domain.SnapPageSize(n) })
}

func (l *Listing[T]) SetStatus(st domain.ApplicationStatus) {
	l.update(func(f *Filter) { f.Status = st })
}

func (l *Listing[T]) SetType(t domain.NftType) {
	l.update(func(f *Filter) { f.Type = t })
}

// SetFacet replaces the values of an entity-specific filter.
func (l *Listing[T]) SetFacet(key string, values ...string) {
	l.update(func(f *Filter) {
		facets := make(map[string][]string, len(f.Facets)+1)
		for k, v := range f.Facets {
			facets[k] = v
		}
		if len(values) == 0 {
			delete(facets, key)
		} else {
			facets[key] = values
		}
		f.Facets = facets
	})
}

// ToggleSort applies a click on column.
func (l *Listing[T]) ToggleSort(column string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sorting = l.sorting.Toggle(column)
	l.filter.PageNumber = 1
	l.version++
}

// GoTo selects a page. The server clamps out-of-range pages.
func (l *Listing[T]) GoTo(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.filter.PageNumber = page
	l.version++
}

// Filter returns a copy of the current filter.
func (l *Listing[T]) Filter() Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *Listing[T]) Sorting() Sorting {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sorting
}

// Page returns the last page received, or nil before the first refresh.
func (l *Listing[T]) Page() *domain.Page[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Pager returns the pagination controls for the last page received.
func (l *Listing[T]) Pager() Pager {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page == nil {
		return PageWindow(l.filter.PageNumber, 0, l.filter.PageSize)
	}
	return PageWindow(l.page.PageNumber, l.page.TotalCount, l.filter.PageSize)
}

// Refresh fetches the page for the current state. A refresh overtaken by a
// newer one is cancelled and its result dropped.
func (l *Listing[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	f, s, version := l.filter, l.sorting, l.version
	l.mu.Unlock()

	ctx, gen := l.latest.Begin(ctx)
	defer l.latest.End(gen)

	page, err := l.fetch(ctx, f, s)
	if !l.latest.Current(gen) {
		return nil
	}
	if err != nil {
		l.logger.WarnContext(ctx, "listing fetch failed",
			"page", f.PageNumber, "query", f.Query, "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
	l.filter.TotalPages = page.TotalPages
	if l.version == version {
		l.filter.PageNumber = page.PageNumber
	}
	return nil
}
