package domain

import (
	"strings"
	"time"

	"github.com/simp-lee/pagination"
)

// TimeFilter buckets a listing by recency relative to the server clock.
type TimeFilter string

const (
	TimeToday   TimeFilter = "Today"
	TimeWeek    TimeFilter = "Week"
	TimeMonth   TimeFilter = "Month"
	TimeYear    TimeFilter = "Year"
	TimeAllTime TimeFilter = "AllTime"
)

// ParseTimeFilter matches s case-insensitively. Empty input is AllTime.
func ParseTimeFilter(s string) (TimeFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alltime", "all":
		return TimeAllTime, true
	case "today":
		return TimeToday, true
	case "week":
		return TimeWeek, true
	case "month":
		return TimeMonth, true
	case "year":
		return TimeYear, true
	default:
		return "", false
	}
}

// Since returns the lower bound of the bucket. ok is false for AllTime.
func (f TimeFilter) Since(now time.Time) (since time.Time, ok bool) {
	switch f {
	case TimeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case TimeWeek:
		return now.AddDate(0, 0, -7), true
	case TimeMonth:
		return now.AddDate(0, -1, 0), true
	case TimeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// SortDirection is the order applied to the active sort column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection matches s case-insensitively. Anything unknown is ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// Listing page sizes.
const (
	DefaultPageSize = 10
	// PageWindowSize is the number of page links around the current page.
	PageWindowSize = 5
)

// PageSizes lists the page lengths a client may select.
var PageSizes = []int{5, 10, 20, 50}

// ListingQuery is the parsed form of a listing request: free text, recency
// bucket, page window, one sort column and any entity-specific facets.
type ListingQuery struct {
	Query         string
	TimeFilter    TimeFilter
	PageNumber    int
	PageSize      int
	SortColumn    string
	SortDirection SortDirection
	Facets        map[string][]string
}

// Facet returns the first value of the named facet, or "".
func (q ListingQuery) Facet(name string) string {
	if v := q.Facets[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Page is the paginated envelope shared by every listing.
type Page[T any] struct {
	Data       []T   `json:"data"`
	PageNumber int   `json:"pageNumber"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

// PageOf maps a computed pagination onto the listing envelope.
func PageOf[T any](p *pagination.Pagination[T]) *Page[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:       items,
		PageNumber: p.CurrentPage,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalItems,
	}
}

// SnapPageSize rounds n up to the next entry of PageSizes, capped at the
// largest. Non-positive n gets DefaultPageSize.
func SnapPageSize(n int) int {
	if n < 1 {
		return DefaultPageSize
	}
	for _, size := range PageSizes {
		if n <= size {
			return size
		}
	}
	return PageSizes[len(PageSizes)-1]
}
