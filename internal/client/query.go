// Package client is the Go SDK for the soundmint API. It carries the listing
// query contract and the state machines a listing view needs: sort toggling,
// the page window, debounced search, the mint awaiter and a latest-request
// guard.
package client

import (
	"net/url"
	"strconv"

	"github.com/simp-lee/soundmint/internal/domain"
)

// Filter is the client-side state of one listing view.
type Filter struct {
	Query      string
	TimeFilter domain.TimeFilter
	PageNumber int
	PageSize   int
	// TotalPages mirrors the last response and is never sent upstream.
	TotalPages int
	Status     domain.ApplicationStatus
	Type       domain.NftType
	// Facets holds entity-specific filters such as artistId. Every non-empty
	// value is sent as its own key/value pair. Keys naming a field above are
	// ignored.
	Facets map[string][]string
}

// DefaultFilter returns the state a new listing view starts with.
func DefaultFilter() Filter {
	return Filter{
		TimeFilter: domain.TimeAllTime,
		PageNumber: 1,
		PageSize:   domain.DefaultPageSize,
	}
}

// Sorting is the single active sort column and its direction.
type Sorting struct {
	Column    string
	Direction domain.SortDirection
}

// Toggle returns the sorting after a click on column. A new column starts
// ascending, a second click switches to descending and further clicks keep
// it descending.
func (s Sorting) Toggle(column string) Sorting {
	if s.Column != column {
		return Sorting{Column: column, Direction: domain.SortAsc}
	}
	return Sorting{Column: column, Direction: domain.SortDesc}
}

// EncodeQuery serializes f and s into a query string. Empty strings, zero
// numbers and nil slices are omitted; the sort pair is sent only when a
// column is active.
func EncodeQuery(f Filter, s Sorting) string {
	return queryValues(f, s).Encode()
}

// baseParams are the query keys owned by Filter and Sorting fields.
var baseParams = map[string]bool{
	"query":         true,
	"timeFilter":    true,
	"pageNumber":    true,
	"pageSize":      true,
	"totalPages":    true,
	"status":        true,
	"type":          true,
	"sortColumn":    true,
	"sortDirection": true,
}

func queryValues(f Filter, s Sorting) url.Values {
	v := url.Values{}
	setString(v, "query", f.Query)
	setString(v, "timeFilter", string(f.TimeFilter))
	setInt(v, "pageNumber", f.PageNumber)
	setInt(v, "pageSize", f.PageSize)
	setString(v, "status", string(f.Status))
	setString(v, "type", string(f.Type))
	for key, vals := range f.Facets {
		if baseParams[key] {
			continue
		}
		for _, val := range vals {
			if val != "" {
				v.Add(key, val)
			}
		}
	}
	if s.Column != "" {
		v.Set("sortColumn", s.Column)
		dir := s.Direction
		if dir == "" {
			dir = domain.SortAsc
		}
		v.Set("sortDirection", string(dir))
	}
	return v
}

func setString(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
