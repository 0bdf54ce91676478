package client

import (
	"context"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/soundmint/internal/domain"
)

// WindowSize is the number of page links shown at once.
const WindowSize = domain.PageWindowSize

// Pager describes the pagination controls for one page of results.
type Pager struct {
	Pages            []int
	TotalPages       int
	PrevDisabled     bool
	NextDisabled     bool
	StartItem        int64
	EndItem          int64
	LeadingEllipsis  bool
	TrailingEllipsis bool
}

// PageWindow computes the controls for page of a listing with totalCount
// items split into pages of pageSize. The page is clamped into range and
// the window is centred on it, sliding to stay inside the page range.
func PageWindow(page int, totalCount int64, pageSize int) Pager {
	pageSize = domain.SnapPageSize(pageSize)
	p, err := pagination.NewPaginator(
		pagination.WithItemsPerPage[struct{}](pageSize),
		pagination.WithPagesInRange[struct{}](WindowSize),
		pagination.WithKnownTotal[struct{}](max(totalCount, 0)),
		pagination.WithSliceCallback(func(context.Context, int, int) ([]struct{}, error) { return nil, nil }),
	).Paginate(context.Background(), max(page, 1))
	if err != nil {
		// Unreachable with the options above.
		return Pager{Pages: []int{1}, TotalPages: 1, PrevDisabled: true, NextDisabled: true}
	}

	pager := Pager{
		Pages:            p.Pages,
		TotalPages:       p.TotalPages,
		PrevDisabled:     !p.HasPreviousPage() || p.TotalItems == 0,
		NextDisabled:     !p.HasNextPage() || p.TotalItems == 0,
		LeadingEllipsis:  p.FirstPageInRange > p.FirstPage,
		TrailingEllipsis: p.LastPageInRange < p.LastPage,
	}
	if p.TotalItems > 0 {
		pager.StartItem = int64(p.CurrentPage-1)*int64(pageSize) + 1
		pager.EndItem = min(int64(p.CurrentPage)*int64(pageSize), p.TotalItems)
	}
	return pager
}
