package pkg

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/pagination"
	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
)

// reservedParams lists query parameter names consumed by the listing contract.
// Everything else is a facet.
var reservedParams = map[string]bool{
	"query":         true,
	"timeFilter":    true,
	"pageNumber":    true,
	"pageSize":      true,
	"sortColumn":    true,
	"sortDirection": true,
	"totalPages":    true,
}

// ParseListingQuery extracts the listing contract from query params. Invalid
// values never fail the request: they fall back to defaults or are clamped.
func ParseListingQuery(c *gin.Context) domain.ListingQuery {
	values := c.Request.URL.Query()

	page, err := strconv.Atoi(values.Get("pageNumber"))
	if err != nil || page < 1 {
		page = 1
	}

	timeFilter, ok := domain.ParseTimeFilter(values.Get("timeFilter"))
	if !ok {
		timeFilter = domain.TimeAllTime
	}

	facets := make(map[string][]string)
	for key, vals := range values {
		if reservedParams[key] {
			continue
		}
		kept := make([]string, 0, len(vals))
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			facets[key] = kept
		}
	}

	return domain.ListingQuery{
		Query:         strings.TrimSpace(values.Get("query")),
		TimeFilter:    timeFilter,
		PageNumber:    page,
		PageSize:      ClampPageSize(values.Get("pageSize")),
		SortColumn:    strings.TrimSpace(values.Get("sortColumn")),
		SortDirection: domain.ParseSortDirection(values.Get("sortDirection")),
		Facets:        facets,
	}
}

// ClampPageSize maps a requested page size onto domain.PageSizes: missing or
// unparsable values get the default, anything else is rounded up to the next
// allowed size and capped at the largest.
func ClampPageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return domain.DefaultPageSize
	}
	return domain.SnapPageSize(n)
}

// SortColumn maps a client dot-path onto a SQL expression and the joins it needs.
type SortColumn struct {
	Expr  string
	Joins []string
}

// ListingSpec describes how one entity is searched, bucketed and sorted.
type ListingSpec struct {
	// Table is the primary table; rows are selected as Table.*.
	Table string
	// Search lists the columns matched by the free-text query.
	Search []SortColumn
	// TimeColumn is compared against the time bucket lower bound.
	TimeColumn string
	// Sort maps allowed sortColumn dot-paths to columns. Unknown paths are ignored.
	Sort map[string]SortColumn
	// DefaultOrder applies when no known sort column is requested.
	DefaultOrder string
	Preloads     []string
}

// Scope is a gorm scope, used for entity-specific facets.
type Scope = func(db *gorm.DB) *gorm.DB

// FetchPage runs the listing contract against db: filters and sort apply
// first, then the paginator clamps the requested page into range and
// fetches it.
func FetchPage[T any](ctx context.Context, db *gorm.DB, q domain.ListingQuery, spec ListingSpec, now time.Time, facets ...Scope) (*domain.Page[T], error) {
	if q.PageSize < 1 {
		q.PageSize = domain.DefaultPageSize
	}

	var joins []string
	addJoins := func(js []string) {
		for _, j := range js {
			if !slices.Contains(joins, j) {
				joins = append(joins, j)
			}
		}
	}

	search := strings.ToLower(q.Query)
	if search != "" {
		for _, col := range spec.Search {
			addJoins(col.Joins)
		}
	}
	sortCol, sorted := spec.Sort[q.SortColumn]
	if q.SortColumn != "" && sorted {
		addJoins(sortCol.Joins)
	}

	base := db.WithContext(ctx).Model(new(T))
	for _, j := range joins {
		base = base.Joins(j)
	}
	if search != "" && len(spec.Search) > 0 {
		pattern := "%" + escapeLike(search) + "%"
		conds := make([]string, 0, len(spec.Search))
		args := make([]any, 0, len(spec.Search))
		for _, col := range spec.Search {
			conds = append(conds, "LOWER("+col.Expr+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		base = base.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if since, ok := q.TimeFilter.Since(now); ok && spec.TimeColumn != "" {
		base = base.Where(spec.TimeColumn+" >= ?", since)
	}
	base = base.Scopes(facets...)

	find := base.Session(&gorm.Session{}).Select(spec.Table + ".*")
	if q.SortColumn != "" && sorted {
		dir := "ASC"
		if q.SortDirection == domain.SortDesc {
			dir = "DESC"
		}
		find = find.Order(sortCol.Expr + " " + dir).Order(spec.Table + ".id ASC")
	} else if spec.DefaultOrder != "" {
		find = find.Order(spec.DefaultOrder)
	}
	for _, p := range spec.Preloads {
		find = find.Preload(p)
	}

	paginator := pagination.NewPaginator(
		pagination.WithItemsPerPage[T](q.PageSize),
		pagination.WithPagesInRange[T](domain.PageWindowSize),
		pagination.WithItemTotalCallback[T](func(context.Context) (int64, error) {
			var total int64
			if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
				return 0, fmt.Errorf("count %s: %w", spec.Table, err)
			}
			return total, nil
		}),
		pagination.WithSliceCallback(func(_ context.Context, offset, limit int) ([]T, error) {
			var items []T
			if err := find.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
				return nil, fmt.Errorf("list %s: %w", spec.Table, err)
			}
			return items, nil
		}),
	)
	result, err := paginator.Paginate(ctx, max(q.PageNumber, 1))
	if err != nil {
		return nil, err
	}
	return domain.PageOf(result), nil
}

// escapeLike quotes the LIKE wildcards in s so user input matches literally.
// Patterns built from it need ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WhereIn returns a facet scope matching column against every value of the
// named facet. Values not accepted by parse are dropped; a facet with no
// accepted values is a no-op.
func WhereIn(q domain.ListingQuery, facet, column string, parse func(string) (any, bool)) Scope {
	return func(db *gorm.DB) *gorm.DB {
		vals := make([]any, 0, len(q.Facets[facet]))
		for _, raw := range q.Facets[facet] {
			if v, ok := parse(raw); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			return db
		}
		return db.Where(column+" IN ?", vals)
	}
}

// ParseUint is a WhereIn parser for numeric id facets.
func ParseUint(raw string) (any, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, false
	}
	return uint(n), true
}
