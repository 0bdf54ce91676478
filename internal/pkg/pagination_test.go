package pkg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/soundmint/internal/domain"
)

type testLabel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type testRecord struct {
	ID        uint `gorm:"primaryKey"`
	Title     string
	Kind      string
	LabelID   *uint
	Label     *testLabel
	CreatedAt time.Time
}

var testSpec = ListingSpec{
	Table:      "test_records",
	Search:     []SortColumn{{Expr: "test_records.title"}, {Expr: "test_labels.name", Joins: []string{"LEFT JOIN test_labels ON test_labels.id = test_records.label_id"}}},
	TimeColumn: "test_records.created_at",
	Sort: map[string]SortColumn{
		"title":      {Expr: "test_records.title"},
		"label.name": {Expr: "test_labels.name", Joins: []string{"LEFT JOIN test_labels ON test_labels.id = test_records.label_id"}},
	},
	DefaultOrder: "test_records.id ASC",
	Preloads:     []string{"Label"},
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func setupListingDB(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&testLabel{}, &testRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	labels := []testLabel{{Name: "Zeta"}, {Name: "Alpha"}}
	if err := db.Create(&labels).Error; err != nil {
		t.Fatalf("seed labels: %v", err)
	}
	for i := 1; i <= n; i++ {
		labelID := labels[i%2].ID
		rec := testRecord{
			Title:     fmt.Sprintf("Record %02d", i),
			Kind:      []string{"Album", "Track"}[i%2],
			LabelID:   &labelID,
			CreatedAt: testNow.AddDate(0, 0, -i*10),
		}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}
	return db
}

func TestFetchPage_Basic(t *testing.T) {
	db := setupListingDB(t, 23)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{PageNumber: 2, PageSize: 10}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 23 {
		t.Errorf("TotalCount = %d; want 23", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d; want 3", page.TotalPages)
	}
	if page.PageNumber != 2 {
		t.Errorf("PageNumber = %d; want 2", page.PageNumber)
	}
	if len(page.Data) != 10 || page.Data[0].Title != "Record 11" {
		t.Errorf("unexpected page data: %d rows, first %+v", len(page.Data), page.Data[0])
	}
	if page.Data[0].Label == nil {
		t.Error("expected Label to be preloaded")
	}
}

func TestFetchPage_OutOfRangeClampsToLastPage(t *testing.T) {
	db := setupListingDB(t, 23)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{PageNumber: 99, PageSize: 10}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.PageNumber != 3 {
		t.Errorf("PageNumber = %d; want 3", page.PageNumber)
	}
	if len(page.Data) != 3 {
		t.Errorf("len(Data) = %d; want 3", len(page.Data))
	}
}

func TestFetchPage_EmptyHasOnePage(t *testing.T) {
	db := setupListingDB(t, 0)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{PageNumber: 4, PageSize: 5}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 0 || page.TotalPages != 1 || page.PageNumber != 1 {
		t.Errorf("got count=%d pages=%d page=%d; want 0, 1, 1", page.TotalCount, page.TotalPages, page.PageNumber)
	}
	if page.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}
}

func TestFetchPage_SearchSpansJoinedColumns(t *testing.T) {
	db := setupListingDB(t, 6)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{Query: "record 0", PageNumber: 1, PageSize: 50}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 6 {
		t.Errorf("title search TotalCount = %d; want 6", page.TotalCount)
	}

	page, err = FetchPage[testRecord](context.Background(), db, domain.ListingQuery{Query: "ALPHA", PageNumber: 1, PageSize: 50}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 3 {
		t.Errorf("label search TotalCount = %d; want 3", page.TotalCount)
	}
}

func TestFetchPage_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := setupListingDB(t, 0)
	for _, title := range []string{"100% Pure", "a_b", "axb", `back\slash`, "plain"} {
		if err := db.Create(&testRecord{Title: title, CreatedAt: testNow}).Error; err != nil {
			t.Fatalf("seed %q: %v", title, err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"%", []string{"100% Pure"}},
		{"a_b", []string{"a_b"}},
		{"_", []string{"a_b"}},
		{`\`, []string{`back\slash`}},
		{"x", []string{"axb"}},
	}
	for _, tt := range tests {
		page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{Query: tt.query, PageNumber: 1, PageSize: 50}, testSpec, testNow)
		if err != nil {
			t.Fatalf("query %q: %v", tt.query, err)
		}
		var got []string
		for _, r := range page.Data {
			got = append(got, r.Title)
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("query %q matched %q; want %q", tt.query, got, tt.want)
		}
	}
}

func TestFetchPage_NonPositivePageIsFirst(t *testing.T) {
	db := setupListingDB(t, 12)

	for _, n := range []int{0, -3} {
		page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{PageNumber: n, PageSize: 5}, testSpec, testNow)
		if err != nil {
			t.Fatalf("page %d: %v", n, err)
		}
		if page.PageNumber != 1 || page.TotalPages != 3 || page.Data[0].Title != "Record 01" {
			t.Errorf("page %d: got page=%d pages=%d first=%q", n, page.PageNumber, page.TotalPages, page.Data[0].Title)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\now`); got != `50\%\_off\\now` {
		t.Errorf("escapeLike = %q", got)
	}
}

func TestFetchPage_TimeFilter(t *testing.T) {
	db := setupListingDB(t, 40)

	tests := []struct {
		filter domain.TimeFilter
		want   int64
	}{
		{domain.TimeAllTime, 40},
		{domain.TimeWeek, 0},
		{domain.TimeMonth, 3},
		{domain.TimeYear, 36},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{TimeFilter: tt.filter, PageNumber: 1, PageSize: 5}, testSpec, testNow)
			if err != nil {
				t.Fatalf("FetchPage: %v", err)
			}
			if page.TotalCount != tt.want {
				t.Errorf("TotalCount = %d; want %d", page.TotalCount, tt.want)
			}
		})
	}
}

func TestFetchPage_SortByDotPath(t *testing.T) {
	db := setupListingDB(t, 4)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{
		PageNumber: 1, PageSize: 10, SortColumn: "label.name", SortDirection: domain.SortAsc,
	}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	// Alpha labels go to odd records, ties broken by id.
	want := []string{"Record 01", "Record 03", "Record 02", "Record 04"}
	for i, w := range want {
		if page.Data[i].Title != w {
			t.Fatalf("Data[%d] = %q; want %q (all: %+v)", i, page.Data[i].Title, w, page.Data)
		}
	}

	page, err = FetchPage[testRecord](context.Background(), db, domain.ListingQuery{
		PageNumber: 1, PageSize: 10, SortColumn: "title", SortDirection: domain.SortDesc,
	}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Data[0].Title != "Record 04" {
		t.Errorf("first = %q; want Record 04", page.Data[0].Title)
	}
}

func TestFetchPage_SearchAndSortShareJoin(t *testing.T) {
	db := setupListingDB(t, 4)

	_, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{
		Query: "a", PageNumber: 1, PageSize: 10, SortColumn: "label.name",
	}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage with duplicated join: %v", err)
	}
}

func TestFetchPage_UnknownSortIgnored(t *testing.T) {
	db := setupListingDB(t, 3)

	page, err := FetchPage[testRecord](context.Background(), db, domain.ListingQuery{
		PageNumber: 1, PageSize: 10, SortColumn: "title; DROP TABLE test_records", SortDirection: domain.SortDesc,
	}, testSpec, testNow)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Data[0].Title != "Record 01" {
		t.Errorf("first = %q; want default order", page.Data[0].Title)
	}
}

func TestFetchPage_Facet(t *testing.T) {
	db := setupListingDB(t, 10)
	q := domain.ListingQuery{PageNumber: 1, PageSize: 50, Facets: map[string][]string{"kind": {"Album", "Bogus"}}}

	accept := func(raw string) (any, bool) { return raw, raw == "Album" || raw == "Track" }
	page, err := FetchPage[testRecord](context.Background(), db, q, testSpec, testNow, WhereIn(q, "kind", "test_records.kind", accept))
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 5 {
		t.Errorf("TotalCount = %d; want 5", page.TotalCount)
	}

	none := domain.ListingQuery{PageNumber: 1, PageSize: 50, Facets: map[string][]string{"kind": {"Bogus"}}}
	page, err = FetchPage[testRecord](context.Background(), db, none, testSpec, testNow, WhereIn(none, "kind", "test_records.kind", accept))
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.TotalCount != 10 {
		t.Errorf("rejected facet should be ignored, TotalCount = %d; want 10", page.TotalCount)
	}
}

func TestParseListingQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/?query=+blue+&timeFilter=week&pageNumber=3&pageSize=20&sortColumn=profile.country.name&sortDirection=DESC&status=Pending&artistIds=1&artistIds=2&empty=&totalPages=9", nil)

	q := ParseListingQuery(c)

	if q.Query != "blue" {
		t.Errorf("Query = %q; want blue", q.Query)
	}
	if q.TimeFilter != domain.TimeWeek {
		t.Errorf("TimeFilter = %q; want Week", q.TimeFilter)
	}
	if q.PageNumber != 3 || q.PageSize != 20 {
		t.Errorf("page = %d/%d; want 3/20", q.PageNumber, q.PageSize)
	}
	if q.SortColumn != "profile.country.name" || q.SortDirection != domain.SortDesc {
		t.Errorf("sort = %q %q", q.SortColumn, q.SortDirection)
	}
	if q.Facet("status") != "Pending" {
		t.Errorf("status facet = %q", q.Facet("status"))
	}
	if len(q.Facets["artistIds"]) != 2 {
		t.Errorf("artistIds facet = %v; want 2 values", q.Facets["artistIds"])
	}
	if _, ok := q.Facets["empty"]; ok {
		t.Error("empty facet should be dropped")
	}
	if _, ok := q.Facets["totalPages"]; ok {
		t.Error("totalPages must not become a facet")
	}
}

func TestParseListingQuery_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?pageNumber=-2&timeFilter=forever", nil)

	q := ParseListingQuery(c)
	if q.PageNumber != 1 {
		t.Errorf("PageNumber = %d; want 1", q.PageNumber)
	}
	if q.PageSize != domain.DefaultPageSize {
		t.Errorf("PageSize = %d; want %d", q.PageSize, domain.DefaultPageSize)
	}
	if q.TimeFilter != domain.TimeAllTime {
		t.Errorf("TimeFilter = %q; want AllTime", q.TimeFilter)
	}
	if q.SortColumn != "" {
		t.Errorf("SortColumn = %q; want empty", q.SortColumn)
	}
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"abc", 10},
		{"0", 10},
		{"5", 5},
		{"7", 10},
		{"20", 20},
		{"50", 50},
		{"500", 50},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.raw); got != tt.want {
			t.Errorf("ClampPageSize(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}
