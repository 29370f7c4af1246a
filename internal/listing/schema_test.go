package listing

import (
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID      int
	Title   string
	Author  string
	Status  string
	Kind    string
	Created time.Time
}

var wib = time.FixedZone("WIB", 7*60*60)

func recordSchema() *Schema[record] {
	return &Schema[record]{
		Page:     "records",
		Defaults: Query{PageSize: 5, SortBy: "created", SortDir: SortAsc},
		ID:       func(r record) string { return strconv.Itoa(r.ID) },
		Search: []func(record) string{
			func(r record) string { return r.Title },
			func(r record) string { return r.Author },
		},
		Status:  func(r record) string { return r.Status },
		Filters: map[string]func(record) string{"kind": func(r record) string { return r.Kind }},
		Date: func(r record) (time.Time, bool) {
			return r.Created, !r.Created.IsZero()
		},
		Sorts: map[string]Comparator[record]{
			"created": ByTime(func(r record) time.Time { return r.Created }),
			"title":   ByString(func(r record) string { return r.Title }),
			"id":      ByOrdered(func(r record) int { return r.ID }),
		},
		Location: wib,
	}
}

// twelveRecords returns records 1..12 created one day apart, shuffled, where the
// odd ids plus 12 are active (7 of them).
func twelveRecords() []record {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, wib)
	order := []int{7, 2, 11, 4, 1, 9, 12, 6, 3, 10, 5, 8}
	out := make([]record, 0, len(order))
	for _, id := range order {
		status := "inactive"
		if id%2 == 1 || id == 12 {
			status = "active"
		}
		out = append(out, record{
			ID:      id,
			Title:   "Record " + strconv.Itoa(id),
			Status:  status,
			Kind:    "news",
			Created: base.AddDate(0, 0, id-1),
		})
	}
	return out
}

func ids(items []record) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestDeriveIsIdempotentAndDoesNotMutate(t *testing.T) {
	s := recordSchema()
	items := twelveRecords()
	snapshot := append([]record(nil), items...)
	q := s.DefaultQuery()
	q.SortDir = SortDesc

	first := s.Derive(items, q)
	second := s.Derive(items, q)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, items)
}

func TestSetFilterResetsPage(t *testing.T) {
	s := recordSchema()
	base := s.DefaultQuery()
	base.Page = 4

	keys := map[string]string{
		KeyPageSize: "10",
		KeySearch:   "x",
		KeyStatus:   "active",
		KeySortBy:   "title",
		KeySortDir:  "desc",
		KeyDateFrom: "2024-03-01",
		KeyDateTo:   "2024-03-09",
		"kind":      "news",
	}
	for key, value := range keys {
		t.Run(key, func(t *testing.T) {
			got := s.SetFilter(base, key, value)
			assert.Equal(t, 1, got.Page)
			assert.Equal(t, 4, base.Page, "input query must not change")
		})
	}
}

func TestSetFilterCoercion(t *testing.T) {
	s := recordSchema()
	q := s.DefaultQuery()

	assert.Equal(t, 3, s.SetFilter(q, KeyPage, "3").Page)
	assert.Equal(t, 1, s.SetFilter(q, KeyPage, "zero").Page)
	assert.Equal(t, 1, s.SetFilter(q, KeyPage, "-2").Page)
	assert.Equal(t, 15, s.SetFilter(q, KeyPageSize, " 15 ").PageSize)
	assert.Equal(t, 5, s.SetFilter(q, KeyPageSize, "lots").PageSize)
	assert.Equal(t, All, s.SetFilter(q, KeyStatus, "").Status)
	assert.Equal(t, SortAsc, s.SetFilter(q, KeySortDir, "sideways").SortDir)
	assert.Equal(t, SortDesc, s.SetFilter(q, KeySortDir, "DESC").SortDir)

	paged := q
	paged.Page = 3
	assert.Equal(t, paged, s.SetFilter(paged, "unknown", "value"))
}

func TestPaginationBound(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{100, 10, 10},
		{101, 10, 11},
		{12, math.MaxInt, 1},
		{math.MaxInt, math.MaxInt - 1, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.total, tc.size), "total=%d size=%d", tc.total, tc.size)
	}

	s := recordSchema()
	q := s.DefaultQuery()
	q.Page = 99
	view := s.Derive(twelveRecords(), q)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, []int{11, 12}, ids(view.Items))

	q.Page = -1
	assert.Equal(t, 1, s.Derive(twelveRecords(), q).Page)
	assert.Equal(t, 1, s.Derive(nil, q).TotalPages)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	s := recordSchema()
	items := []record{{ID: 1, Title: "Alpha"}, {ID: 2, Title: "beta"}}
	q := s.SetFilter(s.DefaultQuery(), KeySearch, "  AL ")

	view := s.Derive(items, q)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Alpha", view.Items[0].Title)
	assert.Equal(t, 1, view.Total)
}

func TestSearchMatchesAnyField(t *testing.T) {
	s := recordSchema()
	items := []record{
		{ID: 1, Title: "Heart care", Author: "dr. Sari"},
		{ID: 2, Title: "Dental tips", Author: "dr. Budi"},
	}
	q := s.SetFilter(s.DefaultQuery(), KeySearch, "SARI")
	assert.Equal(t, []int{1}, ids(s.Derive(items, q).Items))
}

func TestDateRangeInclusivity(t *testing.T) {
	s := recordSchema()
	endOfDay := time.Date(2024, 3, 9, 23, 59, 59, int(999*time.Millisecond), wib)
	startOfDay := time.Date(2024, 3, 1, 0, 0, 0, 0, wib)
	items := []record{
		{ID: 1, Created: endOfDay},
		{ID: 2, Created: endOfDay.Add(time.Millisecond)},
		{ID: 3, Created: startOfDay},
		{ID: 4, Created: startOfDay.Add(-time.Millisecond)},
		{ID: 5},
	}
	q := s.DefaultQuery()
	q = s.SetFilter(q, KeyDateFrom, "2024-03-01")
	q = s.SetFilter(q, KeyDateTo, "2024-03-09")
	q = s.SetFilter(q, KeySortBy, "id")

	assert.Equal(t, []int{1, 3}, ids(s.Derive(items, q).Items))
}

func TestDateRangeOpenBounds(t *testing.T) {
	s := recordSchema()
	items := twelveRecords()

	onlyTo := s.SetFilter(s.DefaultQuery(), KeyDateTo, "2024-03-02")
	assert.Equal(t, []int{1, 2}, ids(s.Derive(items, onlyTo).Items))

	onlyFrom := s.SetFilter(s.DefaultQuery(), KeyDateFrom, "2024-03-11")
	assert.Equal(t, []int{11, 12}, ids(s.Derive(items, onlyFrom).Items))

	garbage := s.SetFilter(s.DefaultQuery(), KeyDateFrom, "yesterday")
	assert.Equal(t, 12, s.Derive(items, garbage).Total)

	undated := append(items, record{ID: 13})
	assert.Equal(t, 13, s.Derive(undated, s.DefaultQuery()).Total, "no bound keeps undated items")
}

func TestCategoricalFilters(t *testing.T) {
	s := recordSchema()
	items := []record{
		{ID: 1, Status: "active", Kind: "news"},
		{ID: 2, Status: "active", Kind: "promo"},
		{ID: 3, Status: "inactive", Kind: "news"},
	}
	q := s.SetFilter(s.DefaultQuery(), KeySortBy, "id")
	q = s.SetFilter(q, KeyStatus, "active")
	assert.Equal(t, []int{1, 2}, ids(s.Derive(items, q).Items))

	q = s.SetFilter(q, "kind", "news")
	assert.Equal(t, []int{1}, ids(s.Derive(items, q).Items))

	q = s.SetFilter(q, KeyStatus, All)
	q = s.SetFilter(q, "kind", All)
	assert.Equal(t, []int{1, 2, 3}, ids(s.Derive(items, q).Items))
}

func TestSortIsStableAndDirectional(t *testing.T) {
	s := recordSchema()
	items := []record{
		{ID: 1, Title: "b"},
		{ID: 2, Title: "a"},
		{ID: 3, Title: "b"},
		{ID: 4, Title: "B"},
		{ID: 5, Title: "a"},
	}
	q := s.SetFilter(s.DefaultQuery(), KeySortBy, "title")
	q = s.SetFilter(q, KeyPageSize, "10")
	assert.Equal(t, []int{4, 2, 5, 1, 3}, ids(s.Derive(items, q).Items), "native ordering puts upper case first")

	q = s.SetFilter(q, KeySortDir, "desc")
	assert.Equal(t, []int{1, 3, 2, 5, 4}, ids(s.Derive(items, q).Items), "ties keep source order")

	q = s.SetFilter(q, KeySortBy, "missing")
	q = s.SetFilter(q, KeySortDir, "asc")
	assert.Equal(t, 5, s.Derive(items, q).Total)
}

func TestEndToEndScenario(t *testing.T) {
	s := recordSchema()
	items := twelveRecords()
	q := s.DefaultQuery()

	view := s.Derive(items, q)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(view.Items))
	assert.Equal(t, 3, view.TotalPages)

	q = s.SetFilter(q, KeyPage, "3")
	q = s.SetFilter(q, KeyStatus, "active")
	assert.Equal(t, 1, q.Page)
	view = s.Derive(items, q)
	assert.Equal(t, 7, view.Total)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, []int{1, 3, 5, 7, 9}, ids(view.Items))

	q = s.SetFilter(q, KeyPage, "2")
	view = s.Derive(items, q)
	assert.Equal(t, []int{11, 12}, ids(view.Items))
	assert.False(t, view.HasNext())
	assert.True(t, view.HasPrev())
}

func TestSearchRunsAfterSort(t *testing.T) {
	s := recordSchema()
	items := twelveRecords()
	q := s.DefaultQuery()
	q = s.SetFilter(q, KeySortDir, "desc")
	q = s.SetFilter(q, KeySearch, "record 1")

	view := s.Derive(items, q)
	assert.Equal(t, []int{12, 11, 10, 1}, ids(view.Items))
	assert.Equal(t, 4, view.Total)
}

func TestApplyValuesBehavesLikeChangeEvents(t *testing.T) {
	s := recordSchema()
	q := s.DefaultQuery()
	q.Page = 2
	q.Status = "active"

	unchanged := url.Values{KeyStatus: {"active"}, KeySearch: {""}, "kind": {""}}
	assert.Equal(t, 2, s.ApplyValues(q, unchanged).Page)

	changed := url.Values{KeyStatus: {"inactive"}}
	got := s.ApplyValues(q, changed)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, "inactive", got.Status)

	navigate := url.Values{KeyStatus: {"inactive"}, KeyPage: {"3"}}
	assert.Equal(t, 3, s.ApplyValues(q, navigate).Page)
}

func TestPageSizeRestrictedToOptions(t *testing.T) {
	s := recordSchema()
	q := s.DefaultQuery()

	for _, raw := range []string{"7", "0", "-10", strconv.Itoa(math.MaxInt), ""} {
		got := s.SetFilter(q, KeyPageSize, raw)
		assert.Equal(t, 5, got.PageSize, "pageSize=%q", raw)

		view := s.Derive(twelveRecords(), got)
		assert.Equal(t, 3, view.TotalPages, "pageSize=%q", raw)
		assert.GreaterOrEqual(t, view.Page, 1)
		assert.LessOrEqual(t, view.Page, view.TotalPages)
	}
	assert.Equal(t, 50, s.SetFilter(q, KeyPageSize, "50").PageSize)

	stored := Query{Page: 1, PageSize: math.MaxInt}
	assert.Equal(t, 5, s.Normalize(stored).PageSize)
	view := s.Derive(twelveRecords(), stored)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Items, 5)

	custom := recordSchema()
	custom.PageSizes = []int{25, 100}
	assert.Equal(t, 25, custom.DefaultQuery().PageSize, "unselectable default falls back to the first option")
}

func TestOverrideDefaults(t *testing.T) {
	s := recordSchema()
	s.OverrideDefaults(Query{PageSize: 20, SortDir: SortDesc, Filters: map[string]string{"kind": "news"}})

	d := s.DefaultQuery()
	assert.Equal(t, 20, d.PageSize)
	assert.Equal(t, "created", d.SortBy)
	assert.Equal(t, SortDesc, d.SortDir)
	assert.Equal(t, "news", d.Filter("kind"))
	assert.Equal(t, 1, d.Page)
}

func TestPaginationWindow(t *testing.T) {
	p := NewPagination(5, 10, 95)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.Window(5))
	assert.Equal(t, 41, p.FirstItem())
	assert.Equal(t, 50, p.LastItem())

	last := NewPagination(10, 10, 95)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, last.Window(5))
	assert.Equal(t, 95, last.LastItem())

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, []int{1}, empty.Window(5))
	assert.Equal(t, 0, empty.FirstItem())
}
