package listing

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Comparator orders two items, returning a negative, zero or positive number.
type Comparator[T any] func(a, b T) int

// Schema describes how one list page reads its items: which fields are searched,
// filtered and sorted, and the default query shown to first-time visitors.
type Schema[T any] struct {
	// Page keys persisted state and YAML default overrides.
	Page      string
	Defaults  Query
	PageSizes []int

	ID       func(T) string
	Search   []func(T) string
	Status   func(T) string
	Filters  map[string]func(T) string
	Date     func(T) (time.Time, bool)
	Sorts    map[string]Comparator[T]
	Location *time.Location
}

// View is a derived page of items.
type View[T any] struct {
	Pagination
	Items []T `json:"items"`
}

// ByString compares a text field with native byte ordering (case-sensitive).
func ByString[T any](field func(T) string) Comparator[T] {
	return func(a, b T) int { return strings.Compare(field(a), field(b)) }
}

// ByOrdered compares any ordered field.
func ByOrdered[T any, K cmp.Ordered](field func(T) K) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByTime compares a timestamp field; zero times sort first.
func ByTime[T any](field func(T) time.Time) Comparator[T] {
	return func(a, b T) int { return field(a).Compare(field(b)) }
}

// DefaultQuery returns the normalised default query of the page.
func (s *Schema[T]) DefaultQuery() Query {
	return s.Normalize(s.Defaults)
}

// Normalize fills zero values of q from the schema defaults.
func (s *Schema[T]) Normalize(q Query) Query {
	q = q.Clone()
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = s.allowedPageSize(q.PageSize)
	q.Status = orAll(q.Status)
	if q.SortBy == "" {
		q.SortBy = s.Defaults.SortBy
	}
	if q.SortDir == "" {
		q.SortDir = s.Defaults.SortDir
	}
	q.SortDir = ParseDirection(string(q.SortDir))
	return q
}

// OverrideDefaults merges the non-zero fields of q into the schema defaults.
func (s *Schema[T]) OverrideDefaults(q Query) {
	d := s.Defaults.Clone()
	if q.PageSize > 0 {
		d.PageSize = q.PageSize
	}
	if q.Search != "" {
		d.Search = q.Search
	}
	if q.Status != "" {
		d.Status = q.Status
	}
	if q.SortBy != "" {
		d.SortBy = q.SortBy
	}
	if q.SortDir != "" {
		d.SortDir = q.SortDir
	}
	if q.DateFrom != "" {
		d.DateFrom = q.DateFrom
	}
	if q.DateTo != "" {
		d.DateTo = q.DateTo
	}
	for k, v := range q.Filters {
		if d.Filters == nil {
			d.Filters = make(map[string]string, len(q.Filters))
		}
		d.Filters[k] = v
	}
	d.Page = 1
	s.Defaults = d
}

// PageSizeOptions lists the selectable page sizes.
func (s *Schema[T]) PageSizeOptions() []int {
	if len(s.PageSizes) > 0 {
		return s.PageSizes
	}
	return DefaultPageSizes
}

// SortKeys lists the sortable field names in stable order.
func (s *Schema[T]) SortKeys() []string {
	keys := make([]string, 0, len(s.Sorts))
	for k := range s.Sorts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FilterKeys lists the categorical filter names in stable order.
func (s *Schema[T]) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SetFilter returns q with one key updated. Every key other than page resets the
// page to 1. Unknown keys leave q untouched.
func (s *Schema[T]) SetFilter(q Query, key, value string) Query {
	next := q.Clone()
	switch key {
	case KeyPage:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 {
			n = 1
		}
		next.Page = n
		return next
	case KeyPageSize:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = 0
		}
		next.PageSize = s.allowedPageSize(n)
	case KeySearch:
		next.Search = value
	case KeyStatus:
		next.Status = orAll(value)
	case KeySortBy:
		next.SortBy = strings.TrimSpace(value)
	case KeySortDir:
		next.SortDir = ParseDirection(value)
	case KeyDateFrom:
		next.DateFrom = strings.TrimSpace(value)
	case KeyDateTo:
		next.DateTo = strings.TrimSpace(value)
	default:
		if _, ok := s.Filters[key]; !ok {
			return q
		}
		if next.Filters == nil {
			next.Filters = make(map[string]string, 1)
		}
		next.Filters[key] = orAll(value)
	}
	next.Page = 1
	return next
}

// ApplyValues applies submitted form values whose value differs from q, the way a
// change event would. The page key is applied last so explicit navigation survives
// the reset caused by other keys.
func (s *Schema[T]) ApplyValues(q Query, values url.Values) Query {
	keys := []string{KeyPageSize, KeySearch, KeyStatus, KeySortBy, KeySortDir, KeyDateFrom, KeyDateTo}
	keys = append(keys, s.FilterKeys()...)
	for _, key := range keys {
		if !values.Has(key) {
			continue
		}
		value := values.Get(key)
		if key == KeyStatus || s.Filters[key] != nil {
			value = orAll(value)
		}
		if value == q.Value(key) {
			continue
		}
		q = s.SetFilter(q, key, value)
	}
	if values.Has(KeyPage) {
		q = s.SetFilter(q, KeyPage, values.Get(KeyPage))
	}
	return q
}

// Derive computes the visible page of items. The order is fixed: categorical
// filters, date range, stable sort, free-text search, pagination. items is never
// modified.
func (s *Schema[T]) Derive(items []T, q Query) View[T] {
	q = s.Normalize(q)

	from, to, hasFrom, hasTo := s.dateBounds(q)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !s.matchesFilters(item, q) {
			continue
		}
		if (hasFrom || hasTo) && !s.inRange(item, from, to, hasFrom, hasTo) {
			continue
		}
		out = append(out, item)
	}

	if compare := s.comparator(q.SortBy); compare != nil {
		desc := q.SortDir == SortDesc
		slices.SortStableFunc(out, func(a, b T) int {
			if desc {
				return -compare(a, b)
			}
			return compare(a, b)
		})
	}

	if needle := fold(strings.TrimSpace(q.Search)); needle != "" {
		out = slices.DeleteFunc(out, func(item T) bool {
			return !s.matchesSearch(item, needle)
		})
	}

	p := NewPagination(q.Page, q.PageSize, len(out))
	end := min(p.Offset()+p.PageSize, len(out))
	return View[T]{Pagination: p, Items: slices.Clip(out[p.Offset():end])}
}

func (s *Schema[T]) matchesFilters(item T, q Query) bool {
	if s.Status != nil {
		if want := orAll(q.Status); want != All && s.Status(item) != want {
			return false
		}
	}
	for key, field := range s.Filters {
		want := q.Filter(key)
		if want == All {
			continue
		}
		if field(item) != want {
			return false
		}
	}
	return true
}

func (s *Schema[T]) dateBounds(q Query) (from, to time.Time, hasFrom, hasTo bool) {
	if s.Date == nil {
		return
	}
	loc := s.location()
	if q.DateFrom != "" {
		if d, err := time.ParseInLocation(DateLayout, q.DateFrom, loc); err == nil {
			from, hasFrom = d, true
		}
	}
	if q.DateTo != "" {
		if d, err := time.ParseInLocation(DateLayout, q.DateTo, loc); err == nil {
			to, hasTo = d.AddDate(0, 0, 1).Add(-time.Millisecond), true
		}
	}
	return
}

func (s *Schema[T]) inRange(item T, from, to time.Time, hasFrom, hasTo bool) bool {
	t, ok := s.Date(item)
	if !ok || t.IsZero() {
		return false
	}
	if hasFrom && t.Before(from) {
		return false
	}
	if hasTo && t.After(to) {
		return false
	}
	return true
}

func (s *Schema[T]) comparator(sortBy string) Comparator[T] {
	if c, ok := s.Sorts[sortBy]; ok {
		return c
	}
	if c, ok := s.Sorts[s.Defaults.SortBy]; ok {
		return c
	}
	return nil
}

func (s *Schema[T]) matchesSearch(item T, needle string) bool {
	for _, field := range s.Search {
		if strings.Contains(fold(field(item)), needle) {
			return true
		}
	}
	return false
}

func (s *Schema[T]) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// defaultPageSize is the schema default when it is selectable, then
// DefaultPageSize, then the first option.
func (s *Schema[T]) defaultPageSize() int {
	options := s.PageSizeOptions()
	for _, n := range []int{s.Defaults.PageSize, DefaultPageSize} {
		if slices.Contains(options, n) {
			return n
		}
	}
	return options[0]
}

// allowedPageSize keeps n when it is one of the selectable sizes.
func (s *Schema[T]) allowedPageSize(n int) int {
	if n > 0 && slices.Contains(s.PageSizeOptions(), n) {
		return n
	}
	return s.defaultPageSize()
}

// fold applies Unicode case folding. Casers carry state, so one is built per call.
func fold(v string) string {
	if v == "" {
		return v
	}
	return cases.Fold().String(v)
}
