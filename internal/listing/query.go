// Package listing implements the list-state engine shared by every admin list page:
// a persisted filter/sort/pagination query and the pure derivation of a page of
// items from a fully loaded collection.
package listing

import (
	"maps"
	"strconv"
	"strings"
)

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// All is the filter value that matches every item.
const All = "all"

// DateLayout is the wire format of date range bounds.
const DateLayout = "2006-01-02"

// Query keys accepted by SetFilter. Categorical filters use their schema key.
const (
	KeyPage     = "page"
	KeyPageSize = "pageSize"
	KeySearch   = "search"
	KeyStatus   = "status"
	KeySortBy   = "sortBy"
	KeySortDir  = "sortDir"
	KeyDateFrom = "dateFrom"
	KeyDateTo   = "dateTo"
)

// Query is the complete view state of one list page.
type Query struct {
	Page     int               `json:"page" yaml:"page,omitempty"`
	PageSize int               `json:"pageSize" yaml:"pageSize,omitempty"`
	Search   string            `json:"search" yaml:"search,omitempty"`
	Status   string            `json:"status" yaml:"status,omitempty"`
	Filters  map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	DateFrom string            `json:"dateFrom,omitempty" yaml:"dateFrom,omitempty"`
	DateTo   string            `json:"dateTo,omitempty" yaml:"dateTo,omitempty"`
	SortBy   string            `json:"sortBy" yaml:"sortBy,omitempty"`
	SortDir  SortDirection     `json:"sortDir" yaml:"sortDir,omitempty"`
}

// Clone returns a deep copy of q.
func (q Query) Clone() Query {
	out := q
	if len(q.Filters) == 0 {
		out.Filters = nil
	} else {
		out.Filters = maps.Clone(q.Filters)
	}
	return out
}

// Filter returns the value of a categorical filter, All when unset.
func (q Query) Filter(key string) string {
	if v, ok := q.Filters[key]; ok && v != "" {
		return v
	}
	return All
}

// Value returns the string form of a query key, as submitted by a filter form.
func (q Query) Value(key string) string {
	switch key {
	case KeyPage:
		return strconv.Itoa(q.Page)
	case KeyPageSize:
		return strconv.Itoa(q.PageSize)
	case KeySearch:
		return q.Search
	case KeyStatus:
		return orAll(q.Status)
	case KeySortBy:
		return q.SortBy
	case KeySortDir:
		return string(q.SortDir)
	case KeyDateFrom:
		return q.DateFrom
	case KeyDateTo:
		return q.DateTo
	default:
		return q.Filter(key)
	}
}

// Active reports whether any filter narrows the listing.
func (q Query) Active() bool {
	if strings.TrimSpace(q.Search) != "" || orAll(q.Status) != All || q.DateFrom != "" || q.DateTo != "" {
		return true
	}
	for _, v := range q.Filters {
		if orAll(v) != All {
			return true
		}
	}
	return false
}

// ParseDirection maps any value other than "desc" to SortAsc.
func ParseDirection(value string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(value), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

func orAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return All
	}
	return v
}
