package admin

import (
	"net/url"
	"strconv"

	"github.com/halocare/halocare-admin/internal/listing"
)

// Option is a value/label pair for selects.
type Option struct {
	Value string
	Label string
}

// Column describes one table column. Columns with a SortKey link to a sort.
type Column[T any] struct {
	Label   string
	SortKey string
	Badge   bool
	Value   func(T) string
}

// Filter is an equality filter control backed by a Schema filter accessor.
type Filter struct {
	Key     string
	Label   string
	Options []Option
}

// Field describes one form input.
type Field struct {
	Name     string
	Label    string
	Type     string
	Options  []Option
	Required bool
	Step     string
	Help     string
}

// DetailRow is one label/value line of the detail page.
type DetailRow struct {
	Label string
	Value string
}

// ColumnView is a rendered table header.
type ColumnView struct {
	Label     string
	SortURL   string
	Indicator string
}

// CellView is a rendered table cell.
type CellView struct {
	Text  string
	Badge bool
}

// RowView is a rendered table row.
type RowView struct {
	ID    string
	Cells []CellView
}

// FilterView is a rendered filter select.
type FilterView struct {
	Key      string
	Label    string
	Options  []Option
	Selected string
}

// ListData backs pages/list.html.
type ListData struct {
	Title         string
	Singular      string
	BasePath      string
	CSRFToken     string
	Query         listing.Query
	Columns       []ColumnView
	Rows          []RowView
	Pagination    listing.Pagination
	Window        []int
	PageSizes     []int
	SearchEnabled bool
	StatusOptions []Option
	Filters       []FilterView
	DateEnabled   bool
	DateLabel     string
	CanCreate     bool
	CanEdit       bool
	Error         string
}

// PageURL links to page n keeping the rest of the stored query.
func (d *ListData) PageURL(n int) string {
	return d.BasePath + "?" + url.Values{listing.KeyPage: {strconv.Itoa(n)}}.Encode()
}

// FieldView is a rendered form input.
type FieldView struct {
	Field
	Value string
	Error string
}

// FormData backs pages/form.html.
type FormData struct {
	Singular string
	BasePath string
	Action   string
	ID       string
	IsEdit   bool
	Fields   []FieldView
	Error    string
}

// DetailData backs pages/detail.html.
type DetailData struct {
	Singular      string
	BasePath      string
	ID            string
	Label         string
	Rows          []DetailRow
	Status        string
	StatusOptions []Option

	CanUpdate       bool
	CanDelete       bool
	CanChangeStatus bool
}

// Table is a type-erased derived page used by the CLI.
type Table struct {
	Headers    []string
	Rows       [][]string
	Pagination listing.Pagination
	Query      listing.Query
}
