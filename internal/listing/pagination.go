package listing

// DefaultPageSize applies when neither the query nor the schema defaults carry one.
const DefaultPageSize = 10

// DefaultPageSizes are the page sizes offered by list pages.
var DefaultPageSizes = []int{5, 10, 15, 20, 50}

// Pagination contains metadata for a derived page.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata, clamping page into range.
func NewPagination(page, pageSize, total int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := TotalPages(total, pageSize)
	return Pagination{Page: Clamp(page, totalPages), PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// TotalPages returns max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Offset is the index of the first item on the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage is the previous page number, floored at 1.
func (p Pagination) PrevPage() int { return Clamp(p.Page-1, p.TotalPages) }

// NextPage is the next page number, capped at TotalPages.
func (p Pagination) NextPage() int { return Clamp(p.Page+1, p.TotalPages) }

// FirstItem is the 1-based position of the first item shown, 0 when empty.
func (p Pagination) FirstItem() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// LastItem is the 1-based position of the last item shown.
func (p Pagination) LastItem() int {
	return min(p.Offset()+p.PageSize, p.Total)
}

// Window returns up to size page numbers centred on the current page.
func (p Pagination) Window(size int) []int {
	if size <= 0 || size > p.TotalPages {
		size = p.TotalPages
	}
	start := p.Page - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > p.TotalPages {
		start = p.TotalPages - size + 1
	}
	pages := make([]int, 0, size)
	for i := 0; i < size; i++ {
		pages = append(pages, start+i)
	}
	return pages
}
