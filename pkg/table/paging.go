package table

import "context"

// Paging selects who owns pagination. It is either Controlled or
// ClientMaterialized.
type Paging interface {
	pagingMode() string
}

// PageRequest is what a controlled table forwards to its owner.
type PageRequest struct {
	PageIndex int
	PageSize  int
}

// PageChangeFunc receives page requests in controlled mode. The owner is
// expected to fetch the page and call Controller.Update with the result.
type PageChangeFunc func(ctx context.Context, req PageRequest) error

// Controlled is server-side pagination: data already holds exactly one page
// and the counts come from the server response.
type Controlled struct {
	PageIndex     int
	PageSize      int
	PageCount     int
	TotalElements int
	OnPageChange  PageChangeFunc
}

func (Controlled) pagingMode() string { return "controlled" }

// ClientMaterialized slices the full data set in memory. PageSize <= 0
// yields a single page holding every row.
type ClientMaterialized struct {
	PageIndex int
	PageSize  int
}

func (ClientMaterialized) pagingMode() string { return "client" }

// Pagination is the summary exposed in a View.
type Pagination struct {
	PageIndex     int  `json:"pageIndex"`
	PageSize      int  `json:"pageSize"`
	PageCount     int  `json:"pageCount"`
	TotalElements int  `json:"totalElements"`
	Controlled    bool `json:"controlled"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.PageIndex > 0 && p.PageCount > 0 }

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool { return p.PageIndex+1 < p.PageCount }

// PageCount returns ceil(total/size). A non-positive size means one page,
// or none when total is zero.
func PageCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// CheckControlled verifies controlled paging input against the rows that
// were supplied for the current page.
func CheckControlled(p Controlled, rows int) error {
	fail := func(reason string) error {
		return &PaginationError{
			PageIndex:     p.PageIndex,
			PageSize:      p.PageSize,
			PageCount:     p.PageCount,
			TotalElements: p.TotalElements,
			Rows:          rows,
			Reason:        reason,
		}
	}
	switch {
	case p.PageSize <= 0:
		return fail("page size must be positive")
	case p.TotalElements < 0:
		return fail("total elements is negative")
	case p.PageCount != PageCount(p.TotalElements, p.PageSize):
		return fail("page count does not match total elements")
	case rows > p.PageSize:
		return fail("more rows than page size")
	}
	return nil
}

// window returns the [start, end) slice bounds of a client page.
func window(p ClientMaterialized, total int) (int, int) {
	if p.PageSize <= 0 {
		if p.PageIndex != 0 {
			return 0, 0
		}
		return 0, total
	}
	start := p.PageIndex * p.PageSize
	if p.PageIndex < 0 || start >= total {
		return 0, 0
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
