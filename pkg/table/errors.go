package table

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumn is wrapped by ColumnError when two columns resolve
	// to the same id. Give multi-aspect columns over one accessor key a
	// distinct ID each.
	ErrDuplicateColumn = errors.New("table: duplicate column id")
	// ErrEmptyColumn is wrapped by ColumnError when a column has neither an
	// ID nor an AccessorKey.
	ErrEmptyColumn = errors.New("table: column needs an id or accessor key")
	// ErrNoPageChange is returned when controlled paging has no callback.
	ErrNoPageChange = errors.New("table: controlled paging requires OnPageChange")
	// ErrNilPaging is returned by New when no paging mode is supplied.
	ErrNilPaging = errors.New("table: paging mode is required")
	// ErrPaginationContract is wrapped by PaginationError.
	ErrPaginationContract = errors.New("table: pagination contract violated")
	// ErrNoCellUpdate is returned by UpdateCell when no reducer was set.
	ErrNoCellUpdate = errors.New("table: no cell update reducer configured")
	// ErrUnknownRow is returned when a row id is not on the current page.
	ErrUnknownRow = errors.New("table: unknown row")
	// ErrUnknownColumn is returned for column ids not in the descriptor list.
	ErrUnknownColumn = errors.New("table: unknown column")
	// ErrRowIDType is returned when WithRowID was given a function for a
	// different row type than the controller's.
	ErrRowIDType = errors.New("table: row id function does not match row type")
)

// ColumnError reports a defect in the column descriptor list.
type ColumnError struct {
	Index int
	ID    string
	Err   error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("table: column %d (%q): %v", e.Index, e.ID, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// PaginationError describes controlled paging input that breaks the
// pageCount == ceil(totalElements/pageSize) and rows <= pageSize contract.
type PaginationError struct {
	PageIndex     int
	PageSize      int
	PageCount     int
	TotalElements int
	Rows          int
	Reason        string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("table: pagination contract violated: %s (pageIndex=%d pageSize=%d pageCount=%d total=%d rows=%d)",
		e.Reason, e.PageIndex, e.PageSize, e.PageCount, e.TotalElements, e.Rows)
}

func (e *PaginationError) Unwrap() error { return ErrPaginationContract }
