package table

import "github.com/goliatone/go-crudgrid/pkg/model"

// View is the materialized state of the current page.
type View[R any] struct {
	Headers    []Header     `json:"headers"`
	Rows       []RowView[R] `json:"rows"`
	Pagination Pagination   `json:"pagination"`
	// Selection holds every selected id, including stale ones.
	Selection []string `json:"selection"`
	// Stale lists selected ids that resolve to no row on this page.
	Stale        []string `json:"stale,omitempty"`
	SingleSelect bool     `json:"singleSelect"`
}

// Header describes one column for rendering.
type Header struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Size     int         `json:"size,omitempty"`
	Align    model.Align `json:"align,omitempty"`
	Editable bool        `json:"editable,omitempty"`
}

// RowView is one materialized row.
type RowView[R any] struct {
	ID string `json:"id"`
	// Index is the absolute position of the row across pages.
	Index    int        `json:"index"`
	Record   R          `json:"record"`
	Selected bool       `json:"selected"`
	Cells    []CellView `json:"cells"`
}

// CellView carries both the logical value and its presentation.
type CellView struct {
	ColumnID string `json:"columnId"`
	Value    any    `json:"value"`
	Display  any    `json:"display"`
}

// SelectedRows returns the rows of the view that are selected.
func (v View[R]) SelectedRows() []RowView[R] {
	var out []RowView[R]
	for _, row := range v.Rows {
		if row.Selected {
			out = append(out, row)
		}
	}
	return out
}
