package table

import (
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

// Column describes one column over rows of type R.
type Column[R any] struct {
	// ID identifies the column for lookups. It defaults to AccessorKey and
	// must be unique within one controller.
	ID string
	// AccessorKey is a dotted path into the row (map keys or struct fields,
	// json tags honoured).
	AccessorKey string
	Header      string
	Size        int
	Align       model.Align
	// AccessorFn derives the logical value when the stored shape differs
	// from what the column edits, e.g. the plan part of a nested volume.
	AccessorFn func(row R) any
	// Cell overrides the presentation only. It never changes GetValue.
	Cell func(ctx CellContext[R]) any
	// Editable marks columns that accept UpdateCell.
	Editable bool
}

// CellContext is handed to Column.Cell.
type CellContext[R any] struct {
	Row      R
	RowID    string
	RowIndex int
	ColumnID string
	value    any
}

// GetValue returns the logical cell value (AccessorFn result or raw value).
func (c CellContext[R]) GetValue() any { return c.value }

// Value returns the logical value of the column for row.
func (c Column[R]) Value(row R) any {
	if c.AccessorFn != nil {
		return c.AccessorFn(row)
	}
	if c.AccessorKey == "" {
		return nil
	}
	v, _ := model.Lookup(row, c.AccessorKey)
	return v
}

func (c Column[R]) id() string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return strings.TrimSpace(c.AccessorKey)
}

func (c Column[R]) header() string {
	if c.Header != "" {
		return c.Header
	}
	return model.DefaultLabeler(c.id())
}

func compileColumns[R any](columns []Column[R]) ([]Column[R], map[string]int, error) {
	out := make([]Column[R], 0, len(columns))
	index := make(map[string]int, len(columns))
	for i, column := range columns {
		id := column.id()
		if id == "" {
			return nil, nil, &ColumnError{Index: i, Err: ErrEmptyColumn}
		}
		if _, dup := index[id]; dup {
			return nil, nil, &ColumnError{Index: i, ID: id, Err: ErrDuplicateColumn}
		}
		column.ID = id
		column.Header = column.header()
		if column.Align == "" {
			column.Align = model.AlignLeft
		}
		index[id] = len(out)
		out = append(out, column)
	}
	return out, index, nil
}
