package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/table"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// Markup marks a cell display as trusted-shape HTML. HTML renderers still
// pass it through their sanitizer; text renderers strip nothing and print
// it as-is.
type Markup string

// Pagination re-exports the controller's pagination summary.
type Pagination = table.Pagination

// Table is the row-type independent snapshot renderers consume.
type Table struct {
	Headers      []table.Header
	Rows         []Row
	Pagination   Pagination
	Selection    []string
	Stale        []string
	SingleSelect bool
}

// Row is one rendered row.
type Row struct {
	ID       string
	Index    int
	Selected bool
	Cells    []Cell
}

// Cell keeps both the logical value and the presentation.
type Cell struct {
	ColumnID string
	Value    any
	Display  any
}

// Text is the plain-text form of the cell's display value.
func (c Cell) Text() string { return Format(c.Display) }

// TableFromView erases the row type of a controller view.
func TableFromView[R any](view table.View[R]) Table {
	out := Table{
		Headers:      append([]table.Header(nil), view.Headers...),
		Rows:         make([]Row, len(view.Rows)),
		Pagination:   view.Pagination,
		Selection:    append([]string(nil), view.Selection...),
		Stale:        append([]string(nil), view.Stale...),
		SingleSelect: view.SingleSelect,
	}
	for i, row := range view.Rows {
		cells := make([]Cell, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = Cell{ColumnID: cell.ColumnID, Value: cell.Value, Display: cell.Display}
		}
		out.Rows[i] = Row{ID: row.ID, Index: row.Index, Selected: row.Selected, Cells: cells}
	}
	return out
}

// Form is the snapshot of a form instance.
type Form struct {
	Elements []widgets.Element
	Values   model.Record
	Errors   model.Errors
}

// FormFromEngine resolves the form's visible elements.
func FormFromEngine(f *form.Form) (Form, error) {
	elements, err := f.Elements()
	if err != nil {
		return Form{}, err
	}
	return Form{Elements: elements, Values: f.Values(), Errors: f.Errors()}, nil
}

// Format converts a cell or field value to display text. Dates print as
// YYYY-MM-DD, whole floats without a fraction and nil as an empty string.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case Markup:
		return string(v)
	case time.Time:
		return formatTime(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatTime(*v)
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}
