// Package export writes table snapshots to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

const defaultSheet = "Sheet1"

// ErrUnknownColumn is returned when Options.Columns names a column the
// table does not have.
var ErrUnknownColumn = errors.New("export: unknown column")

// Options selects what WriteXLSX writes.
type Options struct {
	// SheetName defaults to Sheet1.
	SheetName string
	// SelectedOnly limits the rows to the selected ones on the page.
	SelectedOnly bool
	// Columns restricts and orders the exported columns by id. Empty means
	// every column in table order.
	Columns []string
}

var stripTags = bluemonday.StrictPolicy()

// WriteXLSX writes the table's headers and each row's display values as a
// single-sheet workbook. Numbers, booleans and times keep their native cell
// types; markup is reduced to its text.
func WriteXLSX(w io.Writer, t render.Table, opts Options) error {
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = defaultSheet
	}
	columns, err := pickColumns(t.Headers, opts.Columns)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("export: sheet name: %w", err)
		}
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, t.Headers[col].Label); err != nil {
			return fmt.Errorf("export: header %q: %w", t.Headers[col].ID, err)
		}
		if size := t.Headers[col].Size; size > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			// pixels to character units, roughly 7px per character
			if err := f.SetColWidth(sheet, name, name, float64(size)/7); err != nil {
				return fmt.Errorf("export: column width: %w", err)
			}
		}
	}
	if len(columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("export: header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("export: header style: %w", err)
		}
	}

	line := 2
	for _, row := range t.Rows {
		if opts.SelectedOnly && !row.Selected {
			continue
		}
		for i, col := range columns {
			if col >= len(row.Cells) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, line)
			if err := f.SetCellValue(sheet, cell, cellValue(row.Cells[col])); err != nil {
				return fmt.Errorf("export: row %s: %w", row.ID, err)
			}
		}
		line++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

func pickColumns(headers []table.Header, ids []string) ([]int, error) {
	if len(ids) == 0 {
		out := make([]int, len(headers))
		for i := range headers {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		found := -1
		for i, h := range headers {
			if h.ID == id {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
		}
		out = append(out, found)
	}
	return out, nil
}

func cellValue(c render.Cell) any {
	switch v := c.Display.(type) {
	case nil:
		return ""
	case render.Markup:
		return stripTags.Sanitize(string(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v
	}
	return c.Text()
}
