package export_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-crudgrid/pkg/export"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

func stockTable(t *testing.T) render.Table {
	t.Helper()
	rows := []model.Record{
		{"sku": "A-1", "qty": 5, "note": "ok"},
		{"sku": "B-2", "qty": 12, "note": "check"},
		{"sku": "C-3", "qty": 7, "note": "ok"},
	}
	columns := []table.Column[model.Record]{
		{AccessorKey: "sku", Header: "SKU", Size: 140},
		{AccessorKey: "qty", Header: "Qty"},
		{AccessorKey: "note", Header: "Note", Cell: func(ctx table.CellContext[model.Record]) any {
			return render.Markup("<em>" + render.Format(ctx.GetValue()) + "</em>")
		}},
	}
	ctrl, err := table.New(rows, columns, table.ClientMaterialized{PageSize: 10})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.ToggleRowSelection("1")
	return render.TableFromView(ctrl.View())
}

func readRows(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	return rows
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, stockTable(t), export.Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := [][]string{
		{"SKU", "Qty", "Note"},
		{"A-1", "5", "ok"},
		{"B-2", "12", "check"},
		{"C-3", "7", "ok"},
	}
	if diff := cmp.Diff(want, readRows(t, &buf, "Sheet1")); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_SelectedOnlyAndColumns(t *testing.T) {
	var buf bytes.Buffer
	opts := export.Options{SheetName: "Stock", SelectedOnly: true, Columns: []string{"qty", "sku"}}
	if err := export.WriteXLSX(&buf, stockTable(t), opts); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := [][]string{{"Qty", "SKU"}, {"12", "B-2"}}
	if diff := cmp.Diff(want, readRows(t, &buf, "Stock")); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX_UnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteXLSX(&buf, stockTable(t), export.Options{Columns: []string{"price"}})
	if !errors.Is(err, export.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}
