package crudgrid_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	crudgrid "github.com/goliatone/go-crudgrid"
	"github.com/goliatone/go-crudgrid/pkg/export"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/schema"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

const pageDoc = `
pages:
  lines:
    title: Budget lines
    idKey: id
    pageSize: 2
    columns:
      - accessorKey: name
      - accessorKey: plan
        align: right
        editable: true
      - accessorKey: actual
        align: right
      - accessorKey: variance
        align: right
    fields:
      - name: name
        type: text
        required: true
      - name: plan
        type: number
      - name: actual
        type: number
      - name: variance
        type: number
        disabled: true
    derive:
      - target: variance
        op: difference
        of: [actual, plan]
`

func newGrid(t *testing.T, opts ...crudgrid.Option) *crudgrid.Grid {
	t.Helper()
	store, err := schema.Parse(schema.SourceFromFS("lines.yaml"), []byte(pageDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	page, _ := store.Page("lines")
	rows := []model.Record{
		{"id": "l-1", "name": "Rent", "plan": 100, "actual": 120, "variance": 20},
		{"id": "l-2", "name": "Power", "plan": 50, "actual": 40, "variance": -10},
		{"id": "l-3", "name": "Water", "plan": 10, "actual": 10, "variance": 0},
	}
	g, err := crudgrid.NewGrid(page, rows, opts...)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestGrid_EditRecomputesAndCommits(t *testing.T) {
	var committed []model.Record
	g := newGrid(t, crudgrid.WithCommit(func(rows []model.Record) error {
		committed = rows
		return nil
	}))

	if err := g.Controller().UpdateCell("l-2", "plan", 30); err != nil {
		t.Fatalf("update cell: %v", err)
	}
	got, err := g.Controller().GetValue("l-2", "variance")
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	if diff := cmp.Diff(any(10), got); diff != "" {
		t.Fatalf("variance mismatch (-want +got):\n%s", diff)
	}
	if len(committed) != 3 || committed[1]["plan"] != 30 {
		t.Fatalf("commit not called with new rows: %v", committed)
	}
	if g.Rows()[1]["plan"] != 30 {
		t.Fatalf("grid rows not replaced")
	}
}

func TestGrid_EditOnLaterPageWithPositionalIDs(t *testing.T) {
	store, err := schema.Parse(schema.SourceFromFS("lines.yaml"), []byte(strings.Replace(pageDoc, "    idKey: id\n", "", 1)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	page, _ := store.Page("lines")
	rows := []model.Record{
		{"name": "Rent", "plan": 100, "actual": 120, "variance": 20},
		{"name": "Power", "plan": 50, "actual": 40, "variance": -10},
		{"name": "Water", "plan": 10, "actual": 10, "variance": 0},
	}
	g, err := crudgrid.NewGrid(page, rows)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if err := g.Controller().TogglePage(context.Background(), 1); err != nil {
		t.Fatalf("toggle page: %v", err)
	}
	if row, ok := g.Controller().Row("0"); !ok || row["name"] != "Water" {
		t.Fatalf("row 0 on page 2 = %v, %v", row, ok)
	}

	if err := g.Controller().UpdateCell("0", "plan", 30); err != nil {
		t.Fatalf("update cell: %v", err)
	}
	var plans []any
	for _, row := range g.Rows() {
		plans = append(plans, row["plan"])
	}
	if diff := cmp.Diff([]any{100, 50, 30}, plans); diff != "" {
		t.Fatalf("plans mismatch (-want +got):\n%s", diff)
	}
	got, err := g.Controller().GetValue("0", "variance")
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	if diff := cmp.Diff(any(-20), got); diff != "" {
		t.Fatalf("variance mismatch (-want +got):\n%s", diff)
	}

	f, err := g.EditForm("0", crudgrid.FieldSubset{})
	if err != nil {
		t.Fatalf("edit form: %v", err)
	}
	if v, _ := f.Value("name"); v != "Water" {
		t.Fatalf("edit form seeded with %v, want Water", v)
	}
}

func TestGrid_RenderAndExport(t *testing.T) {
	ctx := context.Background()
	g := newGrid(t)
	g.Controller().ToggleRowSelection("l-1")

	text, err := g.RenderTable(ctx, "text", crudgrid.RenderOptions{})
	if err != nil {
		t.Fatalf("render text: %v", err)
	}
	for _, fragment := range []string{"Budget lines", "Rent", "Power", "[x]", "Page 1 of 2 (3 rows)"} {
		if !strings.Contains(string(text), fragment) {
			t.Fatalf("text output missing %q\n%s", fragment, text)
		}
	}

	markup, err := g.RenderTable(ctx, "html", crudgrid.RenderOptions{})
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(string(markup), `data-row-id="l-1"`) {
		t.Fatalf("html output missing row id:\n%s", markup)
	}

	if _, err := g.RenderTable(ctx, "pdf", crudgrid.RenderOptions{}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}

	var buf bytes.Buffer
	if err := g.Export(&buf, export.Options{SelectedOnly: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("export wrote nothing")
	}
}

func TestGrid_EditForm(t *testing.T) {
	g := newGrid(t)
	f, err := g.EditForm("l-1", crudgrid.FieldSubset{Exclude: []string{"variance"}})
	if err != nil {
		t.Fatalf("edit form: %v", err)
	}
	if v, _ := f.Value("name"); v != "Rent" {
		t.Fatalf("form not seeded from row: %v", v)
	}
	if len(f.Fields()) != 3 {
		t.Fatalf("subset not applied: %+v", f.Fields())
	}

	out, err := g.RenderForm(context.Background(), "text", f, crudgrid.RenderOptions{})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	if !strings.Contains(string(out), "Rent") {
		t.Fatalf("form output missing value:\n%s", out)
	}

	if _, err := g.EditForm("l-9", crudgrid.FieldSubset{}); !errors.Is(err, table.ErrUnknownRow) {
		t.Fatalf("expected ErrUnknownRow, got %v", err)
	}
}
