package table

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

var varianceRule = Derivation{
	Target: "volume.variance",
	Compute: func(r model.Record) any {
		forecast, _ := model.Lookup(r, "volume.forecast")
		plan, _ := model.Lookup(r, "volume.plan")
		return toInt(plan) - toInt(forecast)
	},
}

func toInt(v any) int {
	n, _ := v.(int)
	return n
}

func TestRecompute_UpdatesDerivedPath(t *testing.T) {
	row := model.Record{"code": "WO-1", "volume": map[string]any{"forecast": 10, "plan": 8, "variance": -2}}

	next, err := Recompute(row, "volume.plan", 12, varianceRule)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	want := model.Record{"code": "WO-1", "volume": map[string]any{"forecast": 10, "plan": 12, "variance": 2}}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if plan, _ := model.Lookup(row, "volume.plan"); plan != 8 {
		t.Fatalf("input record must not change, plan=%v", plan)
	}
}

func budgetRows() []model.Record {
	return []model.Record{
		{"id": "a", "volume": map[string]any{"forecast": 10, "plan": 8, "variance": -2}},
		{"id": "b", "volume": map[string]any{"forecast": 5, "plan": 5, "variance": 0}},
		{"id": "c", "volume": map[string]any{"forecast": 3, "plan": 1, "variance": -2}},
	}
}

func TestRecordReducer_WiresIntoController(t *testing.T) {
	rows := budgetRows()
	columns := []Column[model.Record]{
		{ID: "plan", AccessorKey: "volume.plan", Editable: true},
		{ID: "variance", AccessorKey: "volume.variance"},
	}

	var c *Controller[model.Record]
	reducer := RecordReducer(
		func() []model.Record { return rows },
		func(id string) (int, bool) { return c.RowIndex(id) },
		map[string][]Derivation{"volume.plan": {varianceRule}},
		func(next []model.Record) error {
			rows = next
			return c.Update(rows, nil)
		},
	)
	c = MustNew(rows, columns, ClientMaterialized{}, RecordID("id"), WithCellUpdate(reducer))

	if err := c.UpdateCell("b", "volume.plan", 9); err != nil {
		t.Fatalf("update cell: %v", err)
	}
	got, err := c.GetValue("b", "variance")
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected variance 4, got %v", got)
	}
	if v, _ := c.GetValue("a", "variance"); v != -2 {
		t.Fatalf("row a must be untouched, got %v", v)
	}

	if err := c.UpdateCell("zz", "volume.plan", 1); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("expected ErrUnknownRow, got %v", err)
	}
}

func TestRecordReducer_EditsTheVisibleRow(t *testing.T) {
	cases := []struct {
		name      string
		keyed     bool
		pageIndex int
		rowID     string
		wantPlans []any
		wantErr   error
	}{
		{name: "positional first page", pageIndex: 0, rowID: "1", wantPlans: []any{8, 99, 1}},
		{name: "positional second page", pageIndex: 1, rowID: "0", wantPlans: []any{8, 5, 99}},
		{name: "positional past page end", pageIndex: 1, rowID: "1", wantErr: ErrUnknownRow},
		{name: "keyed first page", keyed: true, pageIndex: 0, rowID: "b", wantPlans: []any{8, 99, 1}},
		{name: "keyed second page", keyed: true, pageIndex: 1, rowID: "c", wantPlans: []any{8, 5, 99}},
		{name: "keyed row off page", keyed: true, pageIndex: 1, rowID: "a", wantErr: ErrUnknownRow},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rows := budgetRows()
			columns := []Column[model.Record]{{ID: "plan", AccessorKey: "volume.plan", Editable: true}}

			var c *Controller[model.Record]
			reducer := RecordReducer(
				func() []model.Record { return rows },
				func(id string) (int, bool) { return c.RowIndex(id) },
				map[string][]Derivation{"volume.plan": {varianceRule}},
				func(next []model.Record) error {
					rows = next
					return c.Update(rows, nil)
				},
			)
			opts := []Option{WithCellUpdate(reducer)}
			if tc.keyed {
				opts = append(opts, RecordID("id"))
			}
			c = MustNew(rows, columns, ClientMaterialized{PageSize: 2}, opts...)
			if err := c.TogglePage(context.Background(), tc.pageIndex); err != nil {
				t.Fatalf("toggle page: %v", err)
			}

			err := c.UpdateCell(tc.rowID, "volume.plan", 99)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if diff := cmp.Diff(budgetRows(), rows); diff != "" {
					t.Fatalf("rows changed on error (-want +got):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("update cell: %v", err)
			}
			plans := make([]any, len(rows))
			for i, row := range rows {
				plans[i], _ = model.Lookup(row, "volume.plan")
			}
			if diff := cmp.Diff(tc.wantPlans, plans); diff != "" {
				t.Fatalf("plans mismatch (-want +got):\n%s", diff)
			}
			if got, _ := c.GetValue(tc.rowID, "plan"); got != 99 {
				t.Fatalf("visible row %q shows plan %v, want 99", tc.rowID, got)
			}
		})
	}
}
