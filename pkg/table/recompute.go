package table

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

// Derivation recomputes Target (a dotted path) from the edited record.
type Derivation struct {
	Target  string
	Compute func(record model.Record) any
}

// Recompute copies record, writes value at path and then applies rules in
// order, each seeing the results of the ones before it. The input record is
// never modified.
//
//	next, err := table.Recompute(row, "volume.plan", 12, table.Derivation{
//		Target: "volume.variance",
//		Compute: func(r model.Record) any { ... },
//	})
func Recompute(record model.Record, path string, value any, rules ...Derivation) (model.Record, error) {
	next := model.CloneRecord(record)
	if err := model.SetPath(next, path, value); err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if rule.Compute == nil {
			continue
		}
		if err := model.SetPath(next, rule.Target, rule.Compute(next)); err != nil {
			return nil, fmt.Errorf("table: recompute %q: %w", rule.Target, err)
		}
	}
	return next, nil
}

// RowLocator maps a row id to its index in the reducer's source slice.
// Controller.RowIndex is the usual implementation.
type RowLocator func(rowID string) (int, bool)

// RecordReducer adapts Recompute into a CellUpdateFunc for tables over
// []model.Record. source returns the full row set the controller was given,
// locate resolves the edited row id against it, rules maps an edited path to
// the derivations it triggers and commit receives the new row slice.
//
//	var ctrl *table.Controller[model.Record]
//	reducer := table.RecordReducer(rowsFn, func(id string) (int, bool) {
//		return ctrl.RowIndex(id)
//	}, rules, commit)
func RecordReducer(source func() []model.Record, locate RowLocator, rules map[string][]Derivation, commit func([]model.Record) error) CellUpdateFunc {
	return func(rowID, field string, value any) error {
		rows := source()
		i, ok := locate(rowID)
		if !ok || i < 0 || i >= len(rows) {
			return fmt.Errorf("%w: %q", ErrUnknownRow, rowID)
		}
		updated, err := Recompute(rows[i], field, value, rules[field]...)
		if err != nil {
			return err
		}
		next := append([]model.Record(nil), rows...)
		next[i] = updated
		return commit(next)
	}
}

// RecordID returns a WithRowID option that keys model.Record rows by the
// value at idKey.
func RecordID(idKey string) Option {
	return WithRowID(func(row model.Record, index int) string {
		return recordID(row, index, idKey)
	})
}

func recordID(row model.Record, index int, idKey string) string {
	if idKey == "" {
		return strconv.Itoa(index)
	}
	v, ok := model.Lookup(row, idKey)
	if !ok || v == nil {
		return strconv.Itoa(index)
	}
	return fmt.Sprint(v)
}
