package schema

import (
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/table"
)

// RecordColumns turns the column specs into columns over model.Record rows.
func (p Page) RecordColumns() []table.Column[model.Record] {
	out := make([]table.Column[model.Record], len(p.Columns))
	for i, spec := range p.Columns {
		out[i] = table.Column[model.Record]{
			ID:          spec.ID,
			AccessorKey: spec.AccessorKey,
			Header:      spec.Header,
			Size:        spec.Size,
			Align:       spec.Align,
			Editable:    spec.Editable,
		}
	}
	return out
}

// TableOptions returns the controller options the page declares.
func (p Page) TableOptions() []table.Option {
	opts := []table.Option{table.WithSingleSelect(p.SingleSelect)}
	if p.IDKey != "" {
		opts = append(opts, table.RecordID(p.IDKey))
	}
	return opts
}

// Paging returns client-side paging at the declared page size; zero means
// one page holding every row.
func (p Page) Paging() table.ClientMaterialized {
	return table.ClientMaterialized{PageSize: p.PageSize}
}

// FormOptions wires the page's derivations into a form over every page
// field.
func (p Page) FormOptions() []form.Option {
	return p.FormOptionsFor(p.Fields)
}

// FormOptionsFor wires the derivations whose target and inputs are all
// among fields, so a subset form never references a missing field.
func (p Page) FormOptionsFor(fields []model.FieldDescriptor) []form.Option {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f.Name] = true
	}
	opts := make([]form.Option, 0, len(p.Derive))
	for _, d := range p.Derive {
		if !present[d.Target] || !allPresent(present, d.Of) {
			continue
		}
		opts = append(opts, form.WithDerivation(d.Target, d.Of, d.compute))
	}
	return opts
}

func allPresent(present map[string]bool, names []string) bool {
	for _, name := range names {
		if !present[name] {
			return false
		}
	}
	return true
}

// RecordRules maps each derivation input to the derivations it feeds, in
// declaration order, for table.RecordReducer.
func (p Page) RecordRules() map[string][]table.Derivation {
	if len(p.Derive) == 0 {
		return nil
	}
	rules := make(map[string][]table.Derivation)
	for _, d := range p.Derive {
		rule := table.Derivation{Target: d.Target, Compute: d.compute}
		for _, input := range d.Of {
			rules[input] = append(rules[input], rule)
		}
	}
	return rules
}

// FieldSubset narrows the page fields to a subset, keeping declaration
// order.
func (p Page) FieldSubset(subset render.FieldSubset) []model.FieldDescriptor {
	return render.ApplySubset(p.Fields, subset)
}

type operation func(values []float64) float64

var operations = map[string]operation{
	"sum": func(values []float64) float64 {
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total
	},
	"product": func(values []float64) float64 {
		total := 1.0
		for _, v := range values {
			total *= v
		}
		return total
	},
	"difference": func(values []float64) float64 {
		total := values[0]
		for _, v := range values[1:] {
			total -= v
		}
		return total
	},
	"ratio": func(values []float64) float64 {
		total := values[0]
		for _, v := range values[1:] {
			if v == 0 {
				return 0
			}
			total /= v
		}
		return total
	},
	"concat": nil,
}

// compute reads inputs with model.Lookup so nested paths work for table
// rows. A missing or non-numeric input yields nil for numeric ops.
func (d DeriveSpec) compute(values model.Record) any {
	if d.Op == "concat" {
		sep := d.Separator
		if sep == "" {
			sep = " "
		}
		parts := make([]string, 0, len(d.Of))
		for _, path := range d.Of {
			v, _ := model.Lookup(values, path)
			if s := render.Format(v); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	}
	op := operations[d.Op]
	if op == nil {
		return nil
	}
	inputs := make([]float64, len(d.Of))
	for i, path := range d.Of {
		v, _ := model.Lookup(values, path)
		n, ok := toFloat(v)
		if !ok {
			return nil
		}
		inputs[i] = n
	}
	result := op(inputs)
	if result == float64(int64(result)) && result < 1<<53 && result > -(1<<53) {
		return int(result)
	}
	return result
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
