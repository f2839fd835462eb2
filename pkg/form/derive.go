package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

type derivation struct {
	target    string
	dependsOn []string
	fn        DeriveFunc
}

// orderDerivations validates the declared derivations against the field
// index and returns them in dependency order (Kahn's algorithm, ties broken
// by declaration order so evaluation is deterministic).
func orderDerivations(specs []derivationSpec, index map[string]int) ([]derivation, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	byTarget := make(map[string]int, len(specs))
	list := make([]derivation, 0, len(specs))
	for _, spec := range specs {
		target := strings.TrimSpace(spec.target)
		if _, ok := index[target]; !ok {
			return nil, schemaErr(target, ErrInvalidSchema, "derivation target is not a declared field")
		}
		if spec.fn == nil {
			return nil, schemaErr(target, ErrInvalidSchema, "derivation function is nil")
		}
		if _, dup := byTarget[target]; dup {
			return nil, schemaErr(target, ErrInvalidSchema, "field has more than one derivation")
		}
		deps := make([]string, 0, len(spec.dependsOn))
		for _, dep := range spec.dependsOn {
			dep = strings.TrimSpace(dep)
			if _, ok := index[dep]; !ok {
				return nil, schemaErr(target, ErrInvalidSchema, "derivation depends on unknown field %q", dep)
			}
			if dep == target {
				return nil, schemaErr(target, ErrDerivationCycle, "derivation depends on its own target")
			}
			deps = append(deps, dep)
		}
		byTarget[target] = len(list)
		list = append(list, derivation{target: target, dependsOn: deps, fn: spec.fn})
	}

	indegree := make([]int, len(list))
	dependents := make([][]int, len(list))
	for i, d := range list {
		for _, dep := range d.dependsOn {
			if producer, ok := byTarget[dep]; ok {
				indegree[i]++
				dependents[producer] = append(dependents[producer], i)
			}
		}
	}

	var ready []int
	for i := range list {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	ordered := make([]derivation, 0, len(list))
	for len(ready) > 0 {
		sort.Ints(ready)
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, list[next])
		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(list) {
		var stuck []string
		for i, d := range list {
			if indegree[i] > 0 {
				stuck = append(stuck, d.target)
			}
		}
		return nil, schemaErr("", ErrDerivationCycle, "between %s", strings.Join(stuck, ", "))
	}
	return ordered, nil
}

// affected returns the derivations that must re-run after the named fields
// changed: any derivation depending on them, transitively, in order.
func affected(ordered []derivation, changed ...string) []derivation {
	dirty := make(map[string]struct{}, len(changed))
	for _, name := range changed {
		dirty[name] = struct{}{}
	}
	var out []derivation
	for _, d := range ordered {
		for _, dep := range d.dependsOn {
			if _, ok := dirty[dep]; ok {
				out = append(out, d)
				dirty[d.target] = struct{}{}
				break
			}
		}
	}
	return out
}

func runDerivations(values model.Record, list []derivation) {
	for _, d := range list {
		values[d.target] = d.fn(model.CloneRecord(values))
	}
}
