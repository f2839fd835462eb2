package render

import (
	"strings"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

// FieldSubset narrows a descriptor list, for example to drop a generated
// code field from create forms. Include keeps only the named fields when
// non-empty; Exclude always removes.
type FieldSubset struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Empty reports whether the subset filters nothing.
func (s FieldSubset) Empty() bool {
	return len(tokens(s.Include)) == 0 && len(tokens(s.Exclude)) == 0
}

// ApplySubset returns the descriptors that pass the subset, in their
// original order. Matching is case-insensitive.
func ApplySubset(fields []model.FieldDescriptor, subset FieldSubset) []model.FieldDescriptor {
	if subset.Empty() {
		return append([]model.FieldDescriptor(nil), fields...)
	}
	include := tokens(subset.Include)
	exclude := tokens(subset.Exclude)

	out := make([]model.FieldDescriptor, 0, len(fields))
	for _, field := range fields {
		key := strings.ToLower(strings.TrimSpace(field.Name))
		if _, skip := exclude[key]; skip {
			continue
		}
		if len(include) > 0 {
			if _, ok := include[key]; !ok {
				continue
			}
		}
		out = append(out, field)
	}
	return out
}

func tokens(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := strings.ToLower(strings.TrimSpace(value)); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}
