package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFieldNameMissing = errors.New("model: field name is required")
	errFieldTypeMissing = errors.New("model: field type is required")
)

// ValidateFields checks the structural invariants of a descriptor list:
// every name is present and unique and every field declares a type. Type
// resolution against a renderer registry happens in the form engine.
func ValidateFields(fields []FieldDescriptor) error {
	seen := make(map[string]int, len(fields))
	for idx, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("field #%d: %w", idx, errFieldNameMissing)
		}
		if name != field.Name {
			return fmt.Errorf("model: field %q has surrounding whitespace", field.Name)
		}
		if prev, exists := seen[name]; exists {
			return fmt.Errorf("model: duplicate field name %q (positions %d and %d)", name, prev, idx)
		}
		seen[name] = idx
		if strings.TrimSpace(string(field.Type)) == "" {
			return fmt.Errorf("field %q: %w", name, errFieldTypeMissing)
		}
	}
	return nil
}
