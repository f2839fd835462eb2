package form

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is wrapped by SchemaError when a descriptor's type is
	// neither a built-in primitive nor registered with the widgets registry.
	ErrUnknownType = errors.New("form: unresolvable field type")
	// ErrInvalidSchema is wrapped for structural descriptor problems such as
	// duplicate names, bad patterns or malformed visibility rules.
	ErrInvalidSchema = errors.New("form: invalid schema")
	// ErrNoOptions is wrapped when a select field declares no options.
	ErrNoOptions = errors.New("form: select field has no options")
	// ErrDerivationCycle is wrapped when derivations depend on each other.
	ErrDerivationCycle = errors.New("form: derivation cycle")
	// ErrUnknownField is returned by SetValue for names not in the schema.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNilHandler is returned by Submit when no handler is supplied.
	ErrNilHandler = errors.New("form: submit handler is required")
)

// SchemaError reports a descriptor defect detected while constructing a
// form. These are caller bugs, not user input problems.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("form: field %q: %v", e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErr(field string, base error, format string, args ...any) *SchemaError {
	return &SchemaError{
		Field: field,
		Err:   fmt.Errorf("%w: "+format, append([]any{base}, args...)...),
	}
}
