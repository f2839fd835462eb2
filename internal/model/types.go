package model

// Record is the generic row shape used when callers do not bring their own
// struct type. Forms always collect values into a Record.
type Record = map[string]any

// FieldType is the tag that selects a renderer for a form field. The built-in
// primitives are listed below; any other tag must be registered with a
// widgets.Registry before a form using it can be constructed.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
)

// BuiltinFieldTypes lists the primitives every registry resolves.
var BuiltinFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeSelect,
	FieldTypeDate,
	FieldTypeTextarea,
	FieldTypeCheckbox,
}

// IsBuiltin reports whether the tag is one of the engine primitives.
func (t FieldType) IsBuiltin() bool {
	for _, builtin := range BuiltinFieldTypes {
		if t == builtin {
			return true
		}
	}
	return false
}

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// Error types reported in FieldError.Type by the built-in checks. Custom
// validators are free to use their own identifiers.
const (
	ErrorTypeRequired  = "required"
	ErrorTypeMin       = ValidationRuleMin
	ErrorTypeMax       = ValidationRuleMax
	ErrorTypeMinLength = ValidationRuleMinLength
	ErrorTypeMaxLength = ValidationRuleMaxLength
	ErrorTypePattern   = ValidationRulePattern
	ErrorTypeTag       = "tag"
	ErrorTypeServer    = "server"
)

// ValidationRule represents a single declarative constraint. Numeric bounds
// and length limits encode their threshold in Params["value"]; pattern rules
// keep the expression in Params["pattern"]. An optional Params["message"]
// replaces the generated message.
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// FieldError is the structured failure reported for one field.
type FieldError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Message == "" {
		return e.Type
	}
	return e.Message
}

// Errors maps field names to their first validation failure.
type Errors map[string]FieldError

// ValidateFunc returns nil when the value is acceptable.
type ValidateFunc func(value any) *FieldError

// Validation groups the checks attached to a field. They run in the order
// Rules, Tag, Validate after the required check.
type Validation struct {
	Rules []ValidationRule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// Tag holds a go-playground/validator expression such as "email,max=64".
	Tag      string       `json:"tag,omitempty" yaml:"tag,omitempty"`
	Validate ValidateFunc `json:"-" yaml:"-"`
}

// Option is a value/label pair offered by select-like widgets.
type Option struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldDescriptor declares one form field.
type FieldDescriptor struct {
	Name         string         `json:"name" yaml:"name"`
	Label        string         `json:"label,omitempty" yaml:"label,omitempty"`
	Type         FieldType      `json:"type" yaml:"type"`
	Required     bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Options      []Option       `json:"options,omitempty" yaml:"options,omitempty"`
	Validation   *Validation    `json:"validation,omitempty" yaml:"validation,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Disabled     bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// Visible is a visibility rule (see pkg/visibility/expr). Empty means
	// always visible.
	Visible string `json:"visible,omitempty" yaml:"visible,omitempty"`
	// Props is handed verbatim to the field renderer.
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Align is the horizontal alignment hint of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)
