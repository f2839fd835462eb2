package model

import internalmodel "github.com/goliatone/go-crudgrid/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeNumber   = internalmodel.FieldTypeNumber
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

const (
	ErrorTypeRequired  = internalmodel.ErrorTypeRequired
	ErrorTypeMin       = internalmodel.ErrorTypeMin
	ErrorTypeMax       = internalmodel.ErrorTypeMax
	ErrorTypeMinLength = internalmodel.ErrorTypeMinLength
	ErrorTypeMaxLength = internalmodel.ErrorTypeMaxLength
	ErrorTypePattern   = internalmodel.ErrorTypePattern
	ErrorTypeTag       = internalmodel.ErrorTypeTag
	ErrorTypeServer    = internalmodel.ErrorTypeServer
)

const (
	AlignLeft   = internalmodel.AlignLeft
	AlignCenter = internalmodel.AlignCenter
	AlignRight  = internalmodel.AlignRight
)

type (
	Record          = internalmodel.Record
	Align           = internalmodel.Align
	ValidationRule  = internalmodel.ValidationRule
	FieldError      = internalmodel.FieldError
	Errors          = internalmodel.Errors
	ValidateFunc    = internalmodel.ValidateFunc
	Validation      = internalmodel.Validation
	Option          = internalmodel.Option
	FieldDescriptor = internalmodel.FieldDescriptor
)

// BuiltinFieldTypes returns the primitive type tags in declaration order.
func BuiltinFieldTypes() []FieldType {
	return append([]FieldType(nil), internalmodel.BuiltinFieldTypes...)
}

// ValidateFields reports structural problems in a descriptor list (empty or
// duplicate names, missing types).
func ValidateFields(fields []FieldDescriptor) error {
	return internalmodel.ValidateFields(fields)
}

// DefaultLabeler converts a field name or accessor path into a label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// Lookup resolves a dotted path against maps, slices and structs.
func Lookup(value any, path string) (any, bool) {
	return internalmodel.Lookup(value, path)
}

// SetPath writes a value at a dotted path, creating intermediate maps.
func SetPath(record Record, path string, value any) error {
	return internalmodel.SetPath(record, path, value)
}

// Clone deep-copies map/slice trees.
func Clone(value any) any {
	return internalmodel.Clone(value)
}

// CloneRecord deep-copies a record; nil yields an empty record.
func CloneRecord(record Record) Record {
	return internalmodel.CloneRecord(record)
}
