// Package model defines the descriptor types shared by the table controller
// and the form engine. Field descriptors name a type tag that the widgets
// registry resolves; the built-in tags are text, number, select, date,
// textarea and checkbox. Validation rules reuse the canonical identifiers
// (min/max, minLength/maxLength, pattern) with string parameters so that
// descriptors loaded from YAML or OpenAPI documents and descriptors written
// in Go behave the same. The path helpers (Lookup, SetPath) are the only way
// the core reads or writes inside a record.
package model
