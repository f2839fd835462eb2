package html

// Classes are the CSS class names emitted on chrome elements. Zero fields
// fall back to DefaultClasses.
type Classes struct {
	Wrapper    string
	Title      string
	Table      string
	Select     string
	Empty      string
	Pagination string
	Summary    string
	Stale      string
	Form       string
	Field      string
	Help       string
	FieldError string
	Errors     string
	Actions    string
}

// DefaultClasses is the stock class set.
var DefaultClasses = Classes{
	Wrapper:    "crudgrid",
	Title:      "crudgrid-title",
	Table:      "crudgrid-table",
	Select:     "crudgrid-select",
	Empty:      "crudgrid-empty",
	Pagination: "crudgrid-pagination",
	Summary:    "crudgrid-summary",
	Stale:      "crudgrid-stale",
	Form:       "crudgrid-form",
	Field:      "crudgrid-field",
	Help:       "crudgrid-help",
	FieldError: "crudgrid-field-error",
	Errors:     "crudgrid-errors",
	Actions:    "crudgrid-actions",
}

func (c Classes) merged() map[string]any {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	d := DefaultClasses
	return map[string]any{
		"wrapper":     pick(c.Wrapper, d.Wrapper),
		"title":       pick(c.Title, d.Title),
		"table":       pick(c.Table, d.Table),
		"select":      pick(c.Select, d.Select),
		"empty":       pick(c.Empty, d.Empty),
		"pagination":  pick(c.Pagination, d.Pagination),
		"summary":     pick(c.Summary, d.Summary),
		"stale":       pick(c.Stale, d.Stale),
		"form":        pick(c.Form, d.Form),
		"field":       pick(c.Field, d.Field),
		"help":        pick(c.Help, d.Help),
		"field_error": pick(c.FieldError, d.FieldError),
		"errors":      pick(c.Errors, d.Errors),
		"actions":     pick(c.Actions, d.Actions),
	}
}
