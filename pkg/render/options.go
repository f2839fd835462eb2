package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request presentation data.
type RenderOptions struct {
	Title string
	// Action and Method describe the form submission target. Methods other
	// than GET and POST are sent as POST plus a hidden _method field.
	Action      string
	Method      string
	SubmitLabel string
	// Hidden fields are emitted inside the form, sorted by name.
	Hidden map[string]string
	// FormErrors are messages not tied to a field, typically the leftovers
	// returned by form.Form.ApplyServerErrors.
	FormErrors []string
	// PageURL builds pagination links. Without it pagination is rendered as
	// buttons carrying a data-page attribute.
	PageURL func(pageIndex int) string
	Theme   *theme.RendererConfig
}
