// Package openapi derives form fields and table columns from the component
// schemas of an OpenAPI 3 document, loaded and validated with kin-openapi.
//
// Scalar properties map onto the built-in field types; arrays and objects
// are skipped. Vendor extensions refine the result:
//
//	x-widget: colorpicker      # type tag override (must be registered)
//	x-order: 2                 # property order; ties fall back to name
//	x-column: {hidden: true, header: Qty, align: center, size: 80, editable: true}
package openapi
