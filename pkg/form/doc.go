// Package form is the dynamic form engine. A Form is built from an ordered
// list of model.FieldDescriptor values; every descriptor's type tag is
// resolved against a widgets.Registry at construction time, so a schema
// that names an unknown widget fails immediately instead of rendering an
// empty slot.
//
// Values are seeded from an optional initial record (one-way copy-in) and
// change through SetValue or Reset. Validation runs every visible field in
// descriptor order and collects one error per failing field; Submit only
// calls the handler when that pass is clean.
//
// Cross-field data flow is declared with WithDerivation and evaluated in
// dependency order after each mutation. Widgets may still push values into
// sibling fields through widgets.Props.SetValue for lookup-style pickers.
package form
