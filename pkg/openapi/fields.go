package openapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/schema"
)

const (
	widgetExtension = "x-widget"
	orderExtension  = "x-order"
	columnExtension = "x-column"
)

type property struct {
	name     string
	schema   *openapi3.Schema
	kind     model.FieldType
	order    float64
	hasOrder bool
}

// Fields maps the scalar properties of a component schema onto field
// descriptors.
func (d *Document) Fields(schemaName string) ([]model.FieldDescriptor, error) {
	props, required, err := d.properties(schemaName)
	if err != nil {
		return nil, err
	}
	out := make([]model.FieldDescriptor, 0, len(props))
	for _, p := range props {
		out = append(out, fieldFor(p, required[p.name]))
	}
	return out, nil
}

// Columns maps the same properties onto column specs. Properties with
// x-column.hidden are left out.
func (d *Document) Columns(schemaName string) ([]schema.ColumnSpec, error) {
	props, _, err := d.properties(schemaName)
	if err != nil {
		return nil, err
	}
	out := make([]schema.ColumnSpec, 0, len(props))
	for _, p := range props {
		ext, _ := p.schema.Extensions[columnExtension].(map[string]any)
		if hidden, _ := ext["hidden"].(bool); hidden {
			continue
		}
		col := schema.ColumnSpec{
			ID:          p.name,
			AccessorKey: p.name,
			Header:      p.schema.Title,
			Editable:    !p.schema.ReadOnly,
		}
		if p.kind == model.FieldTypeNumber {
			col.Align = model.AlignRight
		}
		if header, ok := ext["header"].(string); ok {
			col.Header = header
		}
		if align, ok := ext["align"].(string); ok {
			col.Align = model.Align(align)
		}
		if size, ok := ext["size"].(float64); ok {
			col.Size = int(size)
		}
		if editable, ok := ext["editable"].(bool); ok {
			col.Editable = editable
		}
		out = append(out, col)
	}
	return out, nil
}

// Page builds a page declaration from a component schema, keyed by idKey.
func (d *Document) Page(schemaName, idKey string) (schema.Page, error) {
	fields, err := d.Fields(schemaName)
	if err != nil {
		return schema.Page{}, err
	}
	columns, err := d.Columns(schemaName)
	if err != nil {
		return schema.Page{}, err
	}
	title := schemaName
	if s, _ := d.schema(schemaName); s != nil && s.Title != "" {
		title = s.Title
	}
	return schema.Page{
		ID:      schemaName,
		Title:   title,
		Source:  "openapi:#/components/schemas/" + schemaName,
		IDKey:   idKey,
		Columns: columns,
		Fields:  fields,
	}, nil
}

// properties flattens allOf parts, drops non-scalar properties and orders
// the rest by x-order then name.
func (d *Document) properties(schemaName string) ([]property, map[string]bool, error) {
	root, err := d.schema(schemaName)
	if err != nil {
		return nil, nil, err
	}
	merged := make(map[string]*openapi3.Schema)
	required := make(map[string]bool)
	collect(root, merged, required)

	props := make([]property, 0, len(merged))
	for name, s := range merged {
		kind, ok := kindOf(s)
		if !ok {
			continue
		}
		p := property{name: name, schema: s, kind: kind}
		if v, ok := s.Extensions[orderExtension].(float64); ok {
			p.order, p.hasOrder = v, true
		}
		props = append(props, p)
	}
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i], props[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		if a.hasOrder && a.order != b.order {
			return a.order < b.order
		}
		return a.name < b.name
	})
	return props, required, nil
}

func collect(s *openapi3.Schema, into map[string]*openapi3.Schema, required map[string]bool) {
	if s == nil {
		return
	}
	for _, part := range s.AllOf {
		if part != nil {
			collect(part.Value, into, required)
		}
	}
	for name, ref := range s.Properties {
		if ref != nil && ref.Value != nil {
			into[name] = ref.Value
		}
	}
	for _, name := range s.Required {
		required[name] = true
	}
}

func kindOf(s *openapi3.Schema) (model.FieldType, bool) {
	typ := ""
	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			if t != openapi3.TypeNull {
				typ = t
				break
			}
		}
	}
	switch typ {
	case openapi3.TypeString:
		switch {
		case len(s.Enum) > 0:
			return model.FieldTypeSelect, true
		case s.Format == "date" || s.Format == "date-time":
			return model.FieldTypeDate, true
		case s.Format == "textarea":
			return model.FieldTypeTextarea, true
		}
		return model.FieldTypeText, true
	case openapi3.TypeInteger, openapi3.TypeNumber:
		if len(s.Enum) > 0 {
			return model.FieldTypeSelect, true
		}
		return model.FieldTypeNumber, true
	case openapi3.TypeBoolean:
		return model.FieldTypeCheckbox, true
	}
	return "", false
}

func fieldFor(p property, required bool) model.FieldDescriptor {
	s := p.schema
	field := model.FieldDescriptor{
		Name:         p.name,
		Label:        s.Title,
		Type:         p.kind,
		Required:     required,
		Description:  s.Description,
		DefaultValue: s.Default,
		Disabled:     s.ReadOnly,
	}
	if widget, ok := s.Extensions[widgetExtension].(string); ok && strings.TrimSpace(widget) != "" {
		field.Type = model.FieldType(strings.TrimSpace(widget))
	}
	for _, v := range s.Enum {
		field.Options = append(field.Options, model.Option{Value: v, Label: fmt.Sprint(v)})
	}
	if s.Format == "password" {
		field.Props = map[string]any{"secret": true}
	}

	var rules []model.ValidationRule
	bound := func(kind string, v float64) {
		rules = append(rules, model.ValidationRule{Kind: kind, Params: map[string]string{"value": strconv.FormatFloat(v, 'f', -1, 64)}})
	}
	if s.Min != nil {
		bound(model.ValidationRuleMin, *s.Min)
	}
	if s.Max != nil {
		bound(model.ValidationRuleMax, *s.Max)
	}
	if s.MinLength > 0 {
		bound(model.ValidationRuleMinLength, float64(s.MinLength))
	}
	if s.MaxLength != nil {
		bound(model.ValidationRuleMaxLength, float64(*s.MaxLength))
	}
	if s.Pattern != "" {
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": s.Pattern}})
	}
	if s.Format == "email" {
		field.Validation = &model.Validation{Tag: "email"}
	}
	if len(rules) > 0 {
		if field.Validation == nil {
			field.Validation = &model.Validation{}
		}
		field.Validation.Rules = rules
	}
	return field
}
