package widgets

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

// Primitive returns the renderer for a built-in kind. Custom renderers
// usually start from Base and adjust the result.
func Primitive(kind model.FieldType) Renderer {
	return RendererFunc(func(props Props) (Element, error) {
		el := Base(props, kind)
		if kind == model.FieldTypeSelect && len(el.Options) == 0 {
			return el, fmt.Errorf("widgets: select field %q has no options", props.Field.Name)
		}
		return el, nil
	})
}

// Base fills an Element from props using kind as the drawing primitive.
// Labels fall back to the field name, validation rules become input
// attributes and Field.Props scalar entries are copied to Attrs.
func Base(props Props, kind model.FieldType) Element {
	field := props.Field
	label := field.Label
	if label == "" {
		label = model.DefaultLabeler(field.Name)
	}
	el := Element{
		Name:        field.Name,
		Label:       label,
		Kind:        kind,
		Widget:      field.Type,
		Value:       props.Value,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		Disabled:    field.Disabled,
		Error:       props.Error,
		OnChange:    props.OnChange,
	}
	if len(field.Options) > 0 {
		el.Options = append([]model.Option(nil), field.Options...)
	}
	el.Attrs = attrsFor(field, kind)
	return el
}

func attrsFor(field model.FieldDescriptor, kind model.FieldType) map[string]string {
	attrs := make(map[string]string)
	if field.Validation != nil {
		for _, rule := range field.Validation.Rules {
			value := rule.Params["value"]
			switch rule.Kind {
			case model.ValidationRuleMin:
				if kind == model.FieldTypeNumber || kind == model.FieldTypeDate {
					attrs["min"] = value
				}
			case model.ValidationRuleMax:
				if kind == model.FieldTypeNumber || kind == model.FieldTypeDate {
					attrs["max"] = value
				}
			case model.ValidationRuleMinLength:
				attrs["minlength"] = value
			case model.ValidationRuleMaxLength:
				attrs["maxlength"] = value
			case model.ValidationRulePattern:
				attrs["pattern"] = rule.Params["pattern"]
			}
		}
	}

	keys := make([]string, 0, len(field.Props))
	for key := range field.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := field.Props[key].(type) {
		case string:
			attrs[key] = v
		case bool, int, int64, float64:
			attrs[key] = fmt.Sprint(v)
		}
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
