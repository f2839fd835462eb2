package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

// Props is what a renderer receives for one field. OnChange writes the
// field's own value; SetValue lets business widgets push values into other
// named fields (a vendor picker filling vendorName, for example).
type Props struct {
	Field    model.FieldDescriptor
	Value    any
	Error    *model.FieldError
	OnChange func(value any) error
	SetValue func(name string, value any) error
	// Values returns a snapshot of every form value.
	Values func() model.Record
}

// Prop returns Field.Props[key].
func (p Props) Prop(key string) (any, bool) {
	if p.Field.Props == nil {
		return nil, false
	}
	v, ok := p.Field.Props[key]
	return v, ok
}

// Element is the resolved, output-agnostic representation of a field. Kind
// is always one of the built-in primitives so HTML and terminal renderers
// can draw any widget; Widget keeps the original type tag.
type Element struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Kind        model.FieldType   `json:"kind"`
	Widget      model.FieldType   `json:"widget"`
	Value       any               `json:"value,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Options     []model.Option    `json:"options,omitempty"`
	Required    bool              `json:"required,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Error       *model.FieldError `json:"error,omitempty"`

	OnChange func(value any) error `json:"-"`
}

// Renderer turns Props into an Element.
type Renderer interface {
	Render(props Props) (Element, error)
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(props Props) (Element, error)

// Render calls fn.
func (fn RendererFunc) Render(props Props) (Element, error) {
	return fn(props)
}

// Registry maps type tags to renderers. It is safe for concurrent use and
// may be shared between forms; the form engine never mutates it.
type Registry struct {
	mu        sync.RWMutex
	renderers map[model.FieldType]Renderer
}

// NewRegistry returns a registry with every built-in primitive registered.
func NewRegistry() *Registry {
	reg := &Registry{renderers: make(map[model.FieldType]Renderer)}
	for _, kind := range model.BuiltinFieldTypes() {
		reg.renderers[kind] = Primitive(kind)
	}
	return reg
}

// Register binds tag to renderer. Registering an existing tag is an error;
// use Replace to override a built-in on purpose.
func (r *Registry) Register(tag model.FieldType, renderer Renderer) error {
	name, err := checkTag(tag, renderer)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderers == nil {
		r.renderers = make(map[model.FieldType]Renderer)
	}
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("widgets: renderer for type %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(tag model.FieldType, renderer Renderer) {
	if err := r.Register(tag, renderer); err != nil {
		panic(err)
	}
}

// Replace binds tag to renderer, overwriting any previous binding.
func (r *Registry) Replace(tag model.FieldType, renderer Renderer) error {
	name, err := checkTag(tag, renderer)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderers == nil {
		r.renderers = make(map[model.FieldType]Renderer)
	}
	r.renderers[name] = renderer
	return nil
}

// Lookup returns the renderer bound to tag. A nil registry still resolves
// the built-in primitives.
func (r *Registry) Lookup(tag model.FieldType) (Renderer, bool) {
	name := model.FieldType(strings.TrimSpace(string(tag)))
	if r == nil {
		if name.IsBuiltin() {
			return Primitive(name), true
		}
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[name]
	return renderer, ok
}

// Has reports whether tag resolves.
func (r *Registry) Has(tag model.FieldType) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// List returns the registered tags sorted by name.
func (r *Registry) List() []model.FieldType {
	if r == nil {
		return model.BuiltinFieldTypes()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.FieldType, 0, len(r.renderers))
	for tag := range r.renderers {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy, handy when a page wants to extend a
// shared registry without affecting other pages.
func (r *Registry) Clone() *Registry {
	out := &Registry{renderers: make(map[model.FieldType]Renderer)}
	if r == nil {
		for _, kind := range model.BuiltinFieldTypes() {
			out.renderers[kind] = Primitive(kind)
		}
		return out
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for tag, renderer := range r.renderers {
		out.renderers[tag] = renderer
	}
	return out
}

func checkTag(tag model.FieldType, renderer Renderer) (model.FieldType, error) {
	if renderer == nil {
		return "", fmt.Errorf("widgets: renderer is required")
	}
	name := model.FieldType(strings.TrimSpace(string(tag)))
	if name == "" {
		return "", fmt.Errorf("widgets: type tag is required")
	}
	return name, nil
}
