package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/visibility"
	"github.com/goliatone/go-crudgrid/pkg/visibility/expr"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// SubmitHandler receives the assembled record once validation passes.
type SubmitHandler func(ctx context.Context, values model.Record) error

type fieldPlan struct {
	descriptor model.FieldDescriptor
	renderer   widgets.Renderer
	checks     fieldChecks
}

// Form holds the live state of one form instance. All methods are safe for
// concurrent use; mutations are serialized per instance.
type Form struct {
	mu sync.Mutex

	fields      []fieldPlan
	index       map[string]int
	derivations []derivation

	initial model.Record
	values  model.Record
	errors  model.Errors

	evaluator visibility.Evaluator
	extras    map[string]any
	validate  *validator.Validate
	logger    *zap.Logger
}

// ruleChecker is implemented by evaluators that can parse a rule ahead of
// time, such as expr.Evaluator.
type ruleChecker interface {
	Check(rule string) error
}

// New resolves every descriptor against the registry, compiles validation
// and visibility rules and orders derivations. Any defect is returned as a
// *SchemaError; nothing is deferred to render time.
func New(fields []model.FieldDescriptor, opts ...Option) (*Form, error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		cfg.evaluator = expr.New()
	}
	if cfg.validate == nil {
		cfg.validate = sharedValidator()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if err := model.ValidateFields(fields); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("%w: %v", ErrInvalidSchema, err)}
	}

	f := &Form{
		fields:    make([]fieldPlan, 0, len(fields)),
		index:     make(map[string]int, len(fields)),
		evaluator: cfg.evaluator,
		extras:    cfg.extras,
		validate:  cfg.validate,
		logger:    cfg.logger,
	}

	checker, _ := cfg.evaluator.(ruleChecker)
	for _, descriptor := range fields {
		renderer, ok := cfg.registry.Lookup(descriptor.Type)
		if !ok {
			return nil, schemaErr(descriptor.Name, ErrUnknownType, "%q is not a built-in type and is not registered", descriptor.Type)
		}
		if descriptor.Type == model.FieldTypeSelect && len(descriptor.Options) == 0 {
			return nil, schemaErr(descriptor.Name, ErrNoOptions, "select declares no options")
		}
		label := descriptor.Label
		if label == "" {
			label = model.DefaultLabeler(descriptor.Name)
		}
		checks, err := compileChecks(descriptor, label, cfg.validate)
		if err != nil {
			return nil, schemaErr(descriptor.Name, ErrInvalidSchema, "%v", err)
		}
		if checker != nil && strings.TrimSpace(descriptor.Visible) != "" {
			if err := checker.Check(descriptor.Visible); err != nil {
				return nil, schemaErr(descriptor.Name, ErrInvalidSchema, "visibility rule: %v", err)
			}
		}
		f.index[descriptor.Name] = len(f.fields)
		f.fields = append(f.fields, fieldPlan{
			descriptor: cloneDescriptor(descriptor),
			renderer:   renderer,
			checks:     checks,
		})
	}

	ordered, err := orderDerivations(cfg.derivations, f.index)
	if err != nil {
		return nil, err
	}
	f.derivations = ordered

	f.initial = model.CloneRecord(cfg.initial)
	f.resetLocked(f.initial)
	return f, nil
}

// MustNew is New for descriptor lists known to be valid; it panics on any
// schema error.
func MustNew(fields []model.FieldDescriptor, opts ...Option) *Form {
	f, err := New(fields, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Fields returns the descriptors in declaration order.
func (f *Form) Fields() []model.FieldDescriptor {
	out := make([]model.FieldDescriptor, len(f.fields))
	for i, plan := range f.fields {
		out[i] = cloneDescriptor(plan.descriptor)
	}
	return out
}

// Values returns a deep copy of the current values.
func (f *Form) Values() model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.CloneRecord(f.values)
}

// Value returns the current value of one field.
func (f *Form) Value(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[name]
	return model.Clone(v), ok
}

// Errors returns a copy of the errors recorded by the last validation pass
// or ApplyServerErrors call.
func (f *Form) Errors() model.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// SetValue writes a field value and re-runs every derivation that depends
// on it. Widgets use it to push values into sibling fields.
func (f *Form) SetValue(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.index[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.values[name] = model.Clone(value)
	runDerivations(f.values, affected(f.derivations, name))
	return nil
}

// Reset reseeds the form from values, or from the initial values when
// values is nil. Defaults fill absent fields and errors are cleared.
func (f *Form) Reset(values model.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if values == nil {
		values = f.initial
	}
	f.resetLocked(values)
}

func (f *Form) resetLocked(seed model.Record) {
	values := model.CloneRecord(seed)
	var missing []derivation
	for _, plan := range f.fields {
		name := plan.descriptor.Name
		if _, ok := values[name]; ok {
			continue
		}
		if plan.descriptor.DefaultValue != nil {
			values[name] = model.Clone(plan.descriptor.DefaultValue)
		}
	}
	for _, d := range f.derivations {
		if _, ok := seed[d.target]; !ok {
			missing = append(missing, d)
		}
	}
	runDerivations(values, missing)
	f.values = values
	f.errors = make(model.Errors)
}

// Validate runs every visible field's checks in descriptor order, replaces
// the error map with the result and returns a copy of it.
func (f *Form) Validate() model.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.validateLocked())
}

func (f *Form) validateLocked() model.Errors {
	errs := make(model.Errors)
	for _, plan := range f.fields {
		name := plan.descriptor.Name
		if !f.visibleLocked(plan.descriptor) {
			continue
		}
		if fe := plan.checks.check(f.values[name], f.validate); fe != nil {
			errs[name] = *fe
		}
	}
	f.errors = errs
	return errs
}

// Submit validates the form and, only when every field passes, calls
// handler with a copy of the values. Validation failures come back as the
// Errors map; the error return is reserved for the handler's own failure.
func (f *Form) Submit(ctx context.Context, handler SubmitHandler) (model.Errors, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	errs := copyErrors(f.validateLocked())
	snapshot := model.CloneRecord(f.values)
	f.mu.Unlock()

	if len(errs) > 0 {
		f.logger.Debug("form submit blocked by validation", zap.Int("errors", len(errs)))
		return errs, nil
	}
	if err := handler(ctx, snapshot); err != nil {
		f.logger.Debug("form submit handler failed", zap.Error(err))
		return nil, err
	}
	f.logger.Debug("form submitted", zap.Int("fields", len(snapshot)))
	return nil, nil
}

// Visible reports whether the named field is currently shown.
func (f *Form) Visible(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, ok := f.index[name]
	if !ok {
		return false
	}
	return f.visibleLocked(f.fields[idx].descriptor)
}

func (f *Form) visibleLocked(descriptor model.FieldDescriptor) bool {
	if strings.TrimSpace(descriptor.Visible) == "" {
		return true
	}
	ok, err := f.evaluator.Eval(descriptor.Name, descriptor.Visible, visibility.Context{
		Values: f.values,
		Extras: f.extras,
	})
	if err != nil {
		f.logger.Warn("visibility rule failed; showing field",
			zap.String("field", descriptor.Name),
			zap.Error(err),
		)
		return true
	}
	return ok
}

// Elements renders every visible field through its registered renderer.
// Renderers run outside the form lock so they may call SetValue.
func (f *Form) Elements() ([]widgets.Element, error) {
	type pending struct {
		plan  fieldPlan
		value any
		err   *model.FieldError
	}

	f.mu.Lock()
	queue := make([]pending, 0, len(f.fields))
	for _, plan := range f.fields {
		if !f.visibleLocked(plan.descriptor) {
			continue
		}
		item := pending{plan: plan, value: model.Clone(f.values[plan.descriptor.Name])}
		if fe, ok := f.errors[plan.descriptor.Name]; ok {
			copied := fe
			item.err = &copied
		}
		queue = append(queue, item)
	}
	f.mu.Unlock()

	elements := make([]widgets.Element, 0, len(queue))
	for _, item := range queue {
		name := item.plan.descriptor.Name
		el, err := item.plan.renderer.Render(widgets.Props{
			Field: cloneDescriptor(item.plan.descriptor),
			Value: item.value,
			Error: item.err,
			OnChange: func(value any) error {
				return f.SetValue(name, value)
			},
			SetValue: f.SetValue,
			Values:   f.Values,
		})
		if err != nil {
			return nil, fmt.Errorf("form: render field %q: %w", name, err)
		}
		if el.Name == "" {
			el.Name = name
		}
		if el.Kind == "" {
			el.Kind = model.FieldTypeText
		}
		if el.OnChange == nil {
			el.OnChange = func(value any) error {
				return f.SetValue(name, value)
			}
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// ApplyServerErrors merges a server validation payload into the error map
// and returns the messages that could not be tied to a field.
func (f *Form) ApplyServerErrors(payload map[string][]string) []string {
	mapping := MapErrorPayload(f.Fields(), payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	for name, messages := range mapping.Fields {
		f.errors[name] = model.FieldError{
			Type:    model.ErrorTypeServer,
			Message: strings.Join(messages, "; "),
		}
	}
	return mapping.Form
}

func copyErrors(src model.Errors) model.Errors {
	out := make(model.Errors, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneDescriptor(d model.FieldDescriptor) model.FieldDescriptor {
	if len(d.Options) > 0 {
		d.Options = append([]model.Option(nil), d.Options...)
	}
	if d.Props != nil {
		d.Props = model.Clone(d.Props).(map[string]any)
	}
	return d
}
