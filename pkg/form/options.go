package form

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/visibility"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// DeriveFunc computes a field value from a snapshot of every form value.
type DeriveFunc func(values model.Record) any

// Option configures a Form.
type Option func(*config)

type derivationSpec struct {
	target    string
	dependsOn []string
	fn        DeriveFunc
}

type config struct {
	initial     model.Record
	registry    *widgets.Registry
	derivations []derivationSpec
	evaluator   visibility.Evaluator
	extras      map[string]any
	validate    *validator.Validate
	logger      *zap.Logger
}

// WithInitialValues seeds the form. The record is deep-copied; later edits
// never flow back into it. Use it for edit flows and leave it out for create
// flows.
func WithInitialValues(values model.Record) Option {
	return func(cfg *config) {
		cfg.initial = model.CloneRecord(values)
	}
}

// WithRegistry supplies the renderer registry used to resolve custom type
// tags. Without it only the built-in primitives resolve.
func WithRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithDerivation declares that target is computed by fn whenever one of
// dependsOn changes. Derivations run in dependency order; a derived field is
// owned by its derivation.
func WithDerivation(target string, dependsOn []string, fn DeriveFunc) Option {
	return func(cfg *config) {
		cfg.derivations = append(cfg.derivations, derivationSpec{
			target:    target,
			dependsOn: append([]string(nil), dependsOn...),
			fn:        fn,
		})
	}
}

// WithVisibilityEvaluator replaces the default expression evaluator used for
// FieldDescriptor.Visible rules.
func WithVisibilityEvaluator(evaluator visibility.Evaluator) Option {
	return func(cfg *config) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithExtras exposes caller data (roles, mode, feature flags) to visibility
// rules under the `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(cfg *config) {
		cfg.extras = extras
	}
}

// WithValidator shares a go-playground validator instance, for example one
// with custom tags registered.
func WithValidator(v *validator.Validate) Option {
	return func(cfg *config) {
		if v != nil {
			cfg.validate = v
		}
	}
}

// WithLogger attaches a logger. Forms are silent by default.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
