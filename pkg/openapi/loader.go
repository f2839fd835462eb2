package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrEmptyDocument is returned when the payload is blank.
	ErrEmptyDocument = errors.New("openapi: document is empty")
	// ErrUnknownSchema is returned for a component schema name the document
	// does not declare.
	ErrUnknownSchema = errors.New("openapi: unknown component schema")
)

// Document is a loaded and validated OpenAPI document.
type Document struct {
	spec *openapi3.T
}

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows $ref values pointing outside the document.
func WithExternalRefs(enabled bool) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.externalRefs = enabled
	}
}

// WithValidation toggles document validation (on by default).
func WithValidation(enabled bool) LoaderOption {
	return func(cfg *loaderConfig) {
		cfg.validate = enabled
	}
}

// Load parses a JSON or YAML OpenAPI document and validates it. Example
// payloads are not validated.
func Load(ctx context.Context, data []byte, opts ...LoaderOption) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	cfg := loaderConfig{validate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: cfg.externalRefs}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return &Document{spec: spec}, nil
}

// LoadFile reads path and calls Load.
func LoadFile(ctx context.Context, path string, opts ...LoaderOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Load(ctx, data, opts...)
}

// Title reports info.title.
func (d *Document) Title() string {
	if d == nil || d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Schemas lists the component schema names in sorted order.
func (d *Document) Schemas() []string {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Document) schema(name string) (*openapi3.Schema, error) {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return ref.Value, nil
}
