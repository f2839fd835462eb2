// Package html renders table views and forms as HTML fragments using pongo2
// templates. Cell markup is sanitized with bluemonday and theme CSS
// variables come from go-theme.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	rendertemplate "github.com/goliatone/go-crudgrid/pkg/render/template"
	"github.com/goliatone/go-crudgrid/pkg/render/template/pongo"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// Name is the registry name of this renderer.
const Name = "html"

// Option customises the renderer.
type Option func(*config)

type config struct {
	templateFS  fs.FS
	templates   rendertemplate.TemplateRenderer
	policy      *bluemonday.Policy
	classes     Classes
	emptyLabel  string
	submitLabel string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template engine. It must provide
// table.tpl and form.tpl.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithPolicy replaces the bluemonday policy applied to render.Markup cells.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithClasses overrides chrome class names.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithEmptyLabel sets the text shown when a page has no rows.
func WithEmptyLabel(label string) Option {
	return func(cfg *config) {
		cfg.emptyLabel = label
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	policy      *bluemonday.Policy
	classes     map[string]any
	emptyLabel  string
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		policy:      bluemonday.UGCPolicy(),
		emptyLabel:  "No rows",
		submitLabel: "Save",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure templates: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:   templates,
		policy:      cfg.policy,
		classes:     cfg.classes.merged(),
		emptyLabel:  cfg.emptyLabel,
		submitLabel: cfg.submitLabel,
	}, nil
}

func (r *Renderer) Name() string { return Name }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// RenderTable renders the page as a <table> with a selection column and a
// pagination footer.
func (r *Renderer) RenderTable(ctx context.Context, t render.Table, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aligns := make(map[string]model.Align, len(t.Headers))
	headers := make([]map[string]any, len(t.Headers))
	for i, h := range t.Headers {
		aligns[h.ID] = h.Align
		style := ""
		if h.Size > 0 {
			style = "width: " + strconv.Itoa(h.Size) + "px"
		}
		headers[i] = map[string]any{"id": h.ID, "label": h.Label, "style": style}
	}

	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]map[string]any, len(row.Cells))
		for j, cell := range row.Cells {
			entry := map[string]any{"column": cell.ColumnID, "align": string(aligns[cell.ColumnID])}
			if markup, ok := cell.Display.(render.Markup); ok {
				entry["markup"] = true
				entry["html"] = r.policy.Sanitize(string(markup))
			} else {
				entry["text"] = cell.Text()
			}
			cells[j] = entry
		}
		rows[i] = map[string]any{"id": row.ID, "selected": row.Selected, "cells": cells}
	}

	selectType := "checkbox"
	if t.SingleSelect {
		selectType = "radio"
	}
	p := t.Pagination

	data := map[string]any{
		"classes":       r.classes,
		"theme":         themeContext(options.Theme),
		"stylesheet":    themeAsset(options.Theme, stylesheetAsset),
		"title":         options.Title,
		"headers":       headers,
		"rows":          rows,
		"colspan":       len(headers) + 1,
		"select_type":   selectType,
		"single_select": t.SingleSelect,
		"empty_label":   r.emptyLabel,
		"pages":         pageLinks(p, options.PageURL),
		"page_number":   p.PageIndex + 1,
		"page_count":    p.PageCount,
		"total":         p.TotalElements,
		"stale":         strings.Join(t.Stale, " "),
	}
	out, err := r.templates.RenderTemplate("table.tpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render table: %w", err)
	}
	return []byte(out), nil
}

// RenderForm renders the visible elements with their current values and
// errors.
func (r *Renderer) RenderForm(ctx context.Context, f render.Form, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method, override := render.FormMethod(options.Method)
	hidden := options.Hidden
	if override != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden(render.MethodOverrideField, override))
	}
	hiddenFields := make([]map[string]any, 0, len(hidden))
	for _, h := range render.SortedHiddenFields(hidden) {
		hiddenFields = append(hiddenFields, map[string]any{"name": h.Name, "value": h.Value})
	}

	fields := make([]map[string]any, len(f.Elements))
	for i, el := range f.Elements {
		fields[i] = fieldContext(el)
	}

	submit := options.SubmitLabel
	if submit == "" {
		submit = r.submitLabel
	}
	data := map[string]any{
		"classes":      r.classes,
		"theme":        themeContext(options.Theme),
		"title":        options.Title,
		"method":       method,
		"action":       options.Action,
		"hidden":       hiddenFields,
		"form_errors":  options.FormErrors,
		"fields":       fields,
		"submit_label": submit,
	}
	out, err := r.templates.RenderTemplate("form.tpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(out), nil
}

func fieldContext(el widgets.Element) map[string]any {
	value := render.Format(el.Value)
	if isSecret(el) {
		value = ""
	}
	ctx := map[string]any{
		"id":          controlID(el.Name),
		"name":        el.Name,
		"label":       el.Label,
		"kind":        string(el.Kind),
		"widget":      string(el.Widget),
		"input_type":  inputType(el),
		"value":       value,
		"placeholder": el.Placeholder,
		"description": el.Description,
		"required":    el.Required,
		"disabled":    el.Disabled,
		"checked":     el.Kind == model.FieldTypeCheckbox && isChecked(el.Value),
		"attrs":       sortedAttrs(el.Attrs),
	}
	if el.Error != nil {
		ctx["error"] = el.Error.Message
		ctx["error_type"] = el.Error.Type
	}
	if len(el.Options) > 0 {
		options := make([]map[string]any, len(el.Options))
		for i, opt := range el.Options {
			optValue := render.Format(opt.Value)
			label := opt.Label
			if label == "" {
				label = optValue
			}
			options[i] = map[string]any{"value": optValue, "label": label, "selected": optValue == value && value != ""}
		}
		ctx["options"] = options
	}
	return ctx
}

func controlID(name string) string {
	replacer := strings.NewReplacer(".", "-", "[", "-", "]", "", " ", "-")
	return "cg-" + replacer.Replace(strings.TrimSpace(name))
}

// SecretAttr marks a text field whose value is never echoed back, set via
// FieldDescriptor.Props["secret"].
const SecretAttr = "secret"

func isSecret(el widgets.Element) bool {
	return el.Attrs[SecretAttr] == "true"
}

func inputType(el widgets.Element) string {
	if isSecret(el) {
		return "password"
	}
	switch el.Kind {
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypeDate:
		return "date"
	default:
		return "text"
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func sortedAttrs(attrs map[string]string) []map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if validAttrName(name) && name != SecretAttr {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]map[string]any, len(names))
	for i, name := range names {
		out[i] = map[string]any{"name": name, "value": attrs[name]}
	}
	return out
}

// validAttrName keeps attribute names to a safe charset; names are emitted
// unescaped.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

type pageLink struct {
	Index    int
	Label    string
	Href     string
	Current  bool
	Disabled bool
}

func pageLinks(p render.Pagination, pageURL func(int) string) []map[string]any {
	if p.PageCount <= 1 {
		return nil
	}
	links := []pageLink{{Index: p.PageIndex - 1, Label: "Previous", Disabled: !p.HasPrev()}}
	for i := 0; i < p.PageCount; i++ {
		links = append(links, pageLink{Index: i, Label: strconv.Itoa(i + 1), Current: i == p.PageIndex})
	}
	links = append(links, pageLink{Index: p.PageIndex + 1, Label: "Next", Disabled: !p.HasNext()})

	out := make([]map[string]any, 0, len(links))
	for _, link := range links {
		if pageURL != nil && !link.Disabled {
			link.Href = pageURL(link.Index)
		}
		out = append(out, map[string]any{
			"index":    link.Index,
			"label":    link.Label,
			"href":     link.Href,
			"current":  link.Current,
			"disabled": link.Disabled,
		})
	}
	return out
}
