package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-crudgrid/pkg/form"
	"github.com/goliatone/go-crudgrid/pkg/model"
	"github.com/goliatone/go-crudgrid/pkg/render"
	"github.com/goliatone/go-crudgrid/pkg/widgets"
)

// FillForm prompts for every visible, enabled field, writes answers through
// each element's OnChange and validates. Fields reported invalid are asked
// again, together with fields that became visible since the previous round,
// until the form validates or the round limit is reached.
func (r *Renderer) FillForm(ctx context.Context, f *form.Form) (model.Record, error) {
	if f == nil {
		return nil, ErrNilForm
	}
	prompted := make(map[string]bool)
	var retry map[string]bool

	for round := 1; ; round++ {
		elements, err := f.Elements()
		if err != nil {
			return nil, err
		}
		for _, el := range elements {
			if el.Disabled {
				continue
			}
			if prompted[el.Name] && !retry[el.Name] {
				continue
			}
			value, err := r.prompt(ctx, el)
			if err != nil {
				return nil, err
			}
			if err := el.OnChange(value); err != nil {
				return nil, fmt.Errorf("tui: set %q: %w", el.Name, err)
			}
			prompted[el.Name] = true
		}

		errs := f.Validate()
		if len(errs) == 0 && !r.hasUnprompted(f, prompted) {
			return f.Values(), nil
		}
		if round >= r.maxRounds {
			r.logger.Debug("form still invalid after prompting", zap.Int("rounds", round), zap.Int("errors", len(errs)))
			return nil, &ValidationError{Errors: errs}
		}

		retry = make(map[string]bool, len(errs))
		names := make([]string, 0, len(errs))
		for name := range errs {
			retry[name] = true
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			msg := fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, name, errs[name].Error())
			if err := r.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
		}
	}
}

// hasUnprompted reports visible fields that appeared after their rule
// started matching and were never asked.
func (r *Renderer) hasUnprompted(f *form.Form, prompted map[string]bool) bool {
	for _, field := range f.Fields() {
		if field.Disabled || prompted[field.Name] {
			continue
		}
		if f.Visible(field.Name) {
			return true
		}
	}
	return false
}

func (r *Renderer) prompt(ctx context.Context, el widgets.Element) (any, error) {
	message := r.theme.InfoPrefix + el.Label
	if el.Required {
		message += " *"
	}
	help := el.Description

	switch el.Kind {
	case model.FieldTypeCheckbox:
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: isTrue(el.Value), Help: help})

	case model.FieldTypeSelect:
		labels := make([]string, len(el.Options))
		selected := -1
		for i, opt := range el.Options {
			labels[i] = opt.Label
			if el.Value != nil && fmt.Sprint(opt.Value) == fmt.Sprint(el.Value) {
				selected = i
			}
		}
		if len(labels) == 0 {
			return el.Value, nil
		}
		for {
			idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: selected, Help: help})
			if err != nil {
				return nil, err
			}
			if idx >= 0 && idx < len(el.Options) {
				return el.Options[idx].Value, nil
			}
			if err := r.driver.Info(ctx, fmt.Sprintf("%sinvalid selection", r.theme.ErrorPrefix)); err != nil {
				return nil, err
			}
		}

	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: render.Format(el.Value), Help: help})

	case model.FieldTypeNumber:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   render.Format(el.Value),
			Help:      help,
			Validator: validNumber,
		})
		if err != nil {
			return nil, err
		}
		return parseNumber(answer)

	case model.FieldTypeDate:
		if help == "" {
			help = "YYYY-MM-DD"
		}
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   render.Format(el.Value),
			Help:      help,
			Validator: validDate,
		})
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(answer), nil
	}

	cfg := InputConfig{Message: message, Default: render.Format(el.Value), Help: help}
	if el.Attrs["secret"] == "true" {
		cfg.Default = ""
		return r.driver.Password(ctx, cfg)
	}
	return r.driver.Input(ctx, cfg)
}

func validNumber(s string) error {
	_, err := parseNumber(s)
	return err
}

// parseNumber keeps integers as int; blank input clears the value.
func parseNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func validDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return nil
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(b)
		return ok
	}
	return false
}
