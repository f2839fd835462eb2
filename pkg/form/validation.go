package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-crudgrid/pkg/model"
)

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *validator.Validate
)

func sharedValidator() *validator.Validate {
	defaultValidatorOnce.Do(func() {
		defaultValidator = validator.New()
	})
	return defaultValidator
}

// fieldChecks is the compiled validation plan of one field.
type fieldChecks struct {
	label    string
	required bool
	rules    []compiledRule
	tag      string
	custom   model.ValidateFunc
}

type compiledRule struct {
	rule    model.ValidationRule
	pattern *regexp.Regexp
	number  float64
	numeric bool
	length  int
}

func compileChecks(field model.FieldDescriptor, label string, v *validator.Validate) (fieldChecks, error) {
	checks := fieldChecks{label: label, required: field.Required}
	if field.Validation == nil {
		return checks, nil
	}
	checks.custom = field.Validation.Validate

	for _, rule := range field.Validation.Rules {
		compiled := compiledRule{rule: rule}
		value := strings.TrimSpace(rule.Params["value"])
		switch rule.Kind {
		case model.ValidationRuleMin, model.ValidationRuleMax:
			if value == "" {
				return checks, fmt.Errorf("rule %s requires params.value", rule.Kind)
			}
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				compiled.number, compiled.numeric = n, true
			}
		case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return checks, fmt.Errorf("rule %s requires a non-negative integer, got %q", rule.Kind, value)
			}
			compiled.length = n
		case model.ValidationRulePattern:
			expr := rule.Params["pattern"]
			if expr == "" {
				return checks, errors.New("rule pattern requires params.pattern")
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return checks, fmt.Errorf("rule pattern: %w", err)
			}
			compiled.pattern = re
		default:
			return checks, fmt.Errorf("unknown validation rule %q", rule.Kind)
		}
		checks.rules = append(checks.rules, compiled)
	}

	if tag := strings.TrimSpace(field.Validation.Tag); tag != "" {
		if err := probeTag(v, tag); err != nil {
			return checks, err
		}
		checks.tag = tag
	}
	return checks, nil
}

// probeTag runs the tag once against an empty value; validator panics on
// undefined tags and we want that surfaced when the form is built.
func probeTag(v *validator.Validate, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation tag %q: %v", tag, r)
		}
	}()
	_ = v.Var("", tag)
	return nil
}

// check runs the field's validators in order (required, rules, tag, custom)
// and returns the first failure. Rules and tags only apply to non-empty
// values; the custom validator always runs.
func (c fieldChecks) check(value any, v *validator.Validate) *model.FieldError {
	empty := isEmpty(value)
	if c.required && empty {
		return &model.FieldError{
			Type:    model.ErrorTypeRequired,
			Message: fmt.Sprintf("%s is required", c.label),
		}
	}
	if !empty {
		for _, rule := range c.rules {
			if fe := rule.check(c.label, value); fe != nil {
				return fe
			}
		}
		if c.tag != "" {
			if err := v.Var(value, c.tag); err != nil {
				return tagError(c.label, err)
			}
		}
	}
	if c.custom != nil {
		if fe := c.custom(value); fe != nil {
			out := *fe
			if out.Type == "" {
				out.Type = "validate"
			}
			return &out
		}
	}
	return nil
}

func (r compiledRule) check(label string, value any) *model.FieldError {
	message := r.rule.Params["message"]
	fail := func(format string, args ...any) *model.FieldError {
		if message == "" {
			message = fmt.Sprintf(format, args...)
		}
		return &model.FieldError{Type: r.rule.Kind, Message: message}
	}

	switch r.rule.Kind {
	case model.ValidationRuleMin, model.ValidationRuleMax:
		bound := r.rule.Params["value"]
		below := r.rule.Kind == model.ValidationRuleMin
		if r.numeric {
			n, ok := toFloat(value)
			if !ok {
				return fail("%s must be a number", label)
			}
			if below && n < r.number {
				return fail("%s must be at least %s", label, bound)
			}
			if !below && n > r.number {
				return fail("%s must be at most %s", label, bound)
			}
			return nil
		}
		// Non-numeric bounds compare as strings, which orders ISO dates.
		s := fmt.Sprint(value)
		if below && s < bound {
			return fail("%s must be on or after %s", label, bound)
		}
		if !below && s > bound {
			return fail("%s must be on or before %s", label, bound)
		}
	case model.ValidationRuleMinLength:
		if length(value) < r.length {
			return fail("%s must be at least %d characters", label, r.length)
		}
	case model.ValidationRuleMaxLength:
		if length(value) > r.length {
			return fail("%s must be at most %d characters", label, r.length)
		}
	case model.ValidationRulePattern:
		if !r.pattern.MatchString(fmt.Sprint(value)) {
			return fail("%s has an invalid format", label)
		}
	}
	return nil
}

func tagError(label string, err error) *model.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		message := fmt.Sprintf("%s failed the %q check", label, first.Tag())
		if param := first.Param(); param != "" {
			message = fmt.Sprintf("%s failed the %q check (%s)", label, first.Tag(), param)
		}
		return &model.FieldError{Type: model.ErrorTypeTag, Message: message}
	}
	return &model.FieldError{Type: model.ErrorTypeTag, Message: fmt.Sprintf("%s: %v", label, err)}
}

// isEmpty implements the required sugar: nil, nil pointers and the empty
// string count as missing. Whitespace, false, 0 and empty collections are
// values.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func length(value any) int {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case []any:
		return len(v)
	case []string:
		return len(v)
	}
	return utf8.RuneCountInString(fmt.Sprint(value))
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}
