package model

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var errEmptyPath = errors.New("model: path is required")

// Lookup resolves a dotted path against value. Maps are indexed by key,
// slices and arrays by numeric segment, and structs by json tag name or
// (case-insensitively) by Go field name. Exact matches on dotted map keys
// win over traversal so flattened records keep working.
func Lookup(value any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" || value == nil {
		return nil, false
	}
	if flat, ok := value.(map[string]any); ok {
		if v, exists := flat[path]; exists {
			return v, true
		}
	}

	current := value
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, false
		}
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(current any, segment string) (any, bool) {
	switch node := current.(type) {
	case map[string]any:
		v, ok := node[segment]
		return v, ok
	case map[string]string:
		v, ok := node[segment]
		return v, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return node[idx], true
	}
	return reflectStep(reflect.ValueOf(current), segment)
}

func reflectStep(rv reflect.Value, segment string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		entry := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !entry.IsValid() {
			return nil, false
		}
		return entry.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		field, ok := structField(rv, segment)
		if !ok {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	typ := rv.Type()
	var fallback = -1
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag := sf.Tag.Get("json"); tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName == name {
				return rv.Field(i), true
			}
		}
		if fallback < 0 && strings.EqualFold(sf.Name, name) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return rv.Field(fallback), true
	}
	return reflect.Value{}, false
}

// SetPath writes value at a dotted path inside record, creating intermediate
// maps and growing []any slices when a numeric segment is used.
func SetPath(record Record, path string, value any) error {
	if record == nil {
		return errors.New("model: record is nil")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errEmptyPath
	}
	segments := strings.Split(path, ".")
	return setSegments(record, segments, value, path)
}

func setSegments(node map[string]any, segments []string, value any, path string) error {
	head := segments[0]
	if head == "" {
		return fmt.Errorf("model: empty segment in path %q", path)
	}
	if len(segments) == 1 {
		node[head] = value
		return nil
	}

	if idx, err := strconv.Atoi(segments[1]); err == nil {
		if idx < 0 {
			return fmt.Errorf("model: negative index in path %q", path)
		}
		list, _ := node[head].([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		node[head] = list
		if len(segments) == 2 {
			list[idx] = value
			return nil
		}
		child, ok := list[idx].(map[string]any)
		if !ok || child == nil {
			child = make(map[string]any)
			list[idx] = child
		}
		return setSegments(child, segments[2:], value, path)
	}

	child, ok := node[head].(map[string]any)
	if !ok || child == nil {
		child = make(map[string]any)
		node[head] = child
	}
	return setSegments(child, segments[1:], value, path)
}

// Clone deep-copies maps and slices built from map[string]any / []any. Other
// values are returned as-is.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return typed
		}
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = Clone(v)
		}
		return out
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = Clone(v)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out
	default:
		return typed
	}
}

// CloneRecord returns a deep copy of record; nil yields an empty record.
func CloneRecord(record Record) Record {
	if record == nil {
		return make(Record)
	}
	return Clone(record).(map[string]any)
}
