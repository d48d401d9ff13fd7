package lister

import (
	"reflect"

	"github.com/goliatone/go-lister/layering"
)

// filterSet owns the filters mapping. Values are scalars or []any of scalars
// and never nil.
type filterSet struct {
	values map[string]any
}

func (f *filterSet) replace(values map[string]any) {
	f.values = normalizeFilters(values)
}

func (f *filterSet) set(key string, value any) {
	if value == nil {
		f.remove(key)
		return
	}
	f.values[key] = normalizeFilterValue(value)
}

func (f *filterSet) remove(key string) bool {
	if _, ok := f.values[key]; !ok {
		return false
	}
	delete(f.values, key)
	return true
}

// toggled returns the array stored under key after adding or removing value.
// A nil result means the key should be removed.
func (f *filterSet) toggled(key string, value any) []any {
	current, _ := f.values[key].([]any)
	next := make([]any, 0, len(current)+1)
	found := false
	for _, item := range current {
		if !found && sameValue(item, value) {
			found = true
			continue
		}
		next = append(next, layering.CloneJSON(item))
	}
	if !found {
		next = append(next, normalizeFilterValue(value))
	}
	if len(next) == 0 {
		return nil
	}
	return next
}

func (f *filterSet) value(key string) (any, bool) {
	value, ok := f.values[key]
	if !ok {
		return nil, false
	}
	return layering.CloneJSON(value), true
}

func (f *filterSet) contains(key string, value any) bool {
	items, ok := f.values[key].([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if sameValue(item, value) {
			return true
		}
	}
	return false
}

func (f *filterSet) snapshot() map[string]any {
	return cloneFilters(f.values)
}

func cloneFilters(src map[string]any) map[string]any {
	return layering.CloneMap(src)
}

// normalizeFilters drops nil entries and converts typed slices into []any so
// that toggling and comparison behave the same for decoded and Go values.
func normalizeFilters(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		if value == nil {
			continue
		}
		out[key] = normalizeFilterValue(value)
	}
	return out
}

func normalizeFilterValue(value any) any {
	switch typed := value.(type) {
	case []any:
		return layering.CloneJSON(typed)
	case []byte:
		return string(typed)
	case Order:
		return string(typed)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = layering.CloneJSON(rv.Index(i).Interface())
		}
		return out
	}
	return layering.CloneJSON(value)
}

// isFalsy mirrors the loose truthiness used by toggle: nil, false, empty
// strings and numeric zero do nothing.
func isFalsy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case bool:
		return !typed
	case string:
		return typed == ""
	}
	if number, ok := asFloat(value); ok {
		return number == 0
	}
	return false
}

// sameValue compares filter members, treating numbers of different Go types
// as equal when their values match.
func sameValue(a, b any) bool {
	if x, ok := asFloat(a); ok {
		if y, ok := asFloat(b); ok {
			return x == y
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta.Comparable() && tb.Comparable() {
		if ta != tb {
			if sa, ok := a.(string); ok {
				if sb, ok := stringLike(b); ok {
					return sa == sb
				}
			}
			if sb, ok := b.(string); ok {
				if sa, ok := stringLike(a); ok {
					return sa == sb
				}
			}
			return false
		}
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func stringLike(value any) (string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
