package hydrate

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/goliatone/go-lister/layering"
)

// Normalize converts payload into a detached JSON object. Maps are deep
// copied, raw JSON bytes and strings are decoded, structs and typed maps go
// through a JSON round trip. The second result is false when payload does not
// represent an object.
func Normalize(payload any) (map[string]any, bool) {
	switch typed := payload.(type) {
	case nil:
		return nil, false
	case map[string]any:
		if typed == nil {
			return nil, false
		}
		return layering.CloneMap(typed), true
	case json.RawMessage:
		return decodeObject(typed)
	case []byte:
		return decodeObject(typed)
	case string:
		return decodeObject([]byte(typed))
	}

	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
	default:
		return nil, false
	}

	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	return decodeObject(buffer)
}

func decodeObject(raw []byte) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, false
	}
	if out == nil {
		return nil, false
	}
	return out, true
}
