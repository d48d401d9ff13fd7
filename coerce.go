package lister

import (
	"encoding/json"
	"math"
)

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// maxSafeInteger is the largest integer a JSON number keeps exactly.
const maxSafeInteger = 1<<53 - 1

// asInteger accepts any numeric value without a fractional part.
func asInteger(value any) (int, bool) {
	f, ok := asFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > maxSafeInteger {
		return 0, false
	}
	return int(f), true
}

func asPositiveInt(value any) (int, bool) {
	n, ok := asInteger(value)
	if !ok || n < 1 {
		return 0, false
	}
	return n, true
}

func asOrder(value any) (Order, bool) {
	switch typed := value.(type) {
	case Order:
		return typed, typed.Valid()
	case string:
		order := Order(typed)
		return order, order.Valid()
	default:
		return "", false
	}
}

func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case Order:
		return string(typed), true
	default:
		return "", false
	}
}
