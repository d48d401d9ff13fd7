package lister

import (
	"reflect"
	"slices"

	"github.com/goliatone/go-lister/internal/hydrate"
)

// RecordContext identifies the record being decoded.
type RecordContext = hydrate.Context

// RecordOption configures DecodeRecords.
type RecordOption[T any] = hydrate.DecoderOption[T]

// RecordsWithPreHook rewrites each record object before it is decoded.
func RecordsWithPreHook[T any](hook func(RecordContext, map[string]any) (map[string]any, error)) RecordOption[T] {
	return hydrate.WithPreHook[T](hook)
}

// RecordsWithPostHook adjusts or validates each decoded record.
func RecordsWithPostHook[T any](hook func(RecordContext, *T) error) RecordOption[T] {
	return hydrate.WithPostHook[T](hook)
}

// RecordsWithUseNumber keeps numbers as json.Number in untyped fields.
func RecordsWithUseNumber[T any]() RecordOption[T] {
	return hydrate.WithUseNumber[T]()
}

// RecordsWithDisallowUnknownFields fails on keys T does not declare.
func RecordsWithDisallowUnknownFields[T any]() RecordOption[T] {
	return hydrate.WithDisallowUnknownFields[T]()
}

// DecodeRecords decodes the records of the last ingested response into T.
// The first failing record aborts decoding.
func DecodeRecords[T any](l *Lister, opts ...RecordOption[T]) ([]T, error) {
	return hydrate.NewDecoder[T](opts...).DecodeAll("data", l.Records())
}

// recordsOf returns a shallow copy of value when it is a slice.
func recordsOf(value any) []any {
	switch typed := value.(type) {
	case []any:
		return slices.Clone(typed)
	case nil:
		return []any{}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return []any{}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
