package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the record being hydrated.
type Context struct {
	Source string
	Index  int
}

// PreHook lets callers mutate or normalise a record before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated value after decoding.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default JSON decoding when provided.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts loosely typed records into T.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithCustomDecoder replaces the default JSON decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts one record into T applying the configured hooks. Records
// that are not JSON objects are decoded directly when no hooks or custom
// decoder are configured.
func (d *Decoder[T]) Decode(ctx Context, record any) (T, error) {
	var zero T

	if record == nil {
		return zero, fmt.Errorf("hydrate: record %d from %q is nil", ctx.Index, ctx.Source)
	}

	current, isObject := Normalize(record)
	if !isObject {
		if len(d.preHooks) > 0 || d.custom != nil {
			return zero, fmt.Errorf("hydrate: record %d from %q is not an object", ctx.Index, ctx.Source)
		}
		return d.decodeJSON(ctx, record)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for record %d failed: %w", ctx.Index, err)
		}
		if next != nil {
			current = next
		}
	}

	var (
		result T
		err    error
	)
	if d.custom != nil {
		result, err = d.custom(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: custom decoder for record %d failed: %w", ctx.Index, err)
		}
	} else {
		result, err = d.decodeJSON(ctx, current)
		if err != nil {
			return zero, err
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for record %d failed: %w", ctx.Index, err)
		}
	}

	return result, nil
}

// DecodeAll decodes every record, stopping at the first failure.
func (d *Decoder[T]) DecodeAll(source string, records []any) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, record := range records {
		value, err := d.Decode(Context{Source: source, Index: i}, record)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func (d *Decoder[T]) decodeJSON(ctx Context, value any) (T, error) {
	var zero T
	buffer, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal record %d from %q: %w", ctx.Index, ctx.Source, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode record %d from %q: %w", ctx.Index, ctx.Source, err)
	}
	return result, nil
}
