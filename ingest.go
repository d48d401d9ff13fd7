package lister

import (
	"maps"

	"github.com/goliatone/go-lister/internal/hydrate"
)

// ParseJSON merges a server response into the query state and re-seeds the
// field controllers from it without notifying the subscriber about the echo.
// payload may be a map, JSON text as string, []byte or json.RawMessage, or
// any struct that marshals to a JSON object. Anything else is ignored.
func (l *Lister) ParseJSON(payload any) {
	raw, ok := hydrate.Normalize(payload)
	if !ok {
		l.cfg.logger.LogEvent(LogEvent{
			Kind:     LogDecodeFailed,
			ListerID: l.id,
			Reason:   "payload is not a JSON object",
		})
		return
	}
	l.update(func() { l.ingest(raw) })
}

// ParseHash decodes token and ingests the object it carries. Malformed
// tokens are ignored.
func (l *Lister) ParseHash(token string) {
	document, err := DecodeJSON(token)
	if err != nil {
		l.cfg.logger.LogEvent(LogEvent{Kind: LogDecodeFailed, ListerID: l.id, Value: token, Err: err})
		return
	}
	l.ParseJSON(document)
}

// ingest runs with the mutex held.
func (l *Lister) ingest(raw map[string]any) {
	merged := make(map[string]any, len(l.response)+len(raw))
	maps.Copy(merged, l.response)
	maps.Copy(merged, raw)
	echo, err := Encode(hashViewOf(merged))
	if err == nil {
		l.notifier.ingested = echo
	}

	l.locked = true
	defer func() { l.locked = false }()

	l.response = maps.Clone(raw)
	if page, ok := asPositiveInt(raw[string(FieldPage)]); ok {
		l.assignPage(page)
	}
	if limit, ok := asPositiveInt(raw[string(FieldLimit)]); ok {
		l.assignLimit(limit)
	}
	if sort, ok := raw[string(FieldSort)].(string); ok && sort != "" {
		l.seedSort(sort)
	}
	if order, ok := asOrder(raw[string(FieldOrder)]); ok {
		l.assignOrder(order)
	}
	if search, ok := raw[string(FieldSearch)].(string); ok {
		l.assignSearch(search)
	}
	if filters, ok := raw[string(FieldFilters)].(map[string]any); ok {
		l.filters.replace(l.screenFilters(filters))
	}
	l.apply(nil)

	l.ingested = true
	l.log(LogEvent{Kind: LogIngested, Hash: l.notifier.ingested})
}

// screenFilters drops ingested filters their rule refuses.
func (l *Lister) screenFilters(filters map[string]any) map[string]any {
	if len(l.options.FilterRules) == 0 {
		return filters
	}
	out := make(map[string]any, len(filters))
	for key, value := range filters {
		if value == nil {
			continue
		}
		value = normalizeFilterValue(value)
		if l.allowFilter(key, value) {
			out[key] = value
		}
	}
	return out
}
