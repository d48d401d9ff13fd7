// Package lister coordinates the query state of a paginated, sortable,
// searchable and filterable list view. It keeps the state in sync with a
// shareable hash token and with server responses, and notifies a single
// subscriber when the effective query changes.
package lister

import (
	"errors"
	"slices"
	"sync"

	"github.com/goliatone/go-lister/pkg/activity"
	"github.com/google/uuid"
)

// Lister is the list-query coordinator. It is safe for concurrent use; each
// public method is one atomic unit for notification purposes.
type Lister struct {
	mu      sync.Mutex
	id      string
	options Options
	cfg     listerConfig
	guards  *filterGuards
	emitter *activity.Emitter

	page    int
	limit   int
	sort    string
	order   Order
	search  string
	filters filterSet

	response map[string]any
	locked   bool
	notifier notifier

	pending  []LogEvent
	ingested bool
}

// New builds a coordinator from cfg. It never fails: unusable configuration
// values fall back to their defaults and broken filter rules reject every
// value for their key. Use Load to surface configuration errors instead.
func New(cfg Config, opts ...Option) *Lister {
	options := newListerConfig(opts)
	l := &Lister{
		id:       options.id,
		options:  Resolve(cfg),
		cfg:      options,
		response: map[string]any{},
	}
	if l.id == "" {
		l.id = uuid.NewString()
	}
	l.guards = newFilterGuards(l.options.FilterRules, l.cfg)
	l.emitter = newActivityEmitter(l.cfg)

	l.page = l.options.Page
	l.limit = l.options.Limit
	l.sort = l.options.Sort
	l.order = l.options.Order
	l.search = l.options.Search
	l.filters.replace(l.options.Filters)

	l.mu.Lock()
	l.ingest(map[string]any{})
	l.notifier.hash, _ = l.computeHash()
	l.pending = nil
	l.ingested = false
	l.mu.Unlock()
	return l
}

// Load validates cfg, compiles every filter rule and then builds the
// coordinator.
func Load(cfg Config, opts ...Option) (*Lister, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := New(cfg, opts...)
	if err := errors.Join(l.cfg.errs...); err != nil {
		return nil, err
	}
	if err := l.guards.compileAll(); err != nil {
		return nil, err
	}
	return l, nil
}

// ID returns the coordinator identifier.
func (l *Lister) ID() string {
	return l.id
}

// Options returns the resolved configuration.
func (l *Lister) Options() Options {
	opts := l.options
	opts.ValidLimits = slices.Clone(opts.ValidLimits)
	opts.ValidSorts = slices.Clone(opts.ValidSorts)
	opts.Filters = opts.DefaultFilters()
	return opts
}

// update runs fn as one unit of work. Logs, activity events and the
// subscriber are dispatched after the mutex is released.
func (l *Lister) update(fn func()) {
	l.mu.Lock()
	fn()
	out := l.settle()
	l.mu.Unlock()
	l.dispatch(out)
}

// trigger is the auto-apply hook shared by every setter.
func (l *Lister) trigger(field Field) {
	if l.locked || !l.options.IsAuto(field) {
		return
	}
	l.write(field)
}

// write copies one controller value into the query state.
func (l *Lister) write(field Field) {
	switch field {
	case FieldPage:
		l.response[string(FieldPage)] = l.page
	case FieldLimit:
		l.response[string(FieldLimit)] = l.limit
	case FieldSort:
		l.response[string(FieldSort)] = l.sort
	case FieldOrder:
		l.response[string(FieldOrder)] = string(l.order)
	case FieldSearch:
		l.response[string(FieldSearch)] = l.search
	case FieldFilters:
		l.response[string(FieldFilters)] = l.filters.snapshot()
	}
}

// Apply commits the named fields, or all of them, into the query state
// regardless of the lock and the trigger set.
func (l *Lister) Apply(fields ...Field) {
	l.update(func() {
		applied := l.apply(fields)
		l.log(LogEvent{Kind: LogApplied, Fields: applied})
	})
}

func (l *Lister) apply(fields []Field) []Field {
	fields = l.selectFields(fields)
	for _, field := range fields {
		l.write(field)
	}
	return fields
}

// Reset restores the named fields, or all of them, from the query state,
// falling back to the configured defaults for missing or unusable values.
func (l *Lister) Reset(fields ...Field) {
	l.update(func() {
		l.locked = true
		defer func() { l.locked = false }()

		fields = l.selectFields(fields)
		for _, field := range fields {
			l.resetField(field)
		}
		l.log(LogEvent{Kind: LogReset, Fields: fields})
	})
}

func (l *Lister) resetField(field Field) {
	stored := l.response[string(field)]
	switch field {
	case FieldPage:
		page, ok := asPositiveInt(stored)
		if !ok {
			page = l.options.Page
		}
		l.assignPage(page)
	case FieldLimit:
		limit, ok := asPositiveInt(stored)
		if !ok {
			limit = l.options.Limit
		}
		l.assignLimit(limit)
	case FieldSort:
		sort, ok := asString(stored)
		if !ok {
			sort = l.options.Sort
		}
		l.seedSort(sort)
	case FieldOrder:
		order, ok := asOrder(stored)
		if !ok {
			order = l.options.Order
		}
		l.assignOrder(order)
	case FieldSearch:
		search, ok := asString(stored)
		if !ok {
			search = l.options.Search
		}
		l.assignSearch(search)
	case FieldFilters:
		if filters, ok := stored.(map[string]any); ok {
			l.filters.replace(filters)
		} else {
			l.filters.replace(l.options.Filters)
		}
		l.trigger(FieldFilters)
	}
}

// selectFields expands an empty selection to every field and drops unknown
// names.
func (l *Lister) selectFields(fields []Field) []Field {
	if len(fields) == 0 {
		return Fields()
	}
	out := make([]Field, 0, len(fields))
	for _, field := range fields {
		if !field.Valid() {
			l.log(LogEvent{Kind: LogRejected, Field: field, Reason: "unknown field"})
			continue
		}
		if !slices.Contains(out, field) {
			out = append(out, field)
		}
	}
	return out
}

func (l *Lister) log(event LogEvent) {
	event.ListerID = l.id
	l.pending = append(l.pending, event)
}

// Parameters returns the committed parameters view.
func (l *Lister) Parameters() Parameters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return parametersOf(l.response)
}

// Response returns a deep copy of the query state, pass-through keys
// included.
func (l *Lister) Response() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneFilters(l.response)
}

// Hash returns the token of the committed parameters.
func (l *Lister) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notifier.hash
}

// Records returns the array stored under data, or an empty slice.
func (l *Lister) Records() []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return recordsOf(l.response["data"])
}

// IsEmpty reports whether there are no records.
func (l *Lister) IsEmpty() bool {
	return len(l.Records()) == 0
}

func (l *Lister) Total() int { return l.meta("total") }
func (l *Lister) From() int  { return l.meta("from") }
func (l *Lister) To() int    { return l.meta("to") }
func (l *Lister) Pages() int { return l.meta("pages") }

func (l *Lister) meta(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := asInteger(l.response[key])
	if !ok {
		return 0
	}
	return n
}

func parametersOf(state map[string]any) Parameters {
	var p Parameters
	p.Page, _ = asInteger(state[string(FieldPage)])
	p.Limit, _ = asInteger(state[string(FieldLimit)])
	p.Sort, _ = asString(state[string(FieldSort)])
	p.Order, _ = asOrder(state[string(FieldOrder)])
	p.Search, _ = asString(state[string(FieldSearch)])
	if filters, ok := state[string(FieldFilters)].(map[string]any); ok {
		p.Filters = cloneFilters(filters)
	}
	if p.Filters == nil {
		p.Filters = map[string]any{}
	}
	return p
}
