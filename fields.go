package lister

import (
	"errors"
	"slices"
	"strings"
)

// Page returns the page controller value.
func (l *Lister) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// SetPage accepts positive integers. Any other value is ignored.
func (l *Lister) SetPage(page int) {
	l.update(func() { l.assignPage(page) })
}

func (l *Lister) assignPage(page int) {
	if page < 1 {
		l.reject(FieldPage, page, "page must be a positive integer", "")
	} else {
		l.page = page
	}
	l.trigger(FieldPage)
}

// Limit returns the limit controller value.
func (l *Lister) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// SetLimit accepts positive integers listed in ValidLimits, or any positive
// integer when the allow-list is empty. The configured default is always
// accepted.
func (l *Lister) SetLimit(limit int) {
	l.update(func() { l.assignLimit(limit) })
}

func (l *Lister) assignLimit(limit int) {
	switch {
	case limit < 1:
		l.reject(FieldLimit, limit, "limit must be a positive integer", "")
	case !l.limitAllowed(limit):
		l.reject(FieldLimit, limit, "limit is not in the allow-list", "")
	default:
		l.limit = limit
	}
	l.trigger(FieldLimit)
}

func (l *Lister) limitAllowed(limit int) bool {
	return len(l.options.ValidLimits) == 0 ||
		limit == l.options.Limit ||
		slices.Contains(l.options.ValidLimits, limit)
}

// ValidLimits returns a copy of the limit allow-list.
func (l *Lister) ValidLimits() []int {
	return slices.Clone(l.options.ValidLimits)
}

// Sort returns the sort controller value.
func (l *Lister) Sort() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sort
}

// SetSort selects the sort column. Selecting the active column flips the
// order; selecting another one resets the order to asc.
func (l *Lister) SetSort(sort string) {
	l.update(func() {
		if l.acceptSort(sort) {
			if sort == l.sort {
				l.order = l.order.Toggle()
			} else {
				l.sort = sort
				l.order = OrderAsc
			}
		}
		l.trigger(FieldSort)
		l.trigger(FieldOrder)
	})
}

// seedSort assigns the sort column without touching the order. Reset and
// ingestion use it.
func (l *Lister) seedSort(sort string) {
	if l.acceptSort(sort) {
		l.sort = sort
	}
	l.trigger(FieldSort)
}

func (l *Lister) acceptSort(sort string) bool {
	if strings.TrimSpace(sort) == "" {
		l.reject(FieldSort, sort, "sort must not be empty", "")
		return false
	}
	if !l.sortAllowed(sort) {
		suggestion, _ := l.suggestSort(sort)
		l.reject(FieldSort, sort, "sort is not in the allow-list", suggestion)
		return false
	}
	return true
}

func (l *Lister) sortAllowed(sort string) bool {
	return len(l.options.ValidSorts) == 0 ||
		sort == l.options.Sort ||
		slices.Contains(l.options.ValidSorts, sort)
}

// ValidSorts returns a copy of the sort allow-list.
func (l *Lister) ValidSorts() []string {
	return slices.Clone(l.options.ValidSorts)
}

// Order returns the order controller value.
func (l *Lister) Order() Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order
}

// SetOrder accepts asc or desc.
func (l *Lister) SetOrder(order Order) {
	l.update(func() { l.assignOrder(order) })
}

func (l *Lister) assignOrder(order Order) {
	if order.Valid() {
		l.order = order
	} else {
		l.reject(FieldOrder, string(order), "order must be asc or desc", "")
	}
	l.trigger(FieldOrder)
}

// Search returns the search controller value.
func (l *Lister) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

// SetSearch stores any string, the empty one included.
func (l *Lister) SetSearch(search string) {
	l.update(func() { l.assignSearch(search) })
}

func (l *Lister) assignSearch(search string) {
	l.search = search
	l.trigger(FieldSearch)
}

// ClearSearch empties the search and commits only that field.
func (l *Lister) ClearSearch() {
	l.update(func() {
		l.assignSearch("")
		l.apply([]Field{FieldSearch})
	})
}

// Filters returns a deep copy of the filter controller.
func (l *Lister) Filters() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters.snapshot()
}

// SetFilter stores value under key. A nil value removes the key. Keys with
// a filter rule only accept values the rule allows.
func (l *Lister) SetFilter(key string, value any) {
	l.update(func() {
		defer l.trigger(FieldFilters)
		if key == "" {
			l.reject(FieldFilters, value, "filter key must not be empty", "")
			return
		}
		if value == nil {
			l.filters.remove(key)
			return
		}
		value = normalizeFilterValue(value)
		if l.allowFilter(key, value) {
			l.filters.set(key, value)
		}
	})
}

// RemoveFilter deletes key when present.
func (l *Lister) RemoveFilter(key string) {
	l.update(func() {
		l.filters.remove(key)
		l.trigger(FieldFilters)
	})
}

// ToggleFilter treats the value under key as a list and adds value when it
// is missing or removes it when present. An empty list removes the key.
// Falsy values (nil, false, "", 0) do nothing.
func (l *Lister) ToggleFilter(key string, value any) {
	l.update(func() {
		defer l.trigger(FieldFilters)
		if isFalsy(value) {
			return
		}
		next := l.filters.toggled(key, value)
		if next == nil {
			l.filters.remove(key)
			return
		}
		if l.allowFilter(key, next) {
			l.filters.values[key] = next
		}
	})
}

// ClearFilters removes every filter.
func (l *Lister) ClearFilters() {
	l.update(func() {
		l.filters.replace(nil)
		l.trigger(FieldFilters)
	})
}

// FilterValue returns a copy of the value stored under key.
func (l *Lister) FilterValue(key string) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters.value(key)
}

// FilterContains reports whether the list under key contains value.
func (l *Lister) FilterContains(key string, value any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters.contains(key, value)
}

// allowFilter runs the filter rule for key, if any.
func (l *Lister) allowFilter(key string, value any) bool {
	if !l.guards.guarded(key) {
		return true
	}
	allowed, err := l.guards.allow(key, value, l.filters.snapshot(), parametersOf(l.response))
	if err != nil {
		var evalErr *EvaluationError
		reason := "filter rule failed"
		if errors.As(err, &evalErr) && evalErr.Engine != "" {
			reason = evalErr.Engine + " filter rule failed"
		}
		l.log(LogEvent{Kind: LogGuardFailed, Field: FieldFilters, Value: key, Reason: reason, Err: err})
		return false
	}
	if !allowed {
		l.reject(FieldFilters, value, "filter rule for "+key+" rejected the value", "")
	}
	return allowed
}

func (l *Lister) reject(field Field, value any, reason, suggestion string) {
	l.log(LogEvent{
		Kind:       LogRejected,
		Field:      field,
		Value:      value,
		Reason:     reason,
		Suggestion: suggestion,
	})
}
