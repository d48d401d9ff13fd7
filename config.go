package lister

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	DefaultSort  = "_id"
	DefaultOrder = OrderAsc
)

// ErrInvalidConfig wraps every Config.Validate failure.
var ErrInvalidConfig = errors.New("lister: invalid config")

// Config is the caller supplied configuration. Zero values fall back to the
// defaults when resolved.
type Config struct {
	Page        int               `json:"page,omitempty" mapstructure:"page"`
	Limit       int               `json:"limit,omitempty" mapstructure:"limit"`
	ValidLimits []int             `json:"valid_limits,omitempty" mapstructure:"valid_limits"`
	Sort        string            `json:"sort,omitempty" mapstructure:"sort"`
	ValidSorts  []string          `json:"valid_sorts,omitempty" mapstructure:"valid_sorts"`
	Order       Order             `json:"order,omitempty" mapstructure:"order"`
	Search      string            `json:"search,omitempty" mapstructure:"search"`
	Filters     map[string]any    `json:"filters,omitempty" mapstructure:"filters"`
	Triggers    Triggers          `json:"triggers,omitempty" mapstructure:"triggers"`
	FilterRules map[string]string `json:"filter_rules,omitempty" mapstructure:"filter_rules"`
}

// Triggers selects which fields write into the query state as soon as they
// change. The zero value selects page, limit, sort and order.
type Triggers struct {
	All    bool    `json:"all,omitempty" mapstructure:"all"`
	Fields []Field `json:"fields,omitempty" mapstructure:"fields"`
}

// AllTriggers auto-applies every field.
func AllTriggers() Triggers {
	return Triggers{All: true}
}

// TriggerOn auto-applies exactly fields. Calling it without arguments
// disables auto-apply entirely.
func TriggerOn(fields ...Field) Triggers {
	return Triggers{Fields: append([]Field{}, fields...)}
}

func (t Triggers) isZero() bool {
	return !t.All && t.Fields == nil
}

func (t Triggers) resolve() map[Field]struct{} {
	fields := defaultTriggers
	switch {
	case t.All:
		fields = allFields
	case t.Fields != nil:
		fields = t.Fields
	}
	out := make(map[Field]struct{}, len(fields))
	for _, field := range fields {
		out[field] = struct{}{}
	}
	return out
}

// Validate reports configuration entries that can never be honoured. The
// coordinator itself never rejects a Config; Load uses Validate for callers
// that want early feedback.
func (c Config) Validate() error {
	var errs []error
	if c.Page < 0 {
		errs = append(errs, fmt.Errorf("page %d must be positive", c.Page))
	}
	if c.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit %d must be positive", c.Limit))
	}
	for _, limit := range c.ValidLimits {
		if limit < 1 {
			errs = append(errs, fmt.Errorf("valid limit %d must be positive", limit))
		}
	}
	for _, sort := range c.ValidSorts {
		if strings.TrimSpace(sort) == "" {
			errs = append(errs, errors.New("valid sorts must not contain empty names"))
			break
		}
	}
	if c.Order != "" && !c.Order.Valid() {
		errs = append(errs, fmt.Errorf("order %q must be asc or desc", c.Order))
	}
	for _, field := range c.Triggers.Fields {
		if !field.Valid() {
			errs = append(errs, fmt.Errorf("unknown trigger field %q", field))
		}
	}
	for key, rule := range c.FilterRules {
		if strings.TrimSpace(rule) == "" {
			errs = append(errs, fmt.Errorf("filter rule for %q must not be empty", key))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Options is a fully defaulted, immutable Config.
type Options struct {
	Page        int
	Limit       int
	ValidLimits []int
	Sort        string
	ValidSorts  []string
	Order       Order
	Search      string
	Filters     map[string]any
	FilterRules map[string]string

	triggers map[Field]struct{}
}

// Resolve applies defaults to cfg. It never fails: unusable values are
// replaced by their default.
func Resolve(cfg Config) Options {
	opts := Options{
		Page:        DefaultPage,
		Limit:       DefaultLimit,
		ValidLimits: slices.Clone(cfg.ValidLimits),
		Sort:        DefaultSort,
		ValidSorts:  slices.Clone(cfg.ValidSorts),
		Order:       DefaultOrder,
		Search:      cfg.Search,
		Filters:     normalizeFilters(cfg.Filters),
		triggers:    cfg.Triggers.resolve(),
	}
	if cfg.Page > 0 {
		opts.Page = cfg.Page
	}
	if cfg.Limit > 0 {
		opts.Limit = cfg.Limit
	}
	if cfg.Sort != "" {
		opts.Sort = cfg.Sort
	}
	if cfg.Order.Valid() {
		opts.Order = cfg.Order
	}
	if len(cfg.FilterRules) > 0 {
		opts.FilterRules = make(map[string]string, len(cfg.FilterRules))
		for key, rule := range cfg.FilterRules {
			opts.FilterRules[key] = rule
		}
	}
	return opts
}

// IsAuto reports whether field writes into the query state on change.
func (o Options) IsAuto(field Field) bool {
	_, ok := o.triggers[field]
	return ok
}

// Triggers lists the auto-applied fields in canonical order.
func (o Options) Triggers() []Field {
	out := make([]Field, 0, len(o.triggers))
	for _, field := range allFields {
		if o.IsAuto(field) {
			out = append(out, field)
		}
	}
	return out
}

// DefaultFilters returns a detached copy of the default filters.
func (o Options) DefaultFilters() map[string]any {
	filters := cloneFilters(o.Filters)
	if filters == nil {
		return map[string]any{}
	}
	return filters
}
