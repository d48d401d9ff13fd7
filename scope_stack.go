package lister

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-lister/layering"
)

// Scope is a named precedence bucket such as system, view or user. Higher
// priorities win.
type Scope struct {
	Name     string         `json:"name"`
	Label    string         `json:"label,omitempty"`
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScopeOption decorates a Scope.
type ScopeOption func(*Scope)

func WithScopeLabel(label string) ScopeOption {
	return func(s *Scope) {
		s.Label = label
	}
}

// WithScopeMetadata attaches a copy of metadata to the scope.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(s *Scope) {
		s.Metadata = cloneMetadata(metadata)
	}
}

// NewScope builds a scope. Names and priorities are validated by NewStack.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	scope := Scope{Name: name, Priority: priority}
	for _, opt := range opts {
		if opt != nil {
			opt(&scope)
		}
	}
	return scope
}

func (s Scope) clone() Scope {
	s.Metadata = cloneMetadata(s.Metadata)
	return s
}

// Layer is the partial Config contributed by one scope.
type Layer struct {
	Scope  Scope
	Config Config
}

// NewLayer detaches cfg from the caller.
func NewLayer(scope Scope, cfg Config) Layer {
	return Layer{Scope: scope.clone(), Config: layering.Clone(cfg)}
}

var (
	ErrScopeNameRequired  = errors.New("lister: scope name must be provided")
	ErrDuplicateScopeName = errors.New("lister: scope names must be unique")
	ErrPriorityOrder      = errors.New("lister: scope priorities must be strictly ordered")
	errEmptyStack         = errors.New("lister: scope stack has no layers")
)

// Stack holds layers ordered from strongest to weakest.
type Stack struct {
	layers []Layer
}

// NewStack validates layers and orders them by descending priority.
func NewStack(layers ...Layer) (*Stack, error) {
	seen := make(map[string]struct{}, len(layers))
	ordered := make([]Layer, 0, len(layers))
	for _, layer := range layers {
		name := strings.TrimSpace(layer.Scope.Name)
		if name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, name)
		}
		seen[name] = struct{}{}
		ordered = append(ordered, NewLayer(layer.Scope, layer.Config))
	}

	slices.SortStableFunc(ordered, func(a, b Layer) int {
		return b.Scope.Priority - a.Scope.Priority
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Scope.Priority == ordered[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %s and %s share priority %d",
				ErrPriorityOrder, ordered[i-1].Scope.Name, ordered[i].Scope.Name, ordered[i].Scope.Priority)
		}
	}
	return &Stack{layers: ordered}, nil
}

// Layers returns detached copies, strongest first.
func (s *Stack) Layers() []Layer {
	if s == nil {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i, layer := range s.layers {
		out[i] = NewLayer(layer.Scope, layer.Config)
	}
	return out
}

func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge folds the layers into one Config. Scalars come from the strongest
// layer that sets them, slices from the strongest non-nil one, filters and
// filter rules merge key by key. Triggers are taken whole from the strongest
// layer that sets them.
func (s *Stack) Merge() (Config, error) {
	if s.Len() == 0 {
		return Config{}, errEmptyStack
	}
	configs := make([]Config, len(s.layers))
	for i, layer := range s.layers {
		configs[i] = layer.Config
	}
	merged := layering.Merge(configs...)
	merged.Triggers = Triggers{}
	for _, cfg := range configs {
		if !cfg.Triggers.isZero() {
			merged.Triggers = layering.Clone(cfg.Triggers)
			break
		}
	}
	return merged, nil
}

// Lister merges the stack and builds a validated coordinator from it.
func (s *Stack) Lister(opts ...Option) (*Lister, error) {
	cfg, err := s.Merge()
	if err != nil {
		return nil, err
	}
	return Load(cfg, opts...)
}

// Trace reports, strongest first, what every layer holds for path. Paths are
// field names, valid_limits, valid_sorts, triggers, or filters.<key> and
// filter_rules.<key> for single entries.
func (s *Stack) Trace(path string) Trace {
	trace := Trace{Path: path}
	if s == nil {
		return trace
	}
	for _, layer := range s.layers {
		value, found := lookupConfig(layer.Config, path)
		trace.Layers = append(trace.Layers, Provenance{
			Scope: layer.Scope.clone(),
			Value: value,
			Found: found,
		})
	}
	return trace
}

func lookupConfig(cfg Config, path string) (any, bool) {
	if key, ok := strings.CutPrefix(path, "filters."); ok {
		value, found := cfg.Filters[key]
		return layering.CloneJSON(value), found && value != nil
	}
	if key, ok := strings.CutPrefix(path, "filter_rules."); ok {
		rule, found := cfg.FilterRules[key]
		return rule, found && rule != ""
	}
	switch path {
	case string(FieldPage):
		return cfg.Page, cfg.Page != 0
	case string(FieldLimit):
		return cfg.Limit, cfg.Limit != 0
	case "valid_limits":
		return slices.Clone(cfg.ValidLimits), cfg.ValidLimits != nil
	case string(FieldSort):
		return cfg.Sort, cfg.Sort != ""
	case "valid_sorts":
		return slices.Clone(cfg.ValidSorts), cfg.ValidSorts != nil
	case string(FieldOrder):
		return cfg.Order, cfg.Order != ""
	case string(FieldSearch):
		return cfg.Search, cfg.Search != ""
	case string(FieldFilters):
		return cloneFilters(cfg.Filters), len(cfg.Filters) > 0
	case "triggers":
		return layering.Clone(cfg.Triggers), !cfg.Triggers.isZero()
	}
	return nil, false
}

func cloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
