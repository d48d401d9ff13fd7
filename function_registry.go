package lister

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownFunction is returned when a rule calls a function nobody registered.
var ErrUnknownFunction = errors.New("lister: unknown rule function")

// Function is a helper callable from filter rules.
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule helpers. Names are case-insensitive.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]namedFunction
}

type namedFunction struct {
	name string
	fn   Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]namedFunction{}}
}

// Register adds fn under name. Names are unique.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return errors.New("lister: rule function name must not be empty")
	case fn == nil:
		return fmt.Errorf("lister: rule function %q is nil", name)
	}

	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]namedFunction{}
	}
	if _, taken := r.functions[key]; taken {
		return fmt.Errorf("lister: rule function %q already registered", name)
	}
	r.functions[key] = namedFunction{name: name, fn: fn}
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// Call runs the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	var fn Function
	if r != nil {
		r.mu.RLock()
		fn = r.functions[strings.ToLower(name)].fn
		r.mu.RUnlock()
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names lists registered names, as registered, in lexical order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	slices.Sort(names)
	return names
}

// Clone copies the registry so later registrations do not leak between
// coordinators.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

// bind returns the registry functions as plain Go closures keyed by name,
// plus the generic call(name, args...) entry point.
func (r *FunctionRegistry) bind() map[string]any {
	out := map[string]any{
		"call": func(name string, args ...any) (any, error) {
			return r.Call(name, args...)
		},
	}
	for _, name := range r.Names() {
		fn := name
		out[fn] = func(args ...any) (any, error) {
			return r.Call(fn, args...)
		}
	}
	return out
}

// WithFunctionRegistry makes registry's helpers available to filter rules.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *listerConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers a single rule helper. Registration errors are
// kept and reported by Load.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *listerConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil {
			cfg.errs = append(cfg.errs, err)
		}
	}
}
