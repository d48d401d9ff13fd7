package lister

import (
	"errors"
	"reflect"
	"testing"
)

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	count := func(args ...any) (any, error) { return len(args), nil }

	if err := registry.Register("countArgs", count); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("COUNTARGS", count); err == nil {
		t.Fatalf("expected case-insensitive duplicate to fail")
	}
	if err := registry.Register(" ", count); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := registry.Register("nilfn", nil); err == nil {
		t.Fatalf("expected nil function to fail")
	}

	if !registry.Has("countargs") {
		t.Fatalf("lookups ignore case")
	}
	got, err := registry.Call("COUNTARGS", 1, 2, 3)
	if err != nil || got != 3 {
		t.Fatalf("expected 3, got %v %v", got, err)
	}
	if _, err := registry.Call("missing"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
	if names := registry.Names(); !reflect.DeepEqual(names, []string{"countArgs"}) {
		t.Fatalf("expected registered spelling, got %v", names)
	}
}

func TestFunctionRegistryClone(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }
	_ = registry.Register("a", noop)

	clone := registry.Clone()
	_ = registry.Register("b", noop)

	if clone.Has("b") {
		t.Fatalf("clone must not see later registrations")
	}
	if !clone.Has("a") {
		t.Fatalf("clone lost existing functions")
	}

	var nilRegistry *FunctionRegistry
	if nilRegistry.Has("a") || nilRegistry.Names() != nil || nilRegistry.Clone() != nil {
		t.Fatalf("nil registry must be empty")
	}
	if _, err := nilRegistry.Call("a"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestWithFunctionRegistryIsolatesCoordinator(t *testing.T) {
	registry := NewFunctionRegistry()
	_ = registry.Register("allowed", func(args ...any) (any, error) { return args[0] == "ok", nil })

	l, err := Load(Config{FilterRules: map[string]string{"status": `allowed(value)`}}, WithFunctionRegistry(registry))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_ = registry.Register("late", func(...any) (any, error) { return true, nil })

	l.SetFilter("status", "ok")
	l.SetFilter("status", "nope")
	if l.Filters()["status"] != "ok" {
		t.Fatalf("expected registry function to guard status, got %v", l.Filters())
	}
}
