package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsAndDetaches(t *testing.T) {
	meta := map[string]any{"hash": "abc"}
	recipients := []string{" ops "}
	evt := Event{
		Verb:       " lister.applied ",
		ActorID:    " actor ",
		TenantID:   " tenant ",
		ObjectType: " lister ",
		ObjectID:   " 42 ",
		Channel:    " lister ",
		Recipients: recipients,
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "lister.applied" || got.ObjectType != "lister" || got.ObjectID != "42" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "lister" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be stamped")
	}
	got.Metadata["hash"] = "changed"
	if meta["hash"] != "abc" {
		t.Fatalf("expected source metadata untouched, got %v", meta)
	}
	got.Recipients[0] = "changed"
	if recipients[0] != " ops " {
		t.Fatalf("expected source recipients untouched, got %v", recipients)
	}
}

func TestHooksNotifyDropsUnroutableEvents(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{Verb: "lister.applied"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n := len(capture.Events()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestHooksNotifyFanOutJoinsErrors(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	capture := &CaptureHook{}
	var sawContext bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			sawContext = ctx != nil
			return errFirst
		}),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return errSecond }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbApplied, ObjectType: ObjectType, ObjectID: "1"})
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !sawContext {
		t.Fatalf("expected a non-nil context")
	}
	if n := len(capture.Events()); n != 1 {
		t.Fatalf("expected hooks after a failure to run, got %d events", n)
	}
}

func TestHooksCompact(t *testing.T) {
	if got := (Hooks{nil, nil}).Compact(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	capture := &CaptureHook{}
	if got := (Hooks{nil, capture}).Compact(); len(got) != 1 {
		t.Fatalf("expected one hook, got %d", len(got))
	}
}

func TestEmitterDisabled(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{})
	if emitter.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := emitter.Emit(context.Background(), Event{Verb: VerbApplied, ObjectType: ObjectType, ObjectID: "1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if n := len(capture.Events()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
	if NewEmitter(nil, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
}

func TestEmitterAppliesDefaults(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, ActorID: "svc", TenantID: "acme"})

	if err := emitter.Emit(context.Background(), Event{Verb: VerbApplied, ObjectType: ObjectType, ObjectID: "1"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel || events[0].ActorID != "svc" || events[0].TenantID != "acme" {
		t.Fatalf("expected defaults applied, got %+v", events[0])
	}
}

func TestEmitterKeepsExplicitValues(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "grid", ActorID: "svc"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbIngested,
		ObjectType: ObjectType,
		ObjectID:   "1",
		Channel:    "custom",
		ActorID:    "user-7",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events()[0]
	if got.Channel != "custom" || got.ActorID != "user-7" {
		t.Fatalf("expected explicit values kept, got %+v", got)
	}
	if !got.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at kept, got %v", got.OccurredAt)
	}
}

func TestCaptureHookVerbsAndReset(t *testing.T) {
	capture := &CaptureHook{Err: errors.New("sink down")}
	if err := capture.Notify(context.Background(), Event{Verb: VerbApplied}); err == nil {
		t.Fatalf("expected configured error")
	}
	_ = capture.Notify(context.Background(), Event{Verb: VerbSuppressed})

	verbs := capture.Verbs()
	if len(verbs) != 2 || verbs[0] != VerbApplied || verbs[1] != VerbSuppressed {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	capture.Reset()
	if n := len(capture.Events()); n != 0 {
		t.Fatalf("expected reset to clear events, got %d", n)
	}
}
