package lister

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-lister/pkg/activity"
)

func TestActivityEventsFollowNotifications(t *testing.T) {
	capture := &activity.CaptureHook{}
	l := New(Config{}, WithID("orders"), WithActivityHooks(activity.Hooks{capture}))

	if len(capture.Events()) != 0 {
		t.Fatalf("construction must not emit, got %v", capture.Verbs())
	}

	l.SetPage(2)
	l.ParseJSON(map[string]any{"page": 3, "filters": map[string]any{"status": "open"}})

	want := []string{activity.VerbApplied, activity.VerbIngested, activity.VerbSuppressed}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	events := capture.Events()
	for _, event := range events {
		if event.ObjectType != activity.ObjectType || event.ObjectID != "orders" {
			t.Fatalf("unexpected object %s/%s", event.ObjectType, event.ObjectID)
		}
		if event.Channel != activity.DefaultChannel {
			t.Fatalf("expected default channel, got %q", event.Channel)
		}
	}
	if events[0].Metadata["page"] != 2 {
		t.Fatalf("expected applied event for page 2, got %v", events[0].Metadata)
	}
	if events[2].Metadata["filters"] != 1 {
		t.Fatalf("expected suppressed event to count filters, got %v", events[2].Metadata)
	}
}

func TestActivityConfigDefaults(t *testing.T) {
	capture := &activity.CaptureHook{}
	l := New(Config{},
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityConfig(activity.Config{Enabled: true, Channel: "admin", ActorID: "user-1", TenantID: "acme"}),
	)
	l.SetLimit(50)

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Channel != "admin" || events[0].ActorID != "user-1" || events[0].TenantID != "acme" {
		t.Fatalf("expected configured defaults, got %+v", events[0])
	}
	if events[0].ObjectID != l.ID() {
		t.Fatalf("expected generated id %q, got %q", l.ID(), events[0].ObjectID)
	}
}

func TestActivityDisabled(t *testing.T) {
	capture := &activity.CaptureHook{}
	l := New(Config{},
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityConfig(activity.Config{Enabled: false}),
	)
	l.SetPage(4)

	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events when disabled, got %v", capture.Verbs())
	}
	if len(l.ActivityHooks()) != 1 {
		t.Fatalf("expected hooks to stay configured")
	}
}

func TestActivityHookFailureIsLogged(t *testing.T) {
	logs := &logRecorder{}
	boom := errors.New("sink offline")
	notified := 0
	l := New(Config{},
		WithLogger(logs),
		WithActivityHooks(activity.Hooks{activity.HookFunc(func(context.Context, activity.Event) error {
			return boom
		})}),
	)
	l.OnApply(func(Parameters, string) { notified++ })

	l.SetPage(2)

	if notified != 1 {
		t.Fatalf("hook failures must not block the subscriber, got %d calls", notified)
	}
	failures := logs.kinds(LogHookFailed)
	if len(failures) != 1 || !errors.Is(failures[0].Err, boom) || failures[0].Reason != activity.VerbApplied {
		t.Fatalf("expected logged hook failure, got %+v", failures)
	}
}
