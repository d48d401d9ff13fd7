package lister

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLoggerLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.LogEvent(LogEvent{Kind: LogRejected, ListerID: "orders", Field: FieldSort, Value: "nmae", Reason: "sort is not in the allow-list", Suggestion: "name"})
	logger.LogEvent(LogEvent{Kind: LogDecodeFailed, Err: errors.New("bad token")})
	logger.LogEvent(LogEvent{Kind: LogApplied, Fields: []Field{FieldPage, FieldSearch}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 records, got %d: %s", len(lines), buf.String())
	}

	var records []map[string]any
	for _, line := range lines {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		records = append(records, record)
	}

	cases := []struct {
		level string
		msg   string
		attrs map[string]any
	}{
		{level: "DEBUG", msg: "lister rejected", attrs: map[string]any{
			"lister_id": "orders", "field": "sort", "value": "nmae", "suggestion": "name",
		}},
		{level: "WARN", msg: "lister decode_failed", attrs: map[string]any{"error": "bad token"}},
		{level: "INFO", msg: "lister applied", attrs: map[string]any{"kind": "applied"}},
	}
	for i, tc := range cases {
		record := records[i]
		if record["level"] != tc.level || record["msg"] != tc.msg {
			t.Fatalf("record %d: unexpected level/msg %v", i, record)
		}
		for key, want := range tc.attrs {
			if record[key] != want {
				t.Fatalf("record %d: expected %s=%v, got %v", i, key, want, record[key])
			}
		}
	}
	if fields, _ := records[2]["fields"].([]any); len(fields) != 2 || fields[1] != "search" {
		t.Fatalf("expected field names, got %v", records[2]["fields"])
	}
}

func TestCoordinatorLogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	l := New(Config{}, WithID("orders"), WithLogger(NewSlogLogger(logger)))

	l.SetPage(0)
	l.SetPage(2)

	out := buf.String()
	if strings.Contains(out, `"kind":"rejected"`) {
		t.Fatalf("debug records must be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"kind":"notified"`) || !strings.Contains(out, `"lister_id":"orders"`) {
		t.Fatalf("expected notified record with the lister id: %s", out)
	}
}

func TestLoggerFuncAndNilLogger(t *testing.T) {
	var kinds []LogKind
	l := New(Config{}, WithLogger(LoggerFunc(func(event LogEvent) { kinds = append(kinds, event.Kind) })))
	l.SetPage(-1)
	if len(kinds) == 0 || kinds[0] != LogRejected {
		t.Fatalf("expected rejection first, got %v", kinds)
	}

	quiet := New(Config{}, WithLogger(nil))
	quiet.SetPage(-1)
	LoggerFunc(nil).LogEvent(LogEvent{Kind: LogApplied})
}
