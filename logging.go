package lister

import (
	"context"
	"log/slog"
)

// LogKind classifies a coordinator log event.
type LogKind string

const (
	LogRejected     LogKind = "rejected"
	LogApplied      LogKind = "applied"
	LogReset        LogKind = "reset"
	LogIngested     LogKind = "ingested"
	LogDecodeFailed LogKind = "decode_failed"
	LogNotified     LogKind = "notified"
	LogSuppressed   LogKind = "suppressed"
	LogGuardFailed  LogKind = "guard_failed"
	LogHookFailed   LogKind = "hook_failed"
)

// LogEvent describes something the coordinator did or refused to do.
type LogEvent struct {
	Kind       LogKind
	ListerID   string
	Field      Field
	Fields     []Field
	Value      any
	Hash       string
	Reason     string
	Suggestion string
	Err        error
}

// Logger records coordinator events.
type Logger interface {
	LogEvent(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEvent implements Logger.
func (f LoggerFunc) LogEvent(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvent(LogEvent) {}

// WithLogger attaches a logger to the coordinator.
func WithLogger(logger Logger) Option {
	return func(cfg *listerConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// NewSlogLogger forwards events to logger. Rejections, suppressions and
// guard failures log at debug, failures at warn and everything else at info.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) LogEvent(event LogEvent) {
	level := slog.LevelInfo
	switch event.Kind {
	case LogRejected, LogSuppressed, LogGuardFailed:
		level = slog.LevelDebug
	case LogDecodeFailed, LogHookFailed:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{slog.String("kind", string(event.Kind))}
	if event.ListerID != "" {
		attrs = append(attrs, slog.String("lister_id", event.ListerID))
	}
	if event.Field != "" {
		attrs = append(attrs, slog.String("field", string(event.Field)))
	}
	if len(event.Fields) > 0 {
		names := make([]string, len(event.Fields))
		for i, field := range event.Fields {
			names[i] = string(field)
		}
		attrs = append(attrs, slog.Any("fields", names))
	}
	if event.Value != nil {
		attrs = append(attrs, slog.Any("value", event.Value))
	}
	if event.Hash != "" {
		attrs = append(attrs, slog.String("hash", event.Hash))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	if event.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", event.Suggestion))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	l.logger.LogAttrs(context.Background(), level, "lister "+string(event.Kind), attrs...)
}
