package lister

import (
	"context"

	"github.com/goliatone/go-lister/pkg/activity"
)

// WithActivityHooks sends applied, ingested and suppressed events to hooks.
// Emission is enabled unless WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	hooks = hooks.Compact()
	return func(cfg *listerConfig) {
		cfg.activityHooks = hooks
	}
}

// WithActivityConfig overrides the emission defaults.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *listerConfig) {
		cfg.activityConfig = &config
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (l *Lister) ActivityHooks() activity.Hooks {
	return l.cfg.activityHooks.Compact()
}

func newActivityEmitter(cfg listerConfig) *activity.Emitter {
	config := activity.Config{Enabled: true}
	if cfg.activityConfig != nil {
		config = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, config)
}

func (l *Lister) activityInput(params Parameters, hash string) activity.ListerEventInput {
	return activity.ListerEventInput{
		ListerID: l.id,
		Hash:     hash,
		Page:     params.Page,
		Limit:    params.Limit,
		Sort:     params.Sort,
		Order:    string(params.Order),
		Search:   params.Search,
		Filters:  len(params.Filters),
	}
}

// emit delivers events outside the coordinator mutex. Hook failures are
// logged and never reach the caller.
func (l *Lister) emit(events []activity.Event) {
	if !l.emitter.Enabled() {
		return
	}
	for _, event := range events {
		if err := l.emitter.Emit(context.Background(), event); err != nil {
			l.cfg.logger.LogEvent(LogEvent{
				Kind:     LogHookFailed,
				ListerID: l.id,
				Reason:   event.Verb,
				Err:      err,
			})
		}
	}
}
