package lister

import (
	"strings"

	"github.com/goliatone/go-lister/pkg/activity"
)

// Option customizes a coordinator at construction time.
type Option func(*listerConfig)

type listerConfig struct {
	id             string
	logger         Logger
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
	ruleArgs       map[string]any
	activityHooks  activity.Hooks
	activityConfig *activity.Config
	errs           []error
}

func newListerConfig(opts []Option) listerConfig {
	cfg := listerConfig{logger: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithID fixes the coordinator identifier used in logs and activity events.
// A random UUID is generated otherwise.
func WithID(id string) Option {
	return func(cfg *listerConfig) {
		cfg.id = strings.TrimSpace(id)
	}
}
