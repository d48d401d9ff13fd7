// Package promsink counts coordinator activity events in Prometheus.
package promsink

import (
	"context"

	"github.com/goliatone/go-lister/pkg/activity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus hook.
type Config struct {
	// Namespace is the metrics namespace (default: "lister").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Registry receives the collectors.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus hook.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the registerer. Use a fresh prometheus.NewRegistry in
// tests to avoid duplicate registration.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "lister",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Hook is an activity.ActivityHook that records every event it receives.
type Hook struct {
	events  *prometheus.CounterVec
	filters *prometheus.GaugeVec
}

// New registers the collectors and returns the hook.
func New(opts ...Option) *Hook {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Hook{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of coordinator activity events",
			ConstLabels: config.ConstLabels,
		}, []string{"verb", "channel"}),

		filters: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "applied_filters",
			Help:        "Number of filters in the most recently applied query",
			ConstLabels: config.ConstLabels,
		}, []string{"channel"}),
	}
}

func (h *Hook) Notify(_ context.Context, event activity.Event) error {
	if h == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if !event.Routable() {
		return nil
	}
	h.events.WithLabelValues(event.Verb, event.Channel).Inc()
	if event.Verb == activity.VerbApplied {
		count, _ := event.Metadata["filters"].(int)
		h.filters.WithLabelValues(event.Channel).Set(float64(count))
	}
	return nil
}
