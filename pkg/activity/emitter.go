package activity

import (
	"context"
	"strings"
)

// DefaultChannel tags events emitted without an explicit channel.
const DefaultChannel = "lister"

// Config carries emission defaults, usually loaded with the rest of the
// application configuration.
type Config struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Channel  string `json:"channel,omitempty" mapstructure:"channel"`
	ActorID  string `json:"actor_id,omitempty" mapstructure:"actor_id"`
	TenantID string `json:"tenant_id,omitempty" mapstructure:"tenant_id"`
}

// Emitter delivers events to hooks after filling in configured defaults.
type Emitter struct {
	hooks    Hooks
	enabled  bool
	channel  string
	actorID  string
	tenantID string
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	hooks = hooks.Compact()
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &Emitter{
		hooks:    hooks,
		enabled:  cfg.Enabled && hooks.Enabled(),
		channel:  channel,
		actorID:  strings.TrimSpace(cfg.ActorID),
		tenantID: strings.TrimSpace(cfg.TenantID),
	}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit fills in channel, actor and tenant when the event leaves them empty.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.tenantID
	}
	return e.hooks.Notify(ctx, event)
}
