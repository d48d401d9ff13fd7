package activity

import (
	"strings"
	"time"
)

// ObjectType is the object type of every coordinator event.
const ObjectType = "lister"

const (
	VerbApplied    = "lister.applied"
	VerbIngested   = "lister.ingested"
	VerbSuppressed = "lister.suppressed"
)

// ListerEventInput describes a query state transition of one coordinator.
type ListerEventInput struct {
	ListerID   string
	Hash       string
	Page       int
	Limit      int
	Sort       string
	Order      string
	Search     string
	Filters    int
	Fields     []string
	ActorID    string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildAppliedEvent reports a hash change that reached the listener.
func BuildAppliedEvent(input ListerEventInput) Event {
	return buildListerEvent(VerbApplied, input)
}

// BuildIngestedEvent reports a server response that was merged into the state.
func BuildIngestedEvent(input ListerEventInput) Event {
	return buildListerEvent(VerbIngested, input)
}

// BuildSuppressedEvent reports a hash change that echoed the last ingested
// response and was therefore not delivered.
func BuildSuppressedEvent(input ListerEventInput) Event {
	return buildListerEvent(VerbSuppressed, input)
}

func buildListerEvent(verb string, input ListerEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["hash"] = input.Hash
	metadata["page"] = input.Page
	metadata["limit"] = input.Limit
	metadata["sort"] = input.Sort
	metadata["order"] = input.Order
	if input.Search != "" {
		metadata["search"] = input.Search
	}
	if input.Filters > 0 {
		metadata["filters"] = input.Filters
	}
	if len(input.Fields) > 0 {
		metadata["fields"] = append([]string{}, input.Fields...)
	}

	objectID := strings.TrimSpace(input.ListerID)
	if objectID == "" {
		objectID = ObjectType
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
