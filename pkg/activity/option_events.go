package activity

import (
	"strings"
	"time"
)

// OptionEventInput describes the common fields for option lifecycle events.
type OptionEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	Section    string
	Name       string
	OldValue   any
	NewValue   any
	OccurredAt time.Time
}

// BuildOptionChangedEvent constructs a normalized event for a value mutation.
func BuildOptionChangedEvent(input OptionEventInput) Event {
	return buildOptionEvent("option.changed", "option", input)
}

// BuildOptionResetEvent constructs a normalized event for a reset-to-default.
func BuildOptionResetEvent(input OptionEventInput) Event {
	return buildOptionEvent("option.reset", "option", input)
}

// BuildSetRestoredEvent constructs a normalized event for a persisted-set
// restore.
func BuildSetRestoredEvent(input OptionEventInput) Event {
	return buildOptionEvent("set.restored", "option.set", input)
}

func buildOptionEvent(verb, objectType string, input OptionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Section != "" {
		metadata = ensureMetadata(metadata)
		metadata["section"] = input.Section
	}
	if input.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["name"] = input.Name
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.Section + "/" + input.Name)
	if objectID == "/" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
