package blink

import (
	"encoding/hex"
	"strconv"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

const (
	// EventTypeCreated is emitted when a blink is created.
	EventTypeCreated = "blink.created"
	// EventTypeUpdated is emitted when a blink's mutable fields change.
	EventTypeUpdated = "blink.updated"
	// EventTypeDeleted is emitted when a blink is removed.
	EventTypeDeleted = "blink.deleted"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func attributes(b *Blink) map[string]string {
	return map[string]string{
		"id":        hex.EncodeToString(b.ID[:]),
		"owner":     "0x" + hex.EncodeToString(b.Owner[:]),
		"name":      b.Name,
		"type":      b.Type.String(),
		"updatedAt": strconv.FormatInt(b.UpdatedAt, 10),
	}
}

// CreatedEvent returns the structured payload for blink creation.
func CreatedEvent(b *Blink) *types.Event {
	return &types.Event{Type: EventTypeCreated, Attributes: attributes(b)}
}

// UpdatedEvent returns the structured payload for blink mutation.
func UpdatedEvent(b *Blink) *types.Event {
	return &types.Event{Type: EventTypeUpdated, Attributes: attributes(b)}
}

// DeletedEvent returns the structured payload for blink removal.
func DeletedEvent(b *Blink) *types.Event {
	return &types.Event{Type: EventTypeDeleted, Attributes: attributes(b)}
}
