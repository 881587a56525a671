package payments

import (
	"encoding/hex"
	"strconv"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

const (
	// EventTypeCreated is emitted when a payment settles.
	EventTypeCreated = "payment.created"
	// EventTypeStatusChanged is emitted when a payment's status machine moves
	// outside the create path (failed settlement, refund).
	EventTypeStatusChanged = "payment.status_changed"
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

func attributes(p *Payment) map[string]string {
	return map[string]string{
		"id":        hex.EncodeToString(p.ID[:]),
		"payer":     "0x" + hex.EncodeToString(p.Payer[:]),
		"recipient": "0x" + hex.EncodeToString(p.Recipient[:]),
		"amount":    p.Amount.String(),
		"currency":  p.Currency,
		"status":    p.Status.String(),
		"timestamp": strconv.FormatInt(p.Timestamp, 10),
	}
}

// CreatedEvent returns the structured payload for a settled payment.
func CreatedEvent(p *Payment) *types.Event {
	return &types.Event{Type: EventTypeCreated, Attributes: attributes(p)}
}

// StatusEvent returns the structured payload for a status transition.
func StatusEvent(p *Payment) *types.Event {
	return &types.Event{Type: EventTypeStatusChanged, Attributes: attributes(p)}
}
