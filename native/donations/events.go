package donations

import (
	"encoding/hex"
	"strconv"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

// EventTypeCreated is emitted when a donation settles.
const EventTypeCreated = "donation.created"

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

// CreatedEvent returns the structured payload for a settled donation.
func CreatedEvent(d *Donation) *types.Event {
	return &types.Event{
		Type: EventTypeCreated,
		Attributes: map[string]string{
			"id":        hex.EncodeToString(d.ID[:]),
			"donor":     "0x" + hex.EncodeToString(d.Donor[:]),
			"recipient": "0x" + hex.EncodeToString(d.Recipient[:]),
			"amount":    d.Amount.String(),
			"currency":  d.Currency,
			"timestamp": strconv.FormatInt(d.Timestamp, 10),
		},
	}
}
