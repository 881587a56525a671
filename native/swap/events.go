package swap

import (
	"encoding/hex"
	"strconv"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

const (
	// EventTypeCreated is emitted when a swap intent is recorded.
	EventTypeCreated = "swap.created"
	// EventTypeExecuted is emitted when both settlement legs clear.
	EventTypeExecuted = "swap.executed"
	// EventTypeLegFailed is emitted when leg A cleared but leg B failed,
	// flagging the swap for reconciliation.
	EventTypeLegFailed = "swap.leg_failed"
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

func attributes(s *Swap) map[string]string {
	attrs := map[string]string{
		"id":      hex.EncodeToString(s.ID[:]),
		"owner":   "0x" + hex.EncodeToString(s.Owner[:]),
		"tokenA":  s.TokenA,
		"tokenB":  s.TokenB,
		"amountA": strconv.FormatUint(s.AmountA, 10),
		"amountB": strconv.FormatUint(s.AmountB, 10),
		"fee":     strconv.FormatUint(s.Fee, 10),
	}
	if s.ExecutedAt != nil {
		attrs["executedAt"] = strconv.FormatInt(*s.ExecutedAt, 10)
	}
	return attrs
}

// CreatedEvent returns the structured payload for swap intent creation.
func CreatedEvent(s *Swap) *types.Event {
	return &types.Event{Type: EventTypeCreated, Attributes: attributes(s)}
}

// ExecutedEvent returns the structured payload for a fully settled swap.
func ExecutedEvent(s *Swap) *types.Event {
	return &types.Event{Type: EventTypeExecuted, Attributes: attributes(s)}
}

// LegFailedEvent records a partial settlement needing reconciliation.
func LegFailedEvent(s *Swap, cause error) *types.Event {
	attrs := attributes(s)
	attrs["reason"] = cause.Error()
	return &types.Event{Type: EventTypeLegFailed, Attributes: attrs}
}
