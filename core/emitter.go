package core

import (
	"log/slog"

	"blinkchain/core/events"
	"blinkchain/core/types"
	"blinkchain/observability/metrics"
)

// nodeEventEmitter routes engine events into the node's structured log and
// the prometheus event counter.
type nodeEventEmitter struct {
	node *Node
}

var _ events.Emitter = nodeEventEmitter{}

func (e nodeEventEmitter) Emit(evt events.Event) {
	if e.node == nil || evt == nil {
		return
	}
	metrics.Ledger().ObserveEvent(evt.EventType())
	carrier, ok := evt.(interface{ Event() *types.Event })
	if !ok {
		e.node.log.Info("ledger event", slog.String("event", evt.EventType()))
		return
	}
	payload := carrier.Event()
	if payload == nil {
		return
	}
	attrs := make([]any, 0, 2*len(payload.Attributes))
	for key, value := range payload.Attributes {
		attrs = append(attrs, slog.String(key, value))
	}
	e.node.log.With(attrs...).Info("ledger event", slog.String("event", payload.Type))
}
