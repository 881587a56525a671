package nft

import (
	"encoding/hex"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

const (
	// EventTypeNFTCreated is emitted when an NFT record is minted.
	EventTypeNFTCreated = "nft.created"
	// EventTypeNFTDeleted is emitted when an NFT record is burned.
	EventTypeNFTDeleted = "nft.deleted"
	// EventTypeCollectionCreated is emitted when a collection is created.
	EventTypeCollectionCreated = "nft.collection.created"
	// EventTypeCollectionUpdated is emitted when a collection's catalog fields change.
	EventTypeCollectionUpdated = "nft.collection.updated"
	// EventTypeCollectionDeleted is emitted when a collection is removed.
	EventTypeCollectionDeleted = "nft.collection.deleted"
	// EventTypeCollectionAssigned is emitted when an NFT joins a collection.
	EventTypeCollectionAssigned = "nft.collection.assigned"
	// EventTypeMintCreated is emitted when mint metadata is published.
	EventTypeMintCreated = "nft.mint.created"
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

func hexAddr(addr [20]byte) string { return "0x" + hex.EncodeToString(addr[:]) }

// NFTCreatedEvent returns the structured payload for NFT creation.
func NFTCreatedEvent(n *NFT) *types.Event {
	return &types.Event{
		Type: EventTypeNFTCreated,
		Attributes: map[string]string{
			"id":     hex.EncodeToString(n.ID[:]),
			"owner":  hexAddr(n.Owner),
			"mint":   hex.EncodeToString(n.Mint[:]),
			"name":   n.Name,
			"symbol": n.Symbol,
			"uri":    n.URI,
		},
	}
}

// NFTDeletedEvent returns the structured payload for NFT removal.
func NFTDeletedEvent(n *NFT) *types.Event {
	return &types.Event{
		Type: EventTypeNFTDeleted,
		Attributes: map[string]string{
			"id":    hex.EncodeToString(n.ID[:]),
			"owner": hexAddr(n.Owner),
		},
	}
}

// CollectionCreatedEvent returns the structured payload for collection creation.
func CollectionCreatedEvent(c *Collection) *types.Event {
	return &types.Event{
		Type: EventTypeCollectionCreated,
		Attributes: map[string]string{
			"id":     hex.EncodeToString(c.ID[:]),
			"owner":  hexAddr(c.Owner),
			"name":   c.Name,
			"symbol": c.Symbol,
			"uri":    c.URI,
		},
	}
}

// CollectionUpdatedEvent returns the structured payload for collection mutation.
func CollectionUpdatedEvent(c *Collection) *types.Event {
	return &types.Event{
		Type: EventTypeCollectionUpdated,
		Attributes: map[string]string{
			"id":     hex.EncodeToString(c.ID[:]),
			"name":   c.Name,
			"symbol": c.Symbol,
			"uri":    c.URI,
		},
	}
}

// CollectionDeletedEvent returns the structured payload for collection removal.
func CollectionDeletedEvent(c *Collection) *types.Event {
	return &types.Event{
		Type: EventTypeCollectionDeleted,
		Attributes: map[string]string{
			"id":    hex.EncodeToString(c.ID[:]),
			"owner": hexAddr(c.Owner),
		},
	}
}

// CollectionAssignedEvent captures an NFT joining a collection.
func CollectionAssignedEvent(n *NFT, c *Collection) *types.Event {
	return &types.Event{
		Type: EventTypeCollectionAssigned,
		Attributes: map[string]string{
			"nft":        hex.EncodeToString(n.ID[:]),
			"collection": hex.EncodeToString(c.ID[:]),
			"owner":      hexAddr(c.Owner),
		},
	}
}

// MintCreatedEvent captures a standalone mint metadata publication.
func MintCreatedEvent(authority [20]byte, name, symbol, uri string) *types.Event {
	return &types.Event{
		Type: EventTypeMintCreated,
		Attributes: map[string]string{
			"authority": hexAddr(authority),
			"name":      name,
			"symbol":    symbol,
			"uri":       uri,
		},
	}
}
