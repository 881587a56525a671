package nft

import (
	"errors"
	"fmt"
	"time"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

var (
	errNilState = errors.New("nft engine: state not configured")
	// ErrNotFound indicates the requested NFT does not exist.
	ErrNotFound = errors.New("nft engine: nft not found")
	// ErrCollectionNotFound indicates the requested collection does not exist.
	ErrCollectionNotFound = errors.New("nft engine: collection not found")
	// ErrUnauthorized indicates the caller is not the relevant owner.
	ErrUnauthorized = errors.New("nft engine: caller is not the owner")
	// ErrAlreadyInCollection indicates the NFT back-reference is already set.
	ErrAlreadyInCollection = errors.New("nft engine: nft already assigned to a collection")
	// ErrRegistryNotConfigured indicates mint metadata cannot be published.
	ErrRegistryNotConfigured = errors.New("nft engine: metadata registry not configured")
)

// MetadataRegistry is the external write-only catalog that mint metadata is
// published to. A publish failure aborts the surrounding creation.
type MetadataRegistry interface {
	Publish(name, symbol, uri string, authority [20]byte) error
}

type engineState interface {
	NFTAllocateID(owner [20]byte) ([32]byte, error)
	NFTGet(id [32]byte) (*NFT, bool, error)
	NFTPut(*NFT) error
	NFTDelete(id [32]byte) error
	CollectionAllocateID(owner [20]byte) ([32]byte, error)
	CollectionGet(id [32]byte) (*Collection, bool, error)
	CollectionPut(*Collection) error
	CollectionDelete(id [32]byte) error
}

// Engine wires NFT and collection lifecycle logic with persistence, metadata
// publication and event emission.
type Engine struct {
	state    engineState
	registry MetadataRegistry
	emitter  events.Emitter
	nowFn    func() int64
}

// NewEngine constructs an NFT engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetRegistry configures the metadata registry consulted at mint time.
func (e *Engine) SetRegistry(registry MetadataRegistry) { e.registry = registry }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) publish(name, symbol, uri string, authority [20]byte) error {
	if e.registry == nil {
		return ErrRegistryNotConfigured
	}
	if err := e.registry.Publish(name, symbol, uri, authority); err != nil {
		return fmt.Errorf("nft engine: publish metadata: %w", err)
	}
	return nil
}

// CreateNFT validates the metadata, publishes it through the registry and
// persists the token record. The collection back-reference starts unset.
func (e *Engine) CreateNFT(owner [20]byte, mint [32]byte, name, symbol, uri string) (*NFT, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := Shape.CheckAll("name", name, "symbol", symbol); err != nil {
		return nil, err
	}
	if err := e.publish(name, symbol, uri, owner); err != nil {
		return nil, err
	}
	id, err := e.state.NFTAllocateID(owner)
	if err != nil {
		return nil, err
	}
	record := &NFT{
		ID:        id,
		Owner:     owner,
		Mint:      mint,
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
		CreatedAt: e.now(),
	}
	if err := e.state.NFTPut(record); err != nil {
		return nil, err
	}
	e.emit(NFTCreatedEvent(record))
	return record.Clone(), nil
}

// DeleteNFT burns the token record, releasing its storage allowance.
func (e *Engine) DeleteNFT(id [32]byte, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok, err := e.state.NFTGet(id)
	if err != nil {
		return err
	}
	if !ok || record == nil {
		return ErrNotFound
	}
	if record.Owner != caller {
		return ErrUnauthorized
	}
	if err := e.state.NFTDelete(id); err != nil {
		return err
	}
	e.emit(NFTDeletedEvent(record))
	return nil
}

// GetNFT returns the token record stored under the supplied id.
func (e *Engine) GetNFT(id [32]byte) (*NFT, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.NFTGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// CreateCollection validates and persists a new collection record.
func (e *Engine) CreateCollection(owner [20]byte, name, symbol, uri string) (*Collection, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := Shape.CheckAll("name", name, "symbol", symbol); err != nil {
		return nil, err
	}
	id, err := e.state.CollectionAllocateID(owner)
	if err != nil {
		return nil, err
	}
	now := e.now()
	record := &Collection{
		ID:        id,
		Owner:     owner,
		Name:      name,
		Symbol:    symbol,
		URI:       uri,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.state.CollectionPut(record); err != nil {
		return nil, err
	}
	e.emit(CollectionCreatedEvent(record))
	return record.Clone(), nil
}

// UpdateCollection replaces the mutable catalog fields of a collection.
func (e *Engine) UpdateCollection(id [32]byte, caller [20]byte, name, symbol, uri string) (*Collection, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.CollectionGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrCollectionNotFound
	}
	if record.Owner != caller {
		return nil, ErrUnauthorized
	}
	if err := Shape.CheckAll("name", name, "symbol", symbol); err != nil {
		return nil, err
	}
	record.Name = name
	record.Symbol = symbol
	record.URI = uri
	record.UpdatedAt = e.now()
	if err := e.state.CollectionPut(record); err != nil {
		return nil, err
	}
	e.emit(CollectionUpdatedEvent(record))
	return record.Clone(), nil
}

// DeleteCollection removes the collection. NFTs keep their back-reference;
// the collection id is a lookup key, not a lifetime dependency.
func (e *Engine) DeleteCollection(id [32]byte, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok, err := e.state.CollectionGet(id)
	if err != nil {
		return err
	}
	if !ok || record == nil {
		return ErrCollectionNotFound
	}
	if record.Owner != caller {
		return ErrUnauthorized
	}
	if err := e.state.CollectionDelete(id); err != nil {
		return err
	}
	e.emit(CollectionDeletedEvent(record))
	return nil
}

// GetCollection returns the collection stored under the supplied id.
func (e *Engine) GetCollection(id [32]byte) (*Collection, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.CollectionGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrCollectionNotFound
	}
	return record.Clone(), nil
}

// AddToCollection assigns the NFT's collection back-reference. The caller
// must own the collection; the NFT's own owner is deliberately not consulted,
// so cross-owner aggregation is permitted. The reference is settable exactly
// once.
func (e *Engine) AddToCollection(nftID, collectionID [32]byte, caller [20]byte) (*NFT, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	collection, ok, err := e.state.CollectionGet(collectionID)
	if err != nil {
		return nil, err
	}
	if !ok || collection == nil {
		return nil, ErrCollectionNotFound
	}
	if collection.Owner != caller {
		return nil, ErrUnauthorized
	}
	record, ok, err := e.state.NFTGet(nftID)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	if record.InCollection() {
		return nil, ErrAlreadyInCollection
	}
	record.Collection = collection.ID
	if err := e.state.NFTPut(record); err != nil {
		return nil, err
	}
	e.emit(CollectionAssignedEvent(record, collection))
	return record.Clone(), nil
}

// CreateMint publishes standalone mint metadata through the registry without
// persisting a ledger record.
func (e *Engine) CreateMint(authority [20]byte, name, symbol, uri string) error {
	if e == nil {
		return errNilState
	}
	if err := Shape.CheckAll("name", name, "symbol", symbol); err != nil {
		return err
	}
	if err := e.publish(name, symbol, uri, authority); err != nil {
		return err
	}
	e.emit(MintCreatedEvent(authority, name, symbol, uri))
	return nil
}
