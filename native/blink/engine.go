package blink

import (
	"errors"
	"time"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

var (
	errNilState = errors.New("blink engine: state not configured")
	// ErrNotFound indicates the requested blink does not exist.
	ErrNotFound = errors.New("blink engine: blink not found")
	// ErrUnauthorized indicates the caller is not the record owner.
	ErrUnauthorized = errors.New("blink engine: caller is not the owner")
	// ErrInvalidBlinkType indicates a type value outside the supported range.
	ErrInvalidBlinkType = errors.New("blink engine: invalid blink type")
)

type engineState interface {
	BlinkAllocateID(owner [20]byte) ([32]byte, error)
	BlinkGet(id [32]byte) (*Blink, bool, error)
	BlinkPut(*Blink) error
	BlinkDelete(id [32]byte) error
}

// Engine wires profile card lifecycle logic with persistence and event
// emission.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a blink engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

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

// Create validates the supplied fields and persists a new blink owned by the
// caller. Validation happens before any write, so a rejected create leaves no
// partial record behind.
func (e *Engine) Create(owner [20]byte, name, description, imageURL string, typ BlinkType) (*Blink, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if !typ.Valid() {
		return nil, ErrInvalidBlinkType
	}
	if err := Shape.CheckAll("name", name, "description", description); err != nil {
		return nil, err
	}
	id, err := e.state.BlinkAllocateID(owner)
	if err != nil {
		return nil, err
	}
	now := e.now()
	record := &Blink{
		ID:          id,
		Owner:       owner,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		Type:        typ,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.state.BlinkPut(record); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(record))
	return record.Clone(), nil
}

// Update replaces the mutable fields of an existing blink. Owner, id and
// createdAt are untouched; updatedAt advances to the current time.
func (e *Engine) Update(id [32]byte, caller [20]byte, name, description, imageURL string) (*Blink, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.BlinkGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	if record.Owner != caller {
		return nil, ErrUnauthorized
	}
	if err := Shape.CheckAll("name", name, "description", description); err != nil {
		return nil, err
	}
	record.Name = name
	record.Description = description
	record.ImageURL = imageURL
	record.UpdatedAt = e.now()
	if err := e.state.BlinkPut(record); err != nil {
		return nil, err
	}
	e.emit(UpdatedEvent(record))
	return record.Clone(), nil
}

// Delete removes the blink and releases its storage allowance back to the
// owner. Deleting an unknown id fails with ErrNotFound, so a delete never
// succeeds twice.
func (e *Engine) Delete(id [32]byte, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok, err := e.state.BlinkGet(id)
	if err != nil {
		return err
	}
	if !ok || record == nil {
		return ErrNotFound
	}
	if record.Owner != caller {
		return ErrUnauthorized
	}
	if err := e.state.BlinkDelete(id); err != nil {
		return err
	}
	e.emit(DeletedEvent(record))
	return nil
}

// Get returns the blink stored under the supplied id.
func (e *Engine) Get(id [32]byte) (*Blink, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.BlinkGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}
