package donations

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

var (
	errNilState = errors.New("donation engine: state not configured")
	// ErrNotFound indicates the requested donation does not exist.
	ErrNotFound = errors.New("donation engine: donation not found")
	// ErrInvalidCurrency indicates a missing or over-length currency code.
	ErrInvalidCurrency = errors.New("donation engine: invalid currency")
	// ErrInvalidAmount indicates a nil or non-positive amount.
	ErrInvalidAmount = errors.New("donation engine: amount must be positive")
	// ErrLedgerNotConfigured indicates value cannot be moved.
	ErrLedgerNotConfigured = errors.New("donation engine: transfer ledger not configured")
)

// TransferLedger moves a fungible amount between two balance holders. Each
// call settles fully or fails fully; no guarantee spans multiple calls.
type TransferLedger interface {
	Transfer(from, to [20]byte, token string, amount *big.Int) error
}

type engineState interface {
	DonationAllocateID(donor [20]byte) ([32]byte, error)
	DonationGet(id [32]byte) (*Donation, bool, error)
	DonationPut(*Donation) error
}

// Engine wires donation settlement with persistence and event emission.
type Engine struct {
	state   engineState
	ledger  TransferLedger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a donation engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the transfer ledger consulted at settlement time.
func (e *Engine) SetLedger(ledger TransferLedger) { e.ledger = ledger }

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

// Create validates the donation, moves the amount from donor to recipient and
// persists the receipt. The transfer must clear before the record becomes
// visible; a ledger failure leaves no record behind.
func (e *Engine) Create(donor, recipient [20]byte, amount *big.Int, currency, message string) (*Donation, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" || len(currency) > maxCurrencyLen {
		return nil, ErrInvalidCurrency
	}
	if err := Shape.Check("message", message); err != nil {
		return nil, err
	}
	if e.ledger == nil {
		return nil, ErrLedgerNotConfigured
	}
	if err := e.ledger.Transfer(donor, recipient, currency, amount); err != nil {
		return nil, fmt.Errorf("donation engine: transfer: %w", err)
	}
	id, err := e.state.DonationAllocateID(donor)
	if err != nil {
		return nil, err
	}
	record := &Donation{
		ID:        id,
		Donor:     donor,
		Recipient: recipient,
		Amount:    new(big.Int).Set(amount),
		Currency:  currency,
		Message:   message,
		Timestamp: e.now(),
	}
	if err := e.state.DonationPut(record); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(record))
	return record.Clone(), nil
}

// Get returns the donation stored under the supplied id.
func (e *Engine) Get(id [32]byte) (*Donation, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.DonationGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}
