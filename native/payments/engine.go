package payments

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

var (
	errNilState = errors.New("payment engine: state not configured")
	// ErrNotFound indicates the requested payment does not exist.
	ErrNotFound = errors.New("payment engine: payment not found")
	// ErrUnauthorized indicates the caller is not the payment's payer.
	ErrUnauthorized = errors.New("payment engine: caller is not the payer")
	// ErrInvalidCurrency indicates a missing or over-length currency code.
	ErrInvalidCurrency = errors.New("payment engine: invalid currency")
	// ErrInvalidAmount indicates a nil or non-positive amount.
	ErrInvalidAmount = errors.New("payment engine: amount must be positive")
	// ErrInvalidStatus indicates a transition the status machine forbids.
	ErrInvalidStatus = errors.New("payment engine: invalid payment status")
	// ErrLedgerNotConfigured indicates value cannot be moved.
	ErrLedgerNotConfigured = errors.New("payment engine: transfer ledger not configured")
)

// TransferLedger moves a fungible amount between two balance holders. Each
// call settles fully or fails fully; no guarantee spans multiple calls.
type TransferLedger interface {
	Transfer(from, to [20]byte, token string, amount *big.Int) error
}

type engineState interface {
	PaymentAllocateID(payer [20]byte) ([32]byte, error)
	PaymentGet(id [32]byte) (*Payment, bool, error)
	PaymentPut(*Payment) error
}

// Engine wires payment settlement and the status machine with persistence
// and event emission.
type Engine struct {
	state   engineState
	ledger  TransferLedger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a payment engine with default dependencies.
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

// Create validates the payment, attempts the ledger transfer and persists the
// outcome. The record starts Pending; a cleared transfer completes it, a
// failed transfer is caught and persisted as Failed so the attempt leaves an
// auditable trace, and the ledger error is returned to the caller.
func (e *Engine) Create(payer, recipient [20]byte, amount *big.Int, currency, description string) (*Payment, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" || len(currency) > maxCurrencyLen {
		return nil, ErrInvalidCurrency
	}
	if err := Shape.Check("description", description); err != nil {
		return nil, err
	}
	if e.ledger == nil {
		return nil, ErrLedgerNotConfigured
	}
	id, err := e.state.PaymentAllocateID(payer)
	if err != nil {
		return nil, err
	}
	record := &Payment{
		ID:          id,
		Payer:       payer,
		Recipient:   recipient,
		Amount:      new(big.Int).Set(amount),
		Currency:    currency,
		Description: description,
		Status:      StatusPending,
		Timestamp:   e.now(),
	}
	if transferErr := e.ledger.Transfer(payer, recipient, currency, amount); transferErr != nil {
		record.Status = StatusFailed
		if err := e.state.PaymentPut(record); err != nil {
			return nil, err
		}
		e.emit(StatusEvent(record))
		return record.Clone(), fmt.Errorf("payment engine: transfer: %w", transferErr)
	}
	record.Status = StatusCompleted
	if err := e.state.PaymentPut(record); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(record))
	return record.Clone(), nil
}

// Refund reverses a completed payment. Only the payer may request it; the
// recipient's balance funds the reversal and the record moves to Refunded.
func (e *Engine) Refund(id [32]byte, caller [20]byte) (*Payment, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.PaymentGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	if record.Payer != caller {
		return nil, ErrUnauthorized
	}
	if record.Status != StatusCompleted {
		return nil, ErrInvalidStatus
	}
	if e.ledger == nil {
		return nil, ErrLedgerNotConfigured
	}
	if err := e.ledger.Transfer(record.Recipient, record.Payer, record.Currency, record.Amount); err != nil {
		return nil, fmt.Errorf("payment engine: refund transfer: %w", err)
	}
	record.Status = StatusRefunded
	if err := e.state.PaymentPut(record); err != nil {
		return nil, err
	}
	e.emit(StatusEvent(record))
	return record.Clone(), nil
}

// Get returns the payment stored under the supplied id.
func (e *Engine) Get(id [32]byte) (*Payment, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.PaymentGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}
