package swap

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"blinkchain/core/events"
	"blinkchain/core/types"
)

var (
	errNilState = errors.New("swap engine: state not configured")
	// ErrNotFound indicates the requested swap does not exist.
	ErrNotFound = errors.New("swap engine: swap not found")
	// ErrUnauthorized indicates the caller is not the swap owner.
	ErrUnauthorized = errors.New("swap engine: caller is not the owner")
	// ErrAlreadyExecuted indicates the swap reached its terminal state.
	ErrAlreadyExecuted = errors.New("swap engine: swap already executed")
	// ErrFeeTooHigh indicates a fee above the parts-per-thousand ceiling.
	ErrFeeTooHigh = errors.New("swap engine: fee exceeds maximum allowed")
	// ErrLegSettlement marks a partial settlement: leg A cleared but leg B
	// failed. The swap stays in Created and may be retried; the cleared leg
	// is the ledger's record, not rolled back here.
	ErrLegSettlement = errors.New("swap engine: second settlement leg failed")
	// ErrLedgerNotConfigured indicates value cannot be moved.
	ErrLedgerNotConfigured = errors.New("swap engine: transfer ledger not configured")
)

// TransferLedger moves a fungible amount between two balance holders. Each
// call settles fully or fails fully; no guarantee spans multiple calls.
type TransferLedger interface {
	Transfer(from, to [20]byte, token string, amount *big.Int) error
}

type engineState interface {
	SwapAllocateID(owner [20]byte) ([32]byte, error)
	SwapGet(id [32]byte) (*Swap, bool, error)
	SwapPut(*Swap) error
}

// Engine holds swap intents and drives their two-leg settlement.
type Engine struct {
	state   engineState
	ledger  TransferLedger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a swap engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger configures the transfer ledger used for settlement legs.
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

// CreateSwap records a two-sided liquidity intent. No value moves; the
// amounts and fee are fixed for the lifetime of the swap and ExecutedAt
// starts unset.
func (e *Engine) CreateSwap(owner [20]byte, tokenA, tokenB string, amountA, amountB, fee uint64) (*Swap, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if amountA == 0 || amountB == 0 || tokenA == "" || tokenB == "" || tokenA == tokenB {
		return nil, ErrInvalidSwapParameters
	}
	if fee > feeDenominator {
		return nil, ErrFeeTooHigh
	}
	id, err := e.state.SwapAllocateID(owner)
	if err != nil {
		return nil, err
	}
	record := &Swap{
		ID:        id,
		Owner:     owner,
		TokenA:    tokenA,
		TokenB:    tokenB,
		AmountA:   amountA,
		AmountB:   amountB,
		Fee:       fee,
		CreatedAt: e.now(),
	}
	if err := e.state.SwapPut(record); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(record))
	return record.Clone(), nil
}

// ExecuteSwap settles both legs of the swap in a fixed order: amountA of
// tokenA along legA, then amountB of tokenB along legB. Each leg is a single
// ledger call that either fully settles or fully fails. If leg A clears and
// leg B fails the swap is NOT marked executed: the error wraps
// ErrLegSettlement, the intent stays retryable, and reconciling the cleared
// leg is the ledger's concern. Only after both legs clear does ExecutedAt
// get stamped, exactly once.
func (e *Engine) ExecuteSwap(id [32]byte, caller [20]byte, legA, legB Leg) (*Swap, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.SwapGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	if record.Owner != caller {
		return nil, ErrUnauthorized
	}
	if record.Executed() {
		return nil, ErrAlreadyExecuted
	}
	if e.ledger == nil {
		return nil, ErrLedgerNotConfigured
	}
	amountA := new(big.Int).SetUint64(record.AmountA)
	if err := e.ledger.Transfer(legA.From, legA.To, record.TokenA, amountA); err != nil {
		return nil, fmt.Errorf("swap engine: leg A transfer: %w", err)
	}
	amountB := new(big.Int).SetUint64(record.AmountB)
	if err := e.ledger.Transfer(legB.From, legB.To, record.TokenB, amountB); err != nil {
		e.emit(LegFailedEvent(record, err))
		return nil, fmt.Errorf("%w: %v", ErrLegSettlement, err)
	}
	executedAt := e.now()
	record.ExecutedAt = &executedAt
	if err := e.state.SwapPut(record); err != nil {
		return nil, err
	}
	e.emit(ExecutedEvent(record))
	return record.Clone(), nil
}

// Get returns the swap stored under the supplied id.
func (e *Engine) Get(id [32]byte) (*Swap, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.SwapGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}
