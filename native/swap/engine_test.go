package swap

import (
	"errors"
	"math/big"
	"testing"
)

type mockState struct {
	swaps  map[[32]byte]*Swap
	nextID byte
}

func newMockState() *mockState {
	return &mockState{swaps: make(map[[32]byte]*Swap)}
}

func (m *mockState) SwapAllocateID(owner [20]byte) ([32]byte, error) {
	m.nextID++
	var id [32]byte
	id[0] = m.nextID
	return id, nil
}

func (m *mockState) SwapGet(id [32]byte) (*Swap, bool, error) {
	record, ok := m.swaps[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) SwapPut(record *Swap) error {
	m.swaps[record.ID] = record.Clone()
	return nil
}

type transferCall struct {
	from, to [20]byte
	token    string
	amount   uint64
}

type mockLedger struct {
	calls     []transferCall
	failAfter int // fail the (failAfter+1)-th call; -1 disables
}

func newMockLedger() *mockLedger { return &mockLedger{failAfter: -1} }

func (m *mockLedger) Transfer(from, to [20]byte, token string, amount *big.Int) error {
	if m.failAfter >= 0 && len(m.calls) == m.failAfter {
		return errors.New("ledger rejected transfer")
	}
	m.calls = append(m.calls, transferCall{from: from, to: to, token: token, amount: amount.Uint64()})
	return nil
}

func addr(b byte) [20]byte {
	var a [20]byte
	a[0] = b
	return a
}

func newTestEngine(state *mockState, ledger *mockLedger) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetLedger(ledger)
	engine.SetNowFunc(func() int64 { return 1_700_000_000 })
	return engine
}

func TestCreateSwapLeavesExecutedAtUnset(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state, newMockLedger())

	created, err := engine.CreateSwap(addr(1), "NHB", "USDC", 1000, 900, 3)
	if err != nil {
		t.Fatalf("CreateSwap: %v", err)
	}
	if created.Executed() || created.ExecutedAt != nil {
		t.Fatalf("new swap must not be executed: %+v", created)
	}
	if created.CreatedAt != 1_700_000_000 {
		t.Fatalf("unexpected createdAt: %d", created.CreatedAt)
	}
}

func TestCreateSwapValidation(t *testing.T) {
	engine := newTestEngine(newMockState(), newMockLedger())

	if _, err := engine.CreateSwap(addr(1), "NHB", "USDC", 0, 900, 0); !errors.Is(err, ErrInvalidSwapParameters) {
		t.Fatalf("zero amount should fail, got %v", err)
	}
	if _, err := engine.CreateSwap(addr(1), "NHB", "NHB", 1000, 900, 0); !errors.Is(err, ErrInvalidSwapParameters) {
		t.Fatalf("same token on both sides should fail, got %v", err)
	}
	if _, err := engine.CreateSwap(addr(1), "NHB", "USDC", 1000, 900, 1001); !errors.Is(err, ErrFeeTooHigh) {
		t.Fatalf("fee above 1000 should fail, got %v", err)
	}
}

func TestExecuteSwapSettlesBothLegs(t *testing.T) {
	state := newMockState()
	ledger := newMockLedger()
	engine := newTestEngine(state, ledger)
	owner := addr(1)

	created, err := engine.CreateSwap(owner, "NHB", "USDC", 1000, 900, 3)
	if err != nil {
		t.Fatalf("CreateSwap: %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1_700_000_600 })
	legA := Leg{From: addr(1), To: addr(2)}
	legB := Leg{From: addr(2), To: addr(1)}
	executed, err := engine.ExecuteSwap(created.ID, owner, legA, legB)
	if err != nil {
		t.Fatalf("ExecuteSwap: %v", err)
	}
	if !executed.Executed() || *executed.ExecutedAt != 1_700_000_600 {
		t.Fatalf("executedAt not stamped: %+v", executed)
	}
	if *executed.ExecutedAt < executed.CreatedAt {
		t.Fatalf("executedAt must not precede createdAt")
	}
	if len(ledger.calls) != 2 {
		t.Fatalf("expected two settlement legs, got %d", len(ledger.calls))
	}
	if ledger.calls[0].token != "NHB" || ledger.calls[0].amount != 1000 {
		t.Fatalf("leg A must settle first with tokenA: %+v", ledger.calls[0])
	}
	if ledger.calls[1].token != "USDC" || ledger.calls[1].amount != 900 {
		t.Fatalf("leg B must settle second with tokenB: %+v", ledger.calls[1])
	}
}

func TestExecuteSwapAuthorization(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state, newMockLedger())
	created, _ := engine.CreateSwap(addr(1), "NHB", "USDC", 1000, 900, 0)

	if _, err := engine.ExecuteSwap(created.ID, addr(2), Leg{}, Leg{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var unknown [32]byte
	unknown[0] = 0xFF
	if _, err := engine.ExecuteSwap(unknown, addr(1), Leg{}, Leg{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExecuteSwapNoReExecution(t *testing.T) {
	state := newMockState()
	ledger := newMockLedger()
	engine := newTestEngine(state, ledger)
	owner := addr(1)
	created, _ := engine.CreateSwap(owner, "NHB", "USDC", 1000, 900, 0)

	if _, err := engine.ExecuteSwap(created.ID, owner, Leg{From: addr(1), To: addr(2)}, Leg{From: addr(2), To: addr(1)}); err != nil {
		t.Fatalf("ExecuteSwap: %v", err)
	}
	settled := len(ledger.calls)
	if _, err := engine.ExecuteSwap(created.ID, owner, Leg{}, Leg{}); !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("expected ErrAlreadyExecuted, got %v", err)
	}
	if len(ledger.calls) != settled {
		t.Fatalf("re-execution must not move funds again")
	}
}

func TestExecuteSwapLegBFailureStaysRetryable(t *testing.T) {
	state := newMockState()
	ledger := newMockLedger()
	ledger.failAfter = 1 // leg A clears, leg B fails
	engine := newTestEngine(state, ledger)
	owner := addr(1)
	created, _ := engine.CreateSwap(owner, "NHB", "USDC", 1000, 900, 0)

	_, err := engine.ExecuteSwap(created.ID, owner, Leg{From: addr(1), To: addr(2)}, Leg{From: addr(2), To: addr(1)})
	if !errors.Is(err, ErrLegSettlement) {
		t.Fatalf("expected ErrLegSettlement, got %v", err)
	}
	stored, getErr := engine.Get(created.ID)
	if getErr != nil {
		t.Fatalf("Get: %v", getErr)
	}
	if stored.Executed() {
		t.Fatalf("swap must stay in Created after a partial settlement")
	}

	// Retry succeeds once the ledger recovers.
	ledger.failAfter = -1
	executed, err := engine.ExecuteSwap(created.ID, owner, Leg{From: addr(1), To: addr(2)}, Leg{From: addr(2), To: addr(1)})
	if err != nil {
		t.Fatalf("retry ExecuteSwap: %v", err)
	}
	if !executed.Executed() {
		t.Fatalf("retry should execute the swap")
	}
}

func TestExecuteSwapLegAFailureMovesNothing(t *testing.T) {
	state := newMockState()
	ledger := newMockLedger()
	ledger.failAfter = 0
	engine := newTestEngine(state, ledger)
	owner := addr(1)
	created, _ := engine.CreateSwap(owner, "NHB", "USDC", 1000, 900, 0)

	_, err := engine.ExecuteSwap(created.ID, owner, Leg{From: addr(1), To: addr(2)}, Leg{From: addr(2), To: addr(1)})
	if err == nil || errors.Is(err, ErrLegSettlement) {
		t.Fatalf("leg A failure is not a partial settlement: %v", err)
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("no value should move when leg A fails")
	}
}
