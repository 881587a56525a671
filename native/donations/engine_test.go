package donations

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"blinkchain/native/records"
)

type mockState struct {
	donations map[[32]byte]*Donation
	nextID    byte
}

func newMockState() *mockState {
	return &mockState{donations: make(map[[32]byte]*Donation)}
}

func (m *mockState) DonationAllocateID(donor [20]byte) ([32]byte, error) {
	m.nextID++
	var id [32]byte
	id[0] = m.nextID
	return id, nil
}

func (m *mockState) DonationGet(id [32]byte) (*Donation, bool, error) {
	record, ok := m.donations[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) DonationPut(record *Donation) error {
	m.donations[record.ID] = record.Clone()
	return nil
}

type mockLedger struct {
	transfers int
	fail      error
}

func (m *mockLedger) Transfer(from, to [20]byte, token string, amount *big.Int) error {
	if m.fail != nil {
		return m.fail
	}
	m.transfers++
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

func TestCreateSettlesAndPersists(t *testing.T) {
	state := newMockState()
	ledger := &mockLedger{}
	engine := newTestEngine(state, ledger)

	created, err := engine.Create(addr(1), addr(2), big.NewInt(500), "USDC", "keep building")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ledger.transfers != 1 {
		t.Fatalf("expected one ledger transfer, got %d", ledger.transfers)
	}
	got, err := engine.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Donor != addr(1) || got.Recipient != addr(2) || got.Amount.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("stored donation does not match inputs: %+v", got)
	}
}

func TestCreateLedgerFailureLeavesNoRecord(t *testing.T) {
	state := newMockState()
	ledger := &mockLedger{fail: errors.New("insufficient funds")}
	engine := newTestEngine(state, ledger)

	if _, err := engine.Create(addr(1), addr(2), big.NewInt(500), "USDC", ""); err == nil {
		t.Fatalf("expected transfer failure to propagate")
	}
	if len(state.donations) != 0 {
		t.Fatalf("no record should be written when the transfer fails")
	}
}

func TestCreateValidation(t *testing.T) {
	state := newMockState()
	ledger := &mockLedger{}
	engine := newTestEngine(state, ledger)

	if _, err := engine.Create(addr(1), addr(2), big.NewInt(0), "USDC", ""); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := engine.Create(addr(1), addr(2), big.NewInt(5), "TOOLONGCODE", ""); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
	if _, err := engine.Create(addr(1), addr(2), big.NewInt(5), "USDC", strings.Repeat("m", 201)); !errors.Is(err, records.ErrFieldTooLong) {
		t.Fatalf("expected message too long, got %v", err)
	}
	if ledger.transfers != 0 {
		t.Fatalf("validation failures must not reach the ledger")
	}
}
