package blink

import (
	"errors"
	"strings"
	"testing"

	"blinkchain/native/records"
)

type mockState struct {
	blinks map[[32]byte]*Blink
	nextID byte
}

func newMockState() *mockState {
	return &mockState{blinks: make(map[[32]byte]*Blink)}
}

func (m *mockState) BlinkAllocateID(owner [20]byte) ([32]byte, error) {
	m.nextID++
	var id [32]byte
	id[0] = m.nextID
	return id, nil
}

func (m *mockState) BlinkGet(id [32]byte) (*Blink, bool, error) {
	record, ok := m.blinks[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) BlinkPut(record *Blink) error {
	m.blinks[record.ID] = record.Clone()
	return nil
}

func (m *mockState) BlinkDelete(id [32]byte) error {
	delete(m.blinks, id)
	return nil
}

func newTestEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_700_000_000 })
	return engine
}

func addr(b byte) [20]byte {
	var a [20]byte
	a[0] = b
	return a
}

func TestCreateRoundTrip(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	owner := addr(1)

	created, err := engine.Create(owner, "gm", "a greeting card", "https://img.example/gm.png", TypeStandard)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := engine.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Owner != owner || got.Name != "gm" || got.Description != "a greeting card" {
		t.Fatalf("stored blink does not match inputs: %+v", got)
	}
	if got.CreatedAt != 1_700_000_000 || got.UpdatedAt != got.CreatedAt {
		t.Fatalf("unexpected timestamps: created=%d updated=%d", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreateValidatesLengths(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)

	_, err := engine.Create(addr(1), strings.Repeat("n", 51), "desc", "", TypeStandard)
	if !errors.Is(err, records.ErrFieldTooLong) {
		t.Fatalf("expected field too long, got %v", err)
	}
	_, err = engine.Create(addr(1), "ok", strings.Repeat("d", 201), "", TypeStandard)
	if !errors.Is(err, records.ErrFieldTooLong) {
		t.Fatalf("expected field too long, got %v", err)
	}
	if len(state.blinks) != 0 {
		t.Fatalf("no record should be written after failed validation")
	}
}

func TestCreateRejectsInvalidType(t *testing.T) {
	engine := newTestEngine(newMockState())
	if _, err := engine.Create(addr(1), "n", "d", "", BlinkType(42)); !errors.Is(err, ErrInvalidBlinkType) {
		t.Fatalf("expected ErrInvalidBlinkType, got %v", err)
	}
}

func TestUpdateByNonOwnerFails(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	created, err := engine.Create(addr(1), "before", "desc", "", TypeStandard)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := engine.Update(created.ID, addr(2), "after", "desc", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	got, _ := engine.Get(created.ID)
	if got.Name != "before" {
		t.Fatalf("record changed after rejected update: %+v", got)
	}
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	owner := addr(1)
	created, err := engine.Create(owner, "before", "desc", "", TypeGift)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	engine.SetNowFunc(func() int64 { return 1_700_000_500 })
	updated, err := engine.Update(created.ID, owner, "after", "new desc", "https://img")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Owner != owner || updated.ID != created.ID || updated.CreatedAt != created.CreatedAt {
		t.Fatalf("immutable fields changed: %+v", updated)
	}
	if updated.Name != "after" || updated.UpdatedAt != 1_700_000_500 {
		t.Fatalf("mutable fields not applied: %+v", updated)
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	owner := addr(1)
	created, err := engine.Create(owner, "gone", "soon", "", TypeStandard)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := engine.Delete(created.ID, addr(9)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := engine.Delete(created.ID, owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := engine.Delete(created.ID, owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should fail with ErrNotFound, got %v", err)
	}
}
