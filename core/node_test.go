package core

import (
	"errors"
	"math/big"
	"testing"

	"blinkchain/core/state"
	"blinkchain/native/blink"
	"blinkchain/native/payments"
	"blinkchain/native/swap"
	"blinkchain/storage"
)

func testAddr(b byte) [20]byte {
	var a [20]byte
	a[0] = b
	return a
}

func newTestNode(t *testing.T) *Node {
	t.Helper()
	return NewNode(storage.NewMemDB())
}

func TestNodeBlinkLifecycle(t *testing.T) {
	node := newTestNode(t)
	owner := testAddr(1)

	created, err := node.BlinkCreate(owner, "card", "a profile card", "https://img.example/a.png", blink.TypeStandard)
	if err != nil {
		t.Fatalf("BlinkCreate: %v", err)
	}

	updated, err := node.BlinkUpdate(created.ID, owner, "card2", "new text", "")
	if err != nil {
		t.Fatalf("BlinkUpdate: %v", err)
	}
	if updated.Name != "card2" || updated.CreatedAt != created.CreatedAt {
		t.Fatalf("update lost fields: %+v", updated)
	}

	if err := node.BlinkDelete(created.ID, owner); err != nil {
		t.Fatalf("BlinkDelete: %v", err)
	}
	if _, err := node.BlinkGet(created.ID); !errors.Is(err, blink.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNodePaymentFlowWithRefund(t *testing.T) {
	node := newTestNode(t)
	payer, recipient := testAddr(1), testAddr(2)

	if err := node.MintBalance(payer, "NHB", big.NewInt(500)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}

	payment, err := node.PaymentCreate(payer, recipient, big.NewInt(200), "NHB", "order 7")
	if err != nil {
		t.Fatalf("PaymentCreate: %v", err)
	}
	if payment.Status != payments.StatusCompleted {
		t.Fatalf("expected completed payment, got %v", payment.Status)
	}

	recipientAccount, err := node.GetAccount(recipient)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if recipientAccount.Balance("NHB").Int64() != 200 {
		t.Fatalf("recipient not credited: %s", recipientAccount.Balance("NHB"))
	}

	refunded, err := node.PaymentRefund(payment.ID, payer)
	if err != nil {
		t.Fatalf("PaymentRefund: %v", err)
	}
	if refunded.Status != payments.StatusRefunded {
		t.Fatalf("expected refunded payment, got %v", refunded.Status)
	}
	payerAccount, err := node.GetAccount(payer)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if payerAccount.Balance("NHB").Int64() != 500 {
		t.Fatalf("refund did not restore payer balance: %s", payerAccount.Balance("NHB"))
	}
}

func TestNodePaymentFailurePersistsRecord(t *testing.T) {
	node := newTestNode(t)
	payer, recipient := testAddr(1), testAddr(2)

	// Payer has nothing: the transfer fails but the attempt is recorded.
	payment, err := node.PaymentCreate(payer, recipient, big.NewInt(100), "NHB", "")
	if err == nil {
		t.Fatal("expected transfer failure")
	}
	if payment == nil || payment.Status != payments.StatusFailed {
		t.Fatalf("failed attempt not persisted as Failed: %+v", payment)
	}
	stored, getErr := node.PaymentGet(payment.ID)
	if getErr != nil {
		t.Fatalf("PaymentGet: %v", getErr)
	}
	if stored.Status != payments.StatusFailed {
		t.Fatalf("stored status = %v, want Failed", stored.Status)
	}
}

func TestNodeDonationRequiresFunds(t *testing.T) {
	node := newTestNode(t)
	donor, recipient := testAddr(1), testAddr(2)

	if _, err := node.DonationCreate(donor, recipient, big.NewInt(50), "NHB", "gm"); !errors.Is(err, state.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	if err := node.MintBalance(donor, "NHB", big.NewInt(50)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}
	donation, err := node.DonationCreate(donor, recipient, big.NewInt(50), "NHB", "gm")
	if err != nil {
		t.Fatalf("DonationCreate: %v", err)
	}
	got, err := node.DonationGet(donation.ID)
	if err != nil {
		t.Fatalf("DonationGet: %v", err)
	}
	if got.Amount.Int64() != 50 || got.Message != "gm" {
		t.Fatalf("unexpected donation record: %+v", got)
	}
}

func TestNodeSwapSettlement(t *testing.T) {
	node := newTestNode(t)
	maker, taker := testAddr(1), testAddr(2)

	if err := node.MintBalance(maker, "NHB", big.NewInt(1000)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}
	if err := node.MintBalance(taker, "USDC", big.NewInt(900)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}

	created, err := node.SwapCreate(maker, "NHB", "USDC", 1000, 900, 3)
	if err != nil {
		t.Fatalf("SwapCreate: %v", err)
	}

	executed, err := node.SwapExecute(created.ID, maker,
		swap.Leg{From: maker, To: taker},
		swap.Leg{From: taker, To: maker})
	if err != nil {
		t.Fatalf("SwapExecute: %v", err)
	}
	if !executed.Executed() {
		t.Fatal("swap not marked executed")
	}

	makerAccount, err := node.GetAccount(maker)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if makerAccount.Balance("NHB").Int64() != 0 || makerAccount.Balance("USDC").Int64() != 900 {
		t.Fatalf("maker balances wrong: NHB=%s USDC=%s",
			makerAccount.Balance("NHB"), makerAccount.Balance("USDC"))
	}
	takerAccount, err := node.GetAccount(taker)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if takerAccount.Balance("NHB").Int64() != 1000 || takerAccount.Balance("USDC").Int64() != 0 {
		t.Fatalf("taker balances wrong: NHB=%s USDC=%s",
			takerAccount.Balance("NHB"), takerAccount.Balance("USDC"))
	}
}

func TestNodeSwapLegFailureKeepsIntent(t *testing.T) {
	node := newTestNode(t)
	maker, taker := testAddr(1), testAddr(2)

	// Only the maker side is funded; leg B has nothing to settle with.
	if err := node.MintBalance(maker, "NHB", big.NewInt(1000)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}
	created, err := node.SwapCreate(maker, "NHB", "USDC", 1000, 900, 0)
	if err != nil {
		t.Fatalf("SwapCreate: %v", err)
	}

	_, err = node.SwapExecute(created.ID, maker,
		swap.Leg{From: maker, To: taker},
		swap.Leg{From: taker, To: maker})
	if !errors.Is(err, swap.ErrLegSettlement) {
		t.Fatalf("expected ErrLegSettlement, got %v", err)
	}

	stored, err := node.SwapGet(created.ID)
	if err != nil {
		t.Fatalf("SwapGet: %v", err)
	}
	if stored.Executed() {
		t.Fatal("partially settled swap must not be executed")
	}

	// Fund the taker and retry: the intent is still live.
	if err := node.MintBalance(taker, "USDC", big.NewInt(900)); err != nil {
		t.Fatalf("MintBalance: %v", err)
	}
	executed, err := node.SwapExecute(created.ID, maker,
		swap.Leg{From: maker, To: taker},
		swap.Leg{From: taker, To: maker})
	if err != nil {
		t.Fatalf("retry SwapExecute: %v", err)
	}
	if !executed.Executed() {
		t.Fatal("retried swap should execute")
	}
}

func TestNodeNFTCollectionFlow(t *testing.T) {
	node := newTestNode(t)
	curator, artist := testAddr(1), testAddr(2)

	collection, err := node.CollectionCreate(curator, "gallery", "GAL", "https://meta.example/gal")
	if err != nil {
		t.Fatalf("CollectionCreate: %v", err)
	}
	var mint [32]byte
	mint[0] = 0xAA
	token, err := node.NFTCreate(artist, mint, "piece one", "P1", "https://meta.example/p1")
	if err != nil {
		t.Fatalf("NFTCreate: %v", err)
	}
	if token.InCollection() {
		t.Fatal("new NFT must start outside any collection")
	}

	// The collection owner assigns another owner's NFT.
	assigned, err := node.NFTAddToCollection(token.ID, collection.ID, curator)
	if err != nil {
		t.Fatalf("NFTAddToCollection: %v", err)
	}
	if assigned.Collection != collection.ID {
		t.Fatal("back-reference not set")
	}

	// Deleting the collection leaves the NFT and its reference intact.
	if err := node.CollectionDelete(collection.ID, curator); err != nil {
		t.Fatalf("CollectionDelete: %v", err)
	}
	got, err := node.NFTGet(token.ID)
	if err != nil {
		t.Fatalf("NFTGet: %v", err)
	}
	if got.Collection != collection.ID {
		t.Fatal("NFT back-reference must survive collection deletion")
	}
}

func TestNodeSwapQuote(t *testing.T) {
	node := newTestNode(t)
	out, err := node.SwapQuote(100, 1000, 1000, 0)
	if err != nil {
		t.Fatalf("SwapQuote: %v", err)
	}
	if out != 90 {
		t.Fatalf("expected 90, got %d", out)
	}
}
