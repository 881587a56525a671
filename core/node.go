package core

import (
	"errors"
	"log/slog"
	"math/big"
	"sync"

	"blinkchain/core/state"
	"blinkchain/core/types"
	"blinkchain/native/blink"
	"blinkchain/native/donations"
	"blinkchain/native/nft"
	"blinkchain/native/payments"
	"blinkchain/native/swap"
	"blinkchain/observability/metrics"
	"blinkchain/storage"
)

// Node owns the ledger state and exposes every record operation behind a
// single mutex, so concurrent RPC calls are applied one at a time in arrival
// order. Engines are constructed per call against the shared state manager.
type Node struct {
	db      storage.Database
	state   *state.Manager
	log     *slog.Logger
	stateMu sync.Mutex
}

// NewNode wires a node over the supplied database.
func NewNode(db storage.Database) *Node {
	return &Node{
		db:    db,
		state: state.NewManager(db),
		log:   slog.Default(),
	}
}

// SetLogger overrides the logger events and failures are reported through.
func (n *Node) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	n.log = log
}

// State exposes the state manager for genesis seeding and tooling.
func (n *Node) State() *state.Manager { return n.state }

func (n *Node) newBlinkEngine() *blink.Engine {
	engine := blink.NewEngine()
	engine.SetState(n.state)
	engine.SetEmitter(nodeEventEmitter{node: n})
	return engine
}

func (n *Node) newNFTEngine() *nft.Engine {
	engine := nft.NewEngine()
	engine.SetState(n.state)
	engine.SetRegistry(n.state)
	engine.SetEmitter(nodeEventEmitter{node: n})
	return engine
}

func (n *Node) newDonationEngine() *donations.Engine {
	engine := donations.NewEngine()
	engine.SetState(n.state)
	engine.SetLedger(n.state)
	engine.SetEmitter(nodeEventEmitter{node: n})
	return engine
}

func (n *Node) newPaymentEngine() *payments.Engine {
	engine := payments.NewEngine()
	engine.SetState(n.state)
	engine.SetLedger(n.state)
	engine.SetEmitter(nodeEventEmitter{node: n})
	return engine
}

func (n *Node) newSwapEngine() *swap.Engine {
	engine := swap.NewEngine()
	engine.SetState(n.state)
	engine.SetLedger(n.state)
	engine.SetEmitter(nodeEventEmitter{node: n})
	return engine
}

// --- blinks ---

func (n *Node) BlinkCreate(owner [20]byte, name, description, imageURL string, typ blink.BlinkType) (*blink.Blink, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newBlinkEngine().Create(owner, name, description, imageURL, typ)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("blink", "create")
	return record, nil
}

func (n *Node) BlinkUpdate(id [32]byte, caller [20]byte, name, description, imageURL string) (*blink.Blink, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newBlinkEngine().Update(id, caller, name, description, imageURL)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("blink", "update")
	return record, nil
}

func (n *Node) BlinkDelete(id [32]byte, caller [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if err := n.newBlinkEngine().Delete(id, caller); err != nil {
		return err
	}
	metrics.Ledger().ObserveRecordOp("blink", "delete")
	return nil
}

func (n *Node) BlinkGet(id [32]byte) (*blink.Blink, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newBlinkEngine().Get(id)
}

// --- nfts and collections ---

func (n *Node) NFTCreate(owner [20]byte, mint [32]byte, name, symbol, uri string) (*nft.NFT, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newNFTEngine().CreateNFT(owner, mint, name, symbol, uri)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("nft", "create")
	return record, nil
}

func (n *Node) NFTDelete(id [32]byte, caller [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if err := n.newNFTEngine().DeleteNFT(id, caller); err != nil {
		return err
	}
	metrics.Ledger().ObserveRecordOp("nft", "delete")
	return nil
}

func (n *Node) NFTGet(id [32]byte) (*nft.NFT, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newNFTEngine().GetNFT(id)
}

func (n *Node) CollectionCreate(owner [20]byte, name, symbol, uri string) (*nft.Collection, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newNFTEngine().CreateCollection(owner, name, symbol, uri)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("collection", "create")
	return record, nil
}

func (n *Node) CollectionUpdate(id [32]byte, caller [20]byte, name, symbol, uri string) (*nft.Collection, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newNFTEngine().UpdateCollection(id, caller, name, symbol, uri)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("collection", "update")
	return record, nil
}

func (n *Node) CollectionDelete(id [32]byte, caller [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if err := n.newNFTEngine().DeleteCollection(id, caller); err != nil {
		return err
	}
	metrics.Ledger().ObserveRecordOp("collection", "delete")
	return nil
}

func (n *Node) CollectionGet(id [32]byte) (*nft.Collection, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newNFTEngine().GetCollection(id)
}

func (n *Node) NFTAddToCollection(nftID, collectionID [32]byte, caller [20]byte) (*nft.NFT, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newNFTEngine().AddToCollection(nftID, collectionID, caller)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("nft", "assign_collection")
	return record, nil
}

func (n *Node) MintCreate(authority [20]byte, name, symbol, uri string) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	if err := n.newNFTEngine().CreateMint(authority, name, symbol, uri); err != nil {
		return err
	}
	metrics.Ledger().ObserveRecordOp("mint", "create")
	return nil
}

// --- donations ---

func (n *Node) DonationCreate(donor, recipient [20]byte, amount *big.Int, currency, message string) (*donations.Donation, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newDonationEngine().Create(donor, recipient, amount, currency, message)
	if err != nil {
		if errors.Is(err, state.ErrInsufficientBalance) {
			metrics.Ledger().IncSettlementFailure("donation")
		}
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("donation", "create")
	return record, nil
}

func (n *Node) DonationGet(id [32]byte) (*donations.Donation, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newDonationEngine().Get(id)
}

// --- payments ---

func (n *Node) PaymentCreate(payer, recipient [20]byte, amount *big.Int, currency, description string) (*payments.Payment, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newPaymentEngine().Create(payer, recipient, amount, currency, description)
	if err != nil {
		metrics.Ledger().IncSettlementFailure("payment")
		return record, err
	}
	metrics.Ledger().ObserveRecordOp("payment", "create")
	return record, nil
}

func (n *Node) PaymentRefund(id [32]byte, caller [20]byte) (*payments.Payment, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newPaymentEngine().Refund(id, caller)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("payment", "refund")
	return record, nil
}

func (n *Node) PaymentGet(id [32]byte) (*payments.Payment, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newPaymentEngine().Get(id)
}

// --- swaps ---

func (n *Node) SwapCreate(owner [20]byte, tokenA, tokenB string, amountA, amountB, fee uint64) (*swap.Swap, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newSwapEngine().CreateSwap(owner, tokenA, tokenB, amountA, amountB, fee)
	if err != nil {
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("swap", "create")
	return record, nil
}

func (n *Node) SwapExecute(id [32]byte, caller [20]byte, legA, legB swap.Leg) (*swap.Swap, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	record, err := n.newSwapEngine().ExecuteSwap(id, caller, legA, legB)
	if err != nil {
		if errors.Is(err, swap.ErrLegSettlement) {
			metrics.Ledger().IncSwapLegFailure()
		}
		metrics.Ledger().IncSettlementFailure("swap")
		return nil, err
	}
	metrics.Ledger().ObserveRecordOp("swap", "execute")
	return record, nil
}

func (n *Node) SwapGet(id [32]byte) (*swap.Swap, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.newSwapEngine().Get(id)
}

// SwapQuote prices a constant-product swap against the supplied reserves.
// Pure arithmetic, no state access.
func (n *Node) SwapQuote(amountIn, reserveIn, reserveOut, fee uint64) (uint64, error) {
	return swap.CalculateSwapAmount(amountIn, reserveIn, reserveOut, fee)
}

// --- accounts ---

func (n *Node) GetAccount(addr [20]byte) (*types.Account, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.state.GetAccount(addr)
}

// MintBalance credits tokens to an address. Reserved for genesis seeding and
// operational tooling; record flows never create value.
func (n *Node) MintBalance(addr [20]byte, token string, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	return n.state.Mint(addr, token, amount)
}
