package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"blinkchain/core/types"
	"blinkchain/native/blink"
	"blinkchain/native/common"
	"blinkchain/native/donations"
	"blinkchain/native/nft"
	"blinkchain/native/payments"
	"blinkchain/native/swap"
	"blinkchain/storage"
)

var (
	// ErrInsufficientBalance indicates the sender cannot cover a transfer.
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	// ErrInvalidTransfer indicates a malformed transfer request.
	ErrInvalidTransfer = errors.New("state: invalid transfer")
)

// Manager is the single authority over the ledger's key-value state. It
// implements the state interface of every record engine plus the transfer
// ledger and the mint metadata registry, so one instance backs the whole
// node. A mutex serializes every mutating method; read-modify-write cycles
// on sequences, accounts and storage reservations never interleave.
type Manager struct {
	mu sync.Mutex
	db storage.Database
}

// NewManager wraps the supplied key-value database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) kvPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	return m.db.Put(key, encoded)
}

func (m *Manager) kvGet(key []byte, out interface{}) (bool, error) {
	raw, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", key, err)
	}
	return true, nil
}

// allocateIDLocked derives a fresh record id from the kind, the owner and a
// persisted per-owner sequence. The hash keeps ids unguessable across kinds
// while the sequence keeps them collision-free for the same owner.
func (m *Manager) allocateIDLocked(kind string, owner [20]byte) ([32]byte, error) {
	var id [32]byte
	seqKey := sequenceKey(kind, owner)
	var seq uint64
	if _, err := m.kvGet(seqKey, &seq); err != nil {
		return id, err
	}
	next, err := common.CheckedAdd(seq, 1)
	if err != nil {
		return id, err
	}
	if err := m.kvPut(seqKey, next); err != nil {
		return id, err
	}
	preimage := make([]byte, 0, len(kind)+len(owner)+8)
	preimage = append(preimage, kind...)
	preimage = append(preimage, owner[:]...)
	preimage = binary.BigEndian.AppendUint64(preimage, next)
	copy(id[:], crypto.Keccak256(preimage))
	return id, nil
}

func (m *Manager) allocateID(kind string, owner [20]byte) ([32]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocateIDLocked(kind, owner)
}

func (m *Manager) getAccountLocked(addr [20]byte) (*types.Account, error) {
	var stored storedAccount
	ok, err := m.kvGet(accountKey(addr), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balances: make(map[string]*big.Int)}, nil
	}
	return stored.toAccount(), nil
}

func (m *Manager) putAccountLocked(addr [20]byte, account *types.Account) error {
	return m.kvPut(accountKey(addr), newStoredAccount(account))
}

// GetAccount returns the account stored for the address. Unknown addresses
// yield a zero-value account rather than an error.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getAccountLocked(addr)
}

// PutAccount persists the account record for the address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account for %x", addr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putAccountLocked(addr, account)
}

// reserveStorageLocked bumps the owner's reservation counter when a new
// record is persisted; releaseStorageLocked gives the unit back on delete.
func (m *Manager) reserveStorageLocked(owner [20]byte) error {
	account, err := m.getAccountLocked(owner)
	if err != nil {
		return err
	}
	reserved, err := common.CheckedAdd(account.StorageReserved, 1)
	if err != nil {
		return err
	}
	account.StorageReserved = reserved
	return m.putAccountLocked(owner, account)
}

func (m *Manager) releaseStorageLocked(owner [20]byte) error {
	account, err := m.getAccountLocked(owner)
	if err != nil {
		return err
	}
	if account.StorageReserved == 0 {
		return nil
	}
	account.StorageReserved--
	return m.putAccountLocked(owner, account)
}

// putRecordLocked persists the encoded record and charges a storage unit the
// first time the key appears. Overwrites keep the existing reservation.
func (m *Manager) putRecordLocked(key []byte, owner [20]byte, value interface{}) error {
	exists, err := m.db.Has(key)
	if err != nil {
		return err
	}
	if err := m.kvPut(key, value); err != nil {
		return err
	}
	if !exists {
		return m.reserveStorageLocked(owner)
	}
	return nil
}

func (m *Manager) deleteRecordLocked(key []byte, owner [20]byte) error {
	exists, err := m.db.Has(key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := m.db.Delete(key); err != nil {
		return err
	}
	return m.releaseStorageLocked(owner)
}

// Transfer moves amount of token from one account to the other, failing
// without side effects when the sender cannot cover it. Implements the
// TransferLedger interface the settlement engines depend on.
func (m *Manager) Transfer(from, to [20]byte, token string, amount *big.Int) error {
	if token == "" || amount == nil || amount.Sign() <= 0 {
		return ErrInvalidTransfer
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sender, err := m.getAccountLocked(from)
	if err != nil {
		return err
	}
	balance := sender.Balance(token)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %s %s, need %s", ErrInsufficientBalance, balance, token, amount)
	}
	if from == to {
		return nil
	}
	sender.SetBalance(token, new(big.Int).Sub(balance, amount))
	if err := m.putAccountLocked(from, sender); err != nil {
		return err
	}
	receiver, err := m.getAccountLocked(to)
	if err != nil {
		return err
	}
	receiver.SetBalance(token, new(big.Int).Add(receiver.Balance(token), amount))
	return m.putAccountLocked(to, receiver)
}

// Mint credits freshly issued tokens to the address. Used at genesis and by
// test fixtures; ordinary operations only move existing balances.
func (m *Manager) Mint(addr [20]byte, token string, amount *big.Int) error {
	if token == "" || amount == nil || amount.Sign() <= 0 {
		return ErrInvalidTransfer
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, err := m.getAccountLocked(addr)
	if err != nil {
		return err
	}
	account.SetBalance(token, new(big.Int).Add(account.Balance(token), amount))
	return m.putAccountLocked(addr, account)
}

// Publish records mint metadata under a hash of its identifying fields,
// satisfying the registry interface the NFT engine publishes through.
func (m *Manager) Publish(name, symbol, uri string, authority [20]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	preimage := make([]byte, 0, len(authority)+len(name)+len(symbol)+2)
	preimage = append(preimage, authority[:]...)
	preimage = append(preimage, '/')
	preimage = append(preimage, name...)
	preimage = append(preimage, '/')
	preimage = append(preimage, symbol...)
	var id [32]byte
	copy(id[:], crypto.Keccak256(preimage))
	return m.kvPut(registryKey(id), &storedMintMetadata{
		Name:        name,
		Symbol:      symbol,
		URI:         uri,
		Authority:   authority,
		PublishedAt: uint64(time.Now().Unix()),
	})
}

// --- blink engine state ---

func (m *Manager) BlinkAllocateID(owner [20]byte) ([32]byte, error) {
	return m.allocateID("blink", owner)
}

func (m *Manager) BlinkGet(id [32]byte) (*blink.Blink, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedBlink
	ok, err := m.kvGet(blinkKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toBlink(), true, nil
}

func (m *Manager) BlinkPut(record *blink.Blink) error {
	if record == nil {
		return fmt.Errorf("state: nil blink record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(blinkKey(record.ID), record.Owner, newStoredBlink(record))
}

func (m *Manager) BlinkDelete(id [32]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedBlink
	ok, err := m.kvGet(blinkKey(id), &stored)
	if err != nil || !ok {
		return err
	}
	return m.deleteRecordLocked(blinkKey(id), stored.Owner)
}

// --- nft engine state ---

func (m *Manager) NFTAllocateID(owner [20]byte) ([32]byte, error) {
	return m.allocateID("nft", owner)
}

func (m *Manager) NFTGet(id [32]byte) (*nft.NFT, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedNFT
	ok, err := m.kvGet(nftKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toNFT(), true, nil
}

func (m *Manager) NFTPut(record *nft.NFT) error {
	if record == nil {
		return fmt.Errorf("state: nil nft record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(nftKey(record.ID), record.Owner, newStoredNFT(record))
}

func (m *Manager) NFTDelete(id [32]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedNFT
	ok, err := m.kvGet(nftKey(id), &stored)
	if err != nil || !ok {
		return err
	}
	return m.deleteRecordLocked(nftKey(id), stored.Owner)
}

func (m *Manager) CollectionAllocateID(owner [20]byte) ([32]byte, error) {
	return m.allocateID("collection", owner)
}

func (m *Manager) CollectionGet(id [32]byte) (*nft.Collection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedCollection
	ok, err := m.kvGet(collectionKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toCollection(), true, nil
}

func (m *Manager) CollectionPut(record *nft.Collection) error {
	if record == nil {
		return fmt.Errorf("state: nil collection record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(collectionKey(record.ID), record.Owner, newStoredCollection(record))
}

func (m *Manager) CollectionDelete(id [32]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedCollection
	ok, err := m.kvGet(collectionKey(id), &stored)
	if err != nil || !ok {
		return err
	}
	return m.deleteRecordLocked(collectionKey(id), stored.Owner)
}

// --- donation engine state ---

func (m *Manager) DonationAllocateID(donor [20]byte) ([32]byte, error) {
	return m.allocateID("donation", donor)
}

func (m *Manager) DonationGet(id [32]byte) (*donations.Donation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedDonation
	ok, err := m.kvGet(donationKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toDonation(), true, nil
}

func (m *Manager) DonationPut(record *donations.Donation) error {
	if record == nil {
		return fmt.Errorf("state: nil donation record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(donationKey(record.ID), record.Donor, newStoredDonation(record))
}

// --- payment engine state ---

func (m *Manager) PaymentAllocateID(payer [20]byte) ([32]byte, error) {
	return m.allocateID("payment", payer)
}

func (m *Manager) PaymentGet(id [32]byte) (*payments.Payment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedPayment
	ok, err := m.kvGet(paymentKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toPayment(), true, nil
}

func (m *Manager) PaymentPut(record *payments.Payment) error {
	if record == nil {
		return fmt.Errorf("state: nil payment record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(paymentKey(record.ID), record.Payer, newStoredPayment(record))
}

// --- swap engine state ---

func (m *Manager) SwapAllocateID(owner [20]byte) ([32]byte, error) {
	return m.allocateID("swap", owner)
}

func (m *Manager) SwapGet(id [32]byte) (*swap.Swap, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stored storedSwap
	ok, err := m.kvGet(swapKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return stored.toSwap(), true, nil
}

func (m *Manager) SwapPut(record *swap.Swap) error {
	if record == nil {
		return fmt.Errorf("state: nil swap record")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putRecordLocked(swapKey(record.ID), record.Owner, newStoredSwap(record))
}
