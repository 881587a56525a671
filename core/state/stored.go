package state

import (
	"math/big"
	"sort"

	"blinkchain/core/types"
	"blinkchain/native/blink"
	"blinkchain/native/donations"
	"blinkchain/native/nft"
	"blinkchain/native/payments"
	"blinkchain/native/swap"
)

// The stored* shadows keep the ledger encoding RLP-friendly: timestamps are
// unsigned Unix seconds, enums are raw bytes and the account balance map
// flattens to a sorted entry list. Conversions are lossless in both
// directions.

type storedBlink struct {
	ID          [32]byte
	Owner       [20]byte
	Name        string
	Description string
	ImageURL    string
	Type        uint8
	CreatedAt   uint64
	UpdatedAt   uint64
}

func newStoredBlink(b *blink.Blink) *storedBlink {
	return &storedBlink{
		ID:          b.ID,
		Owner:       b.Owner,
		Name:        b.Name,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		Type:        uint8(b.Type),
		CreatedAt:   uint64(b.CreatedAt),
		UpdatedAt:   uint64(b.UpdatedAt),
	}
}

func (s *storedBlink) toBlink() *blink.Blink {
	return &blink.Blink{
		ID:          s.ID,
		Owner:       s.Owner,
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Type:        blink.BlinkType(s.Type),
		CreatedAt:   int64(s.CreatedAt),
		UpdatedAt:   int64(s.UpdatedAt),
	}
}

type storedNFT struct {
	ID         [32]byte
	Owner      [20]byte
	Mint       [32]byte
	Name       string
	Symbol     string
	URI        string
	Collection [32]byte
	CreatedAt  uint64
}

func newStoredNFT(n *nft.NFT) *storedNFT {
	return &storedNFT{
		ID:         n.ID,
		Owner:      n.Owner,
		Mint:       n.Mint,
		Name:       n.Name,
		Symbol:     n.Symbol,
		URI:        n.URI,
		Collection: n.Collection,
		CreatedAt:  uint64(n.CreatedAt),
	}
}

func (s *storedNFT) toNFT() *nft.NFT {
	return &nft.NFT{
		ID:         s.ID,
		Owner:      s.Owner,
		Mint:       s.Mint,
		Name:       s.Name,
		Symbol:     s.Symbol,
		URI:        s.URI,
		Collection: s.Collection,
		CreatedAt:  int64(s.CreatedAt),
	}
}

type storedCollection struct {
	ID        [32]byte
	Owner     [20]byte
	Name      string
	Symbol    string
	URI       string
	CreatedAt uint64
	UpdatedAt uint64
}

func newStoredCollection(c *nft.Collection) *storedCollection {
	return &storedCollection{
		ID:        c.ID,
		Owner:     c.Owner,
		Name:      c.Name,
		Symbol:    c.Symbol,
		URI:       c.URI,
		CreatedAt: uint64(c.CreatedAt),
		UpdatedAt: uint64(c.UpdatedAt),
	}
}

func (s *storedCollection) toCollection() *nft.Collection {
	return &nft.Collection{
		ID:        s.ID,
		Owner:     s.Owner,
		Name:      s.Name,
		Symbol:    s.Symbol,
		URI:       s.URI,
		CreatedAt: int64(s.CreatedAt),
		UpdatedAt: int64(s.UpdatedAt),
	}
}

type storedDonation struct {
	ID        [32]byte
	Donor     [20]byte
	Recipient [20]byte
	Amount    *big.Int
	Currency  string
	Message   string
	Timestamp uint64
}

func newStoredDonation(d *donations.Donation) *storedDonation {
	amount := d.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return &storedDonation{
		ID:        d.ID,
		Donor:     d.Donor,
		Recipient: d.Recipient,
		Amount:    new(big.Int).Set(amount),
		Currency:  d.Currency,
		Message:   d.Message,
		Timestamp: uint64(d.Timestamp),
	}
}

func (s *storedDonation) toDonation() *donations.Donation {
	amount := s.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return &donations.Donation{
		ID:        s.ID,
		Donor:     s.Donor,
		Recipient: s.Recipient,
		Amount:    new(big.Int).Set(amount),
		Currency:  s.Currency,
		Message:   s.Message,
		Timestamp: int64(s.Timestamp),
	}
}

type storedPayment struct {
	ID          [32]byte
	Payer       [20]byte
	Recipient   [20]byte
	Amount      *big.Int
	Currency    string
	Description string
	Status      uint8
	Timestamp   uint64
}

func newStoredPayment(p *payments.Payment) *storedPayment {
	amount := p.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return &storedPayment{
		ID:          p.ID,
		Payer:       p.Payer,
		Recipient:   p.Recipient,
		Amount:      new(big.Int).Set(amount),
		Currency:    p.Currency,
		Description: p.Description,
		Status:      uint8(p.Status),
		Timestamp:   uint64(p.Timestamp),
	}
}

func (s *storedPayment) toPayment() *payments.Payment {
	amount := s.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return &payments.Payment{
		ID:          s.ID,
		Payer:       s.Payer,
		Recipient:   s.Recipient,
		Amount:      new(big.Int).Set(amount),
		Currency:    s.Currency,
		Description: s.Description,
		Status:      payments.Status(s.Status),
		Timestamp:   int64(s.Timestamp),
	}
}

type storedSwap struct {
	ID         [32]byte
	Owner      [20]byte
	TokenA     string
	TokenB     string
	AmountA    uint64
	AmountB    uint64
	Fee        uint64
	CreatedAt  uint64
	Executed   bool
	ExecutedAt uint64
}

func newStoredSwap(s *swap.Swap) *storedSwap {
	stored := &storedSwap{
		ID:        s.ID,
		Owner:     s.Owner,
		TokenA:    s.TokenA,
		TokenB:    s.TokenB,
		AmountA:   s.AmountA,
		AmountB:   s.AmountB,
		Fee:       s.Fee,
		CreatedAt: uint64(s.CreatedAt),
	}
	if s.ExecutedAt != nil {
		stored.Executed = true
		stored.ExecutedAt = uint64(*s.ExecutedAt)
	}
	return stored
}

func (s *storedSwap) toSwap() *swap.Swap {
	record := &swap.Swap{
		ID:        s.ID,
		Owner:     s.Owner,
		TokenA:    s.TokenA,
		TokenB:    s.TokenB,
		AmountA:   s.AmountA,
		AmountB:   s.AmountB,
		Fee:       s.Fee,
		CreatedAt: int64(s.CreatedAt),
	}
	if s.Executed {
		executedAt := int64(s.ExecutedAt)
		record.ExecutedAt = &executedAt
	}
	return record
}

type balanceEntry struct {
	Token  string
	Amount *big.Int
}

type storedAccount struct {
	Nonce           uint64
	Balances        []balanceEntry
	StorageReserved uint64
}

func newStoredAccount(a *types.Account) *storedAccount {
	stored := &storedAccount{
		Nonce:           a.Nonce,
		StorageReserved: a.StorageReserved,
	}
	for token, amount := range a.Balances {
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		stored.Balances = append(stored.Balances, balanceEntry{
			Token:  token,
			Amount: new(big.Int).Set(amount),
		})
	}
	sortBalances(stored.Balances)
	return stored
}

func (s *storedAccount) toAccount() *types.Account {
	account := &types.Account{
		Nonce:           s.Nonce,
		Balances:        make(map[string]*big.Int, len(s.Balances)),
		StorageReserved: s.StorageReserved,
	}
	for _, entry := range s.Balances {
		amount := entry.Amount
		if amount == nil {
			amount = big.NewInt(0)
		}
		account.Balances[entry.Token] = new(big.Int).Set(amount)
	}
	return account
}

// sortBalances keeps the encoded entry order deterministic regardless of map
// iteration order.
func sortBalances(entries []balanceEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Token < entries[j].Token })
}

type storedMintMetadata struct {
	Name        string
	Symbol      string
	URI         string
	Authority   [20]byte
	PublishedAt uint64
}
