package types

import "math/big"

// Account tracks the fungible balances held by a single address alongside the
// storage allowance reserved by the records it owns. Balances are keyed by
// token symbol so the transfer ledger can settle any currency the swap and
// payment flows reference.
type Account struct {
	Nonce           uint64              `json:"nonce"`
	Balances        map[string]*big.Int `json:"balances"`
	StorageReserved uint64              `json:"storageReserved"`
}

// Balance returns the balance held for the supplied token symbol, never nil.
func (a *Account) Balance(token string) *big.Int {
	if a == nil || a.Balances == nil {
		return big.NewInt(0)
	}
	bal, ok := a.Balances[token]
	if !ok || bal == nil {
		return big.NewInt(0)
	}
	return bal
}

// SetBalance records the balance for the supplied token symbol.
func (a *Account) SetBalance(token string, amount *big.Int) {
	if a == nil {
		return
	}
	if a.Balances == nil {
		a.Balances = make(map[string]*big.Int)
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	a.Balances[token] = amount
}
