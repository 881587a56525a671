package donations

import (
	"math/big"

	"blinkchain/native/records"
)

// Donation is an immutable receipt of a settled gift. There is no update or
// delete path: once the ledger transfer clears, the record is history.
type Donation struct {
	ID        [32]byte `json:"id"`
	Donor     [20]byte `json:"donor"`
	Recipient [20]byte `json:"recipient"`
	Amount    *big.Int `json:"amount"`
	Currency  string   `json:"currency"`
	Message   string   `json:"message"`
	Timestamp int64    `json:"timestamp"`
}

// Clone returns a deep copy of the donation record.
func (d *Donation) Clone() *Donation {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Amount != nil {
		clone.Amount = new(big.Int).Set(d.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// Shape declares the validated field surface of a donation.
var Shape = records.Shape{
	Kind: "donation",
	Limits: map[string]int{
		"message": 200,
	},
}

const maxCurrencyLen = 10
