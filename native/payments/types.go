package payments

import (
	"math/big"

	"blinkchain/native/records"
)

// Status tracks the settlement lifecycle of a payment.
type Status uint8

const (
	StatusPending Status = iota
	StatusCompleted
	StatusFailed
	StatusRefunded
)

// Valid reports whether the status value is within the supported range.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// String renders the canonical lowercase label for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Payment records a settled (or attempted) transfer between two parties.
type Payment struct {
	ID          [32]byte `json:"id"`
	Payer       [20]byte `json:"payer"`
	Recipient   [20]byte `json:"recipient"`
	Amount      *big.Int `json:"amount"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Timestamp   int64    `json:"timestamp"`
}

// Clone returns a deep copy of the payment record.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Amount != nil {
		clone.Amount = new(big.Int).Set(p.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// Shape declares the validated field surface of a payment.
var Shape = records.Shape{
	Kind: "payment",
	Limits: map[string]int{
		"description": 200,
	},
}

const maxCurrencyLen = 10
