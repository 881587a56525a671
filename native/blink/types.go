package blink

import "blinkchain/native/records"

// BlinkType classifies the intent of a profile card.
type BlinkType uint8

const (
	TypeStandard BlinkType = iota
	TypeNFT
	TypeDonation
	TypeGift
	TypePayment
	TypePoll
)

// Valid reports whether the type value is within the supported range.
func (t BlinkType) Valid() bool {
	switch t {
	case TypeStandard, TypeNFT, TypeDonation, TypeGift, TypePayment, TypePoll:
		return true
	default:
		return false
	}
}

// String renders the canonical lowercase label for the type.
func (t BlinkType) String() string {
	switch t {
	case TypeStandard:
		return "standard"
	case TypeNFT:
		return "nft"
	case TypeDonation:
		return "donation"
	case TypeGift:
		return "gift"
	case TypePayment:
		return "payment"
	case TypePoll:
		return "poll"
	default:
		return "unknown"
	}
}

// Blink is a single-owner profile card. The owner and id never change after
// creation; the remaining fields are replaced wholesale on update.
type Blink struct {
	ID          [32]byte  `json:"id"`
	Owner       [20]byte  `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Type        BlinkType `json:"type"`
	CreatedAt   int64     `json:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt"`
}

// Clone returns a copy callers can mutate without affecting the stored value.
func (b *Blink) Clone() *Blink {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

// Shape declares the validated field surface of a blink.
var Shape = records.Shape{
	Kind: "blink",
	Limits: map[string]int{
		"name":        50,
		"description": 200,
	},
}
