package nft

import "blinkchain/native/records"

// NFT is a minted token record. Collection is a non-owning back-reference to
// a Collection id: it starts unset and may be assigned exactly once by the
// collection's owner. Deleting a collection does not touch its NFTs.
type NFT struct {
	ID         [32]byte `json:"id"`
	Owner      [20]byte `json:"owner"`
	Mint       [32]byte `json:"mint"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
	URI        string   `json:"uri"`
	Collection [32]byte `json:"collection"`
	CreatedAt  int64    `json:"createdAt"`
}

// InCollection reports whether the back-reference has been assigned.
func (n *NFT) InCollection() bool {
	var zero [32]byte
	return n != nil && n.Collection != zero
}

// Clone returns a copy callers can mutate without affecting the stored value.
func (n *NFT) Clone() *NFT {
	if n == nil {
		return nil
	}
	clone := *n
	return &clone
}

// Collection groups NFTs under a shared catalog entry.
type Collection struct {
	ID        [32]byte `json:"id"`
	Owner     [20]byte `json:"owner"`
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	URI       string   `json:"uri"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// Clone returns a copy callers can mutate without affecting the stored value.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Shape declares the validated field surface shared by NFTs, collections and
// mint metadata.
var Shape = records.Shape{
	Kind: "nft",
	Limits: map[string]int{
		"name":   32,
		"symbol": 10,
	},
}
