package swap

// Swap holds a two-sided liquidity intent. Amounts and fee are fixed at
// creation; ExecutedAt stays nil until both settlement legs clear, after
// which the swap is terminal.
type Swap struct {
	ID         [32]byte `json:"id"`
	Owner      [20]byte `json:"owner"`
	TokenA     string   `json:"tokenA"`
	TokenB     string   `json:"tokenB"`
	AmountA    uint64   `json:"amountA"`
	AmountB    uint64   `json:"amountB"`
	Fee        uint64   `json:"fee"`
	CreatedAt  int64    `json:"createdAt"`
	ExecutedAt *int64   `json:"executedAt,omitempty"`
}

// Executed reports whether the swap has reached its terminal state.
func (s *Swap) Executed() bool { return s != nil && s.ExecutedAt != nil }

// Clone returns a deep copy of the swap record.
func (s *Swap) Clone() *Swap {
	if s == nil {
		return nil
	}
	clone := *s
	if s.ExecutedAt != nil {
		at := *s.ExecutedAt
		clone.ExecutedAt = &at
	}
	return &clone
}

// Leg names the two balance holders a settlement leg moves value between.
type Leg struct {
	From [20]byte
	To   [20]byte
}
