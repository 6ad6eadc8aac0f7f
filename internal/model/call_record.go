package model

// CallRecord is one query or build result as written to a results sink.
// Amounts are decimal strings in raw token units; Data is 0x-prefixed hex.
type CallRecord struct {
	ChainID    uint64   `json:"chain_id"`
	Operation  string   `json:"operation"`
	PoolID     string   `json:"pool_id"`
	PoolType   string   `json:"pool_type"`
	Kind       string   `json:"kind"`
	BptIndex   int      `json:"bpt_index"`
	TokenIndex int      `json:"token_index"`
	Bpt        string   `json:"bpt"`
	Tokens     []string `json:"tokens"`
	Amounts    []string `json:"amounts"`
	To         string   `json:"to,omitempty"`
	Value      string   `json:"value,omitempty"`
	Data       string   `json:"data,omitempty"`
	CreatedAt  string   `json:"created_at"`
}
