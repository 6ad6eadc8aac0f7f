package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// PoolType tags a pool family.
type PoolType string

const (
	PoolTypeWeighted         PoolType = "WEIGHTED"
	PoolTypeComposableStable PoolType = "PHANTOM_STABLE"
	PoolTypeGyro2            PoolType = "GYRO2"
	PoolTypeGyro3            PoolType = "GYRO3"
	PoolTypeGyroE            PoolType = "GYROE"
	PoolTypeLinear           PoolType = "LINEAR"
)

// PoolTypes lists every known family in a stable order.
var PoolTypes = []PoolType{
	PoolTypeWeighted,
	PoolTypeComposableStable,
	PoolTypeGyro2,
	PoolTypeGyro3,
	PoolTypeGyroE,
	PoolTypeLinear,
}

var poolTypeAliases = map[PoolType]PoolType{
	"COMPOSABLE_STABLE": PoolTypeComposableStable,
	"AAVE_LINEAR":       PoolTypeLinear,
	"ERC4626_LINEAR":    PoolTypeLinear,
}

// ParsePoolType accepts a pool type case-insensitively, including the
// subgraph aliases of composable and linear pools.
func ParsePoolType(s string) (PoolType, error) {
	v := PoolType(strings.ToUpper(strings.TrimSpace(s)))
	if alias, ok := poolTypeAliases[v]; ok {
		return alias, nil
	}
	for _, pt := range PoolTypes {
		if pt == v {
			return pt, nil
		}
	}
	return "", fmt.Errorf("model: unknown pool type %q", s)
}

// PoolToken is a member token at its vault position.
type PoolToken struct {
	Token `yaml:",inline"`
	Index int `json:"index" yaml:"index"`
}

// PoolState is the on-chain shape of a pool as the vault reports it. Tokens
// are in vault order (ascending address); composable pools include their own
// share token at BptIndex.
type PoolState struct {
	ChainID uint64         `json:"chain_id" yaml:"chain_id"`
	ID      common.Hash    `json:"id" yaml:"id"`
	Address common.Address `json:"address" yaml:"address"`
	Type    PoolType       `json:"type" yaml:"type"`
	Tokens  []PoolToken    `json:"tokens" yaml:"tokens"`
}

// PoolAddressFromID extracts the pool address, the first 20 bytes of a vault
// pool id.
func PoolAddressFromID(id common.Hash) common.Address {
	return common.BytesToAddress(id[:common.AddressLength])
}

// NewPoolState builds a pool state from vault-ordered tokens.
func NewPoolState(chainID uint64, id common.Hash, poolType PoolType, tokens []Token) PoolState {
	members := make([]PoolToken, len(tokens))
	for i, t := range tokens {
		members[i] = PoolToken{Token: t, Index: i}
	}
	return PoolState{
		ChainID: chainID,
		ID:      id,
		Address: PoolAddressFromID(id),
		Type:    poolType,
		Tokens:  members,
	}
}

// BptIndex returns the position of the pool's own share token, or -1.
func (p PoolState) BptIndex() int {
	return p.IndexOf(p.Address)
}

// IndexOf returns the position of address among the members, or -1.
func (p PoolState) IndexOf(address common.Address) int {
	for i, t := range p.Tokens {
		if t.Address == address {
			return i
		}
	}
	return -1
}

// Addresses returns member addresses in vault order.
func (p PoolState) Addresses() []common.Address {
	out := make([]common.Address, len(p.Tokens))
	for i, t := range p.Tokens {
		out[i] = t.Address
	}
	return out
}

// TokensWithoutBpt returns the members with the share token removed.
func (p PoolState) TokensWithoutBpt() []PoolToken {
	out := make([]PoolToken, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		if t.Address != p.Address {
			out = append(out, t)
		}
	}
	return out
}

// BptToken returns the pool's share token description (18 decimals).
func (p PoolState) BptToken() Token {
	return Token{ChainID: p.ChainID, Address: p.Address, Decimals: MaxDecimals}
}

// Validate checks the structural invariants every pool state must hold.
func (p PoolState) Validate() error {
	if p.Address != PoolAddressFromID(p.ID) {
		return fmt.Errorf("model: pool %s address %s does not match id", p.ID.Hex(), p.Address.Hex())
	}
	if len(p.Tokens) == 0 {
		return fmt.Errorf("model: pool %s has no tokens", p.ID.Hex())
	}
	seen := make(map[common.Address]struct{}, len(p.Tokens))
	for i, t := range p.Tokens {
		if err := t.Validate(); err != nil {
			return err
		}
		if t.Index != i {
			return fmt.Errorf("model: pool %s token %s at position %d has index %d", p.ID.Hex(), t.Address.Hex(), i, t.Index)
		}
		if _, dup := seen[t.Address]; dup {
			return fmt.Errorf("model: pool %s lists token %s twice", p.ID.Hex(), t.Address.Hex())
		}
		seen[t.Address] = struct{}{}
	}
	return nil
}
