package model

import "github.com/ethereum/go-ethereum/common"

// Token identifies an ERC20 on a chain together with its precision.
type Token struct {
	ChainID  uint64         `json:"chain_id" yaml:"chain_id"`
	Address  common.Address `json:"address" yaml:"address"`
	Decimals uint8          `json:"decimals" yaml:"decimals"`
	Symbol   string         `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// NewToken builds a token, rejecting precisions above 18 decimals.
func NewToken(chainID uint64, address common.Address, decimals uint8) (Token, error) {
	t := Token{ChainID: chainID, Address: address, Decimals: decimals}
	if err := t.Validate(); err != nil {
		return Token{}, err
	}
	return t, nil
}

// Validate checks the decimal precision.
func (t Token) Validate() error {
	if t.Decimals > MaxDecimals {
		return &DecimalsError{Address: t.Address, Decimals: t.Decimals}
	}
	return nil
}

// SameAddress compares addresses only.
func (t Token) SameAddress(other common.Address) bool {
	return t.Address == other
}

// Equal compares chain and address.
func (t Token) Equal(other Token) bool {
	return t.ChainID == other.ChainID && t.Address == other.Address
}
