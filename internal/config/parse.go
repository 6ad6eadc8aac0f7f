package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseAddress converts a hex string into common.Address. Empty input is
// the zero address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParsePoolID converts a 32-byte hex pool id into common.Hash.
func ParsePoolID(input string) (common.Hash, error) {
	input = strings.TrimSpace(input)
	data, err := hexutil.Decode(input)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid pool id: %s", input)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid pool id length: %s", input)
	}
	return common.BytesToHash(data), nil
}

// ParseAmounts converts token=amount pairs keyed by address.
func ParseAmounts(input map[string]string) (map[common.Address]string, error) {
	out := make(map[common.Address]string, len(input))
	for token, amount := range input {
		addr, err := ParseAddress(token)
		if err != nil {
			return nil, err
		}
		if addr == (common.Address{}) {
			return nil, fmt.Errorf("amount %s has no token", amount)
		}
		out[addr] = amount
	}
	return out, nil
}

// ParseSignature decodes an optional hex signature.
func ParseSignature(input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	sig, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	return sig, nil
}
