// Package pool holds the invariant engines for the supported pool families
// and swap-capable value objects built on top of them.
package pool

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SwapKind selects which side of a swap is exact.
type SwapKind int

const (
	GivenIn SwapKind = iota
	GivenOut
)

func (k SwapKind) String() string {
	if k == GivenOut {
		return "GivenOut"
	}
	return "GivenIn"
}

// ParseSwapKind accepts "GivenIn" or "GivenOut" case-insensitively.
func ParseSwapKind(s string) (SwapKind, error) {
	switch {
	case strings.EqualFold(s, "GivenIn"):
		return GivenIn, nil
	case strings.EqualFold(s, "GivenOut"):
		return GivenOut, nil
	}
	return 0, fmt.Errorf("pool: unknown swap kind %q", s)
}

// Swapper quotes swaps against an in-memory pool snapshot. Amounts are raw
// token units.
type Swapper interface {
	SwapGivenIn(tokenIn, tokenOut common.Address, amountIn *uint256.Int) (*uint256.Int, error)
	SwapGivenOut(tokenIn, tokenOut common.Address, amountOut *uint256.Int) (*uint256.Int, error)
	LimitAmountSwap(tokenIn, tokenOut common.Address, kind SwapKind) (*uint256.Int, error)
}

var (
	_ Swapper = (*WeightedPool)(nil)
	_ Swapper = (*LinearPool)(nil)
)
