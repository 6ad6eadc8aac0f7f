package model

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"poolKit/internal/fixed"
)

// Slippage is a tolerance fraction in 18-decimal fixed point.
type Slippage struct {
	value *uint256.Int
}

// NewSlippage wraps an 18-decimal fraction; it must be below 1e18.
func NewSlippage(value *uint256.Int) (Slippage, error) {
	if !value.Lt(fixed.One()) {
		return Slippage{}, fmt.Errorf("%w: %s is not below 100%%", ErrInvalidSlippage, value.Dec())
	}
	return Slippage{value: value.Clone()}, nil
}

// SlippageFromPercentage parses a percentage string: "1" is 1%, "0.5" is 0.5%.
func SlippageFromPercentage(percent string) (Slippage, error) {
	d, err := decimal.NewFromString(percent)
	if err != nil {
		return Slippage{}, fmt.Errorf("%w: %q: %v", ErrInvalidSlippage, percent, err)
	}
	if d.IsNegative() {
		return Slippage{}, fmt.Errorf("%w: %q is negative", ErrInvalidSlippage, percent)
	}
	// percent -> 18-decimal fraction
	shifted := d.Shift(16).Truncate(0)
	v, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return Slippage{}, fmt.Errorf("%w: %q", ErrInvalidSlippage, percent)
	}
	return NewSlippage(v)
}

// SlippageFromBasisPoints builds a tolerance from basis points (100 = 1%).
func SlippageFromBasisPoints(bps uint64) (Slippage, error) {
	return NewSlippage(new(uint256.Int).Mul(uint256.NewInt(bps), uint256.NewInt(100_000_000_000_000)))
}

// Value returns the 18-decimal fraction.
func (s Slippage) Value() *uint256.Int {
	if s.value == nil {
		return new(uint256.Int)
	}
	return s.value.Clone()
}

// ApplyTo inflates a maximum bound: amount * (1 + s), rounded down.
func (s Slippage) ApplyTo(amount *uint256.Int) (*uint256.Int, error) {
	factor, err := fixed.Add(fixed.One(), s.Value())
	if err != nil {
		return nil, err
	}
	return fixed.MulDown(amount, factor)
}

// RemoveFrom deflates a minimum bound: amount * (1 - s), rounded down.
func (s Slippage) RemoveFrom(amount *uint256.Int) (*uint256.Int, error) {
	factor, err := fixed.Sub(fixed.One(), s.Value())
	if err != nil {
		return nil, err
	}
	return fixed.MulDown(amount, factor)
}

func (s Slippage) String() string {
	return decimal.NewFromBigInt(s.Value().ToBig(), -16).String() + "%"
}
