// Package fixed implements 18-decimal fixed-point arithmetic over unsigned
// 256-bit integers with an explicit rounding direction per operation.
//
// Every function is pure: inputs are never modified and a fresh value is
// returned. Overflow, underflow and division by zero are reported as errors,
// never wrapped around.
package fixed

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow       = errors.New("fixed: overflow")
	ErrUnderflow      = errors.New("fixed: underflow")
	ErrDivisionByZero = errors.New("fixed: division by zero")
)

const oneUint64 = 1_000_000_000_000_000_000

var (
	one  = uint256.NewInt(oneUint64)
	two  = uint256.NewInt(2 * oneUint64)
	four = uint256.NewInt(4 * oneUint64)

	// maxPowRelativeError is 1e-14 in fixed point.
	maxPowRelativeError = uint256.NewInt(10_000)

	maxUint256 = new(uint256.Int).SetAllOne()
)

// One returns 1.0 (10^18).
func One() *uint256.Int { return new(uint256.Int).Set(one) }

// MaxUint256 returns 2^256 - 1.
func MaxUint256() *uint256.Int { return new(uint256.Int).Set(maxUint256) }

// Zero returns a fresh zero value.
func Zero() *uint256.Int { return new(uint256.Int) }

// Add returns a + b.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a - b.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// MulDown returns floor(a * b / 1e18).
func MulDown(a, b *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return product.Div(product, one), nil
}

// MulUp returns ceil(a * b / 1e18).
func MulUp(a, b *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	if product.IsZero() {
		return product, nil
	}
	product.SubUint64(product, 1)
	product.Div(product, one)
	return product.AddUint64(product, 1), nil
}

// DivDown returns floor(a * 1e18 / b).
func DivDown(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	if a.IsZero() {
		return Zero(), nil
	}
	inflated, overflow := new(uint256.Int).MulOverflow(a, one)
	if overflow {
		return nil, ErrOverflow
	}
	return inflated.Div(inflated, b), nil
}

// DivUp returns ceil(a * 1e18 / b).
func DivUp(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivisionByZero
	}
	if a.IsZero() {
		return Zero(), nil
	}
	inflated, overflow := new(uint256.Int).MulOverflow(a, one)
	if overflow {
		return nil, ErrOverflow
	}
	inflated.SubUint64(inflated, 1)
	inflated.Div(inflated, b)
	return inflated.AddUint64(inflated, 1), nil
}

// Complement returns 1 - x, floored at zero.
func Complement(x *uint256.Int) *uint256.Int {
	if x.Cmp(one) >= 0 {
		return Zero()
	}
	return new(uint256.Int).Sub(one, x)
}

// PowDown returns x^y rounded down, accounting for the bounded relative
// error of the exponential approximation.
func PowDown(x, y *uint256.Int) (*uint256.Int, error) {
	switch {
	case y.Eq(one):
		return new(uint256.Int).Set(x), nil
	case y.Eq(two):
		return MulDown(x, x)
	case y.Eq(four):
		square, err := MulDown(x, x)
		if err != nil {
			return nil, err
		}
		return MulDown(square, square)
	}

	raw, err := Pow(x, y)
	if err != nil {
		return nil, err
	}
	maxError, err := powError(raw)
	if err != nil {
		return nil, err
	}
	if raw.Lt(maxError) {
		return Zero(), nil
	}
	return raw.Sub(raw, maxError), nil
}

// PowUp returns x^y rounded up, accounting for the bounded relative error of
// the exponential approximation.
func PowUp(x, y *uint256.Int) (*uint256.Int, error) {
	switch {
	case y.Eq(one):
		return new(uint256.Int).Set(x), nil
	case y.Eq(two):
		return MulUp(x, x)
	case y.Eq(four):
		square, err := MulUp(x, x)
		if err != nil {
			return nil, err
		}
		return MulUp(square, square)
	}

	raw, err := Pow(x, y)
	if err != nil {
		return nil, err
	}
	maxError, err := powError(raw)
	if err != nil {
		return nil, err
	}
	return Add(raw, maxError)
}

func powError(raw *uint256.Int) (*uint256.Int, error) {
	maxError, err := MulUp(raw, maxPowRelativeError)
	if err != nil {
		return nil, err
	}
	return maxError.AddUint64(maxError, 1), nil
}
