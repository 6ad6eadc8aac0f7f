package model

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// MaxDecimals is the precision of normalized (scale18) amounts.
const MaxDecimals = 18

// TokenAmount pairs a token with a raw amount in its native decimals and the
// same amount normalized to 18 decimals. Values are never mutated; every
// accessor returns a copy.
type TokenAmount struct {
	Token   Token
	amount  *uint256.Int
	scale18 *uint256.Int
}

// FromRawAmount builds an amount from native-decimal units.
func FromRawAmount(token Token, raw *uint256.Int) (TokenAmount, error) {
	scalar, err := scalarFor(token)
	if err != nil {
		return TokenAmount{}, err
	}
	scaled, overflow := new(uint256.Int).MulOverflow(raw, scalar)
	if overflow {
		return TokenAmount{}, fmt.Errorf("%w: %s overflows when scaled", ErrInvalidAmount, raw.Dec())
	}
	return TokenAmount{Token: token, amount: raw.Clone(), scale18: scaled}, nil
}

// FromHumanAmount parses a decimal string such as "1.5" in whole-token units.
// Precision beyond the token's decimals is rejected rather than truncated.
func FromHumanAmount(token Token, human string) (TokenAmount, error) {
	d, err := decimal.NewFromString(human)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, human, err)
	}
	if d.IsNegative() {
		return TokenAmount{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, human)
	}
	shifted := d.Shift(int32(token.Decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return TokenAmount{}, fmt.Errorf("%w: %q exceeds %d decimals", ErrInvalidAmount, human, token.Decimals)
	}
	raw, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return TokenAmount{}, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, human)
	}
	return FromRawAmount(token, raw)
}

// FromScale18Amount builds an amount from an 18-decimal value, rounding the
// native amount down.
func FromScale18Amount(token Token, scale18 *uint256.Int) (TokenAmount, error) {
	scalar, err := scalarFor(token)
	if err != nil {
		return TokenAmount{}, err
	}
	raw := new(uint256.Int).Div(scale18, scalar)
	return FromRawAmount(token, raw)
}

// FromScale18AmountUp builds an amount from an 18-decimal value, rounding the
// native amount up.
func FromScale18AmountUp(token Token, scale18 *uint256.Int) (TokenAmount, error) {
	scalar, err := scalarFor(token)
	if err != nil {
		return TokenAmount{}, err
	}
	raw, rem := new(uint256.Int), new(uint256.Int)
	raw.DivMod(scale18, scalar, rem)
	if !rem.IsZero() {
		raw.AddUint64(raw, 1)
	}
	return FromRawAmount(token, raw)
}

// Amount returns the raw amount in native decimals.
func (ta TokenAmount) Amount() *uint256.Int {
	if ta.amount == nil {
		return new(uint256.Int)
	}
	return ta.amount.Clone()
}

// Scale18 returns the amount normalized to 18 decimals.
func (ta TokenAmount) Scale18() *uint256.Int {
	if ta.scale18 == nil {
		return new(uint256.Int)
	}
	return ta.scale18.Clone()
}

// Human formats the raw amount in whole-token units.
func (ta TokenAmount) Human() string {
	return decimal.NewFromBigInt(ta.Amount().ToBig(), -int32(ta.Token.Decimals)).String()
}

func (ta TokenAmount) String() string {
	return fmt.Sprintf("%s %s", ta.Human(), ta.Token.Address.Hex())
}

// Scalar returns 10^(18-decimals) for the token.
func Scalar(token Token) (*uint256.Int, error) {
	return scalarFor(token)
}

func scalarFor(token Token) (*uint256.Int, error) {
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(MaxDecimals-token.Decimals))), nil
}
