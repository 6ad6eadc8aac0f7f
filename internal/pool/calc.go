package pool

import (
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
)

// calc chains fixed-point operations and keeps the first error. Once an
// error is recorded every later step returns zero.
type calc struct {
	err error
}

func (c *calc) step(f func(a, b *uint256.Int) (*uint256.Int, error), a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	v, err := f(a, b)
	if err != nil {
		c.err = err
		return new(uint256.Int)
	}
	return v
}

func (c *calc) add(a, b *uint256.Int) *uint256.Int     { return c.step(fixed.Add, a, b) }
func (c *calc) sub(a, b *uint256.Int) *uint256.Int     { return c.step(fixed.Sub, a, b) }
func (c *calc) mulDown(a, b *uint256.Int) *uint256.Int { return c.step(fixed.MulDown, a, b) }
func (c *calc) mulUp(a, b *uint256.Int) *uint256.Int   { return c.step(fixed.MulUp, a, b) }
func (c *calc) divDown(a, b *uint256.Int) *uint256.Int { return c.step(fixed.DivDown, a, b) }
func (c *calc) divUp(a, b *uint256.Int) *uint256.Int   { return c.step(fixed.DivUp, a, b) }
func (c *calc) powUp(a, b *uint256.Int) *uint256.Int   { return c.step(fixed.PowUp, a, b) }

// result returns v unless an error was recorded.
func (c *calc) result(v *uint256.Int) (*uint256.Int, error) {
	if c.err != nil {
		return nil, c.err
	}
	return v, nil
}

// ratioOf returns floor(balance * ratio / 1e18) without overflowing on
// virtual balances close to 2^256.
func ratioOf(balance, ratio *uint256.Int) *uint256.Int {
	z, _ := new(uint256.Int).MulDivOverflow(balance, ratio, fixed.One())
	return z
}
