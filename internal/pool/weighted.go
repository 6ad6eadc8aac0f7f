package pool

import (
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
)

var (
	// MaxInRatio and MaxOutRatio cap a single swap at 30% of a balance.
	MaxInRatio  = uint256.NewInt(300_000_000_000_000_000)
	MaxOutRatio = uint256.NewInt(300_000_000_000_000_000)
)

// OutGivenIn returns the amount of tokenOut paid for amountIn of tokenIn in a
// weighted pool. All values are 18-decimal. The result rounds in favour of
// the pool.
func OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn *uint256.Int) (*uint256.Int, error) {
	if limit := ratioOf(balanceIn, MaxInRatio); amountIn.Gt(limit) {
		return nil, &RangeError{Side: SideIn, Bound: "max in ratio", Amount: amountIn.Clone(), Limit: limit}
	}

	var c calc
	denominator := c.add(balanceIn, amountIn)
	base := c.divUp(balanceIn, denominator)
	exponent := c.divDown(weightIn, weightOut)
	power := c.powUp(base, exponent)
	if c.err != nil {
		return nil, c.err
	}
	return c.result(c.mulDown(balanceOut, fixed.Complement(power)))
}

// InGivenOut returns the amount of tokenIn required to receive amountOut of
// tokenOut. amountOut must be strictly below balanceOut.
func InGivenOut(balanceIn, weightIn, balanceOut, weightOut, amountOut *uint256.Int) (*uint256.Int, error) {
	if limit := ratioOf(balanceOut, MaxOutRatio); amountOut.Gt(limit) {
		return nil, &RangeError{Side: SideOut, Bound: "max out ratio", Amount: amountOut.Clone(), Limit: limit}
	}
	if !amountOut.Lt(balanceOut) {
		return nil, &RangeError{Side: SideOut, Bound: "balance", Amount: amountOut.Clone(), Limit: balanceOut.Clone()}
	}

	var c calc
	base := c.divUp(balanceOut, c.sub(balanceOut, amountOut))
	exponent := c.divUp(weightOut, weightIn)
	power := c.powUp(base, exponent)
	ratio := c.sub(power, fixed.One())
	return c.result(c.mulUp(balanceIn, ratio))
}

// ProportionalAmounts returns each balance's share of bptAmount out of
// totalShares, rounded down.
func ProportionalAmounts(balances []*uint256.Int, totalShares, bptAmount *uint256.Int) ([]*uint256.Int, error) {
	if totalShares.IsZero() {
		return nil, fixed.ErrDivisionByZero
	}
	out := make([]*uint256.Int, len(balances))
	for i, b := range balances {
		v, overflow := new(uint256.Int).MulDivOverflow(b, bptAmount, totalShares)
		if overflow {
			return nil, fixed.ErrOverflow
		}
		out[i] = v
	}
	return out, nil
}
