package liquidity

import (
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

// fill returns n copies of v.
func fill(n int, v *uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, n)
	for i := range out {
		out[i] = v.Clone()
	}
	return out
}

// alignAmounts places each amount at its token's vault position; tokens not
// given are zero.
func alignAmounts(state model.PoolState, amounts []model.TokenAmount) []*uint256.Int {
	out := fill(len(state.Tokens), fixed.Zero())
	for _, a := range amounts {
		if i := state.IndexOf(a.Token.Address); i >= 0 {
			out[i] = a.Amount()
		}
	}
	return out
}

// withoutIndex returns a copy of v with position k removed; k < 0 copies v.
func withoutIndex(v []*uint256.Int, k int) []*uint256.Int {
	out := make([]*uint256.Int, 0, len(v))
	for i, x := range v {
		if i != k {
			out = append(out, x.Clone())
		}
	}
	return out
}

// userDataIndex maps a vault position to the position pool user data uses,
// which skips the share token.
func userDataIndex(state model.PoolState, full int) int {
	if bpt := state.BptIndex(); bpt >= 0 && full > bpt {
		return full - 1
	}
	return full
}

func mapAmounts(in []*uint256.Int, f func(*uint256.Int) (*uint256.Int, error)) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(in))
	for i, v := range in {
		r, err := f(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func rawAmounts(amounts []model.TokenAmount) []*uint256.Int {
	out := make([]*uint256.Int, len(amounts))
	for i, a := range amounts {
		out[i] = a.Amount()
	}
	return out
}
