package liquidity

import (
	"fmt"

	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

// JoinAmounts are the bounds of a join in vault token order.
type JoinAmounts struct {
	// MaxAmountsIn has one entry per pool member, share token included.
	MaxAmountsIn []*uint256.Int
	// MaxAmountsInWithoutBpt is MaxAmountsIn with the share token slot
	// removed; equal to MaxAmountsIn for pools without one.
	MaxAmountsInWithoutBpt []*uint256.Int
	// TokenInIndex is the vault position of the single token, or -1.
	TokenInIndex int
	// UserDataTokenIndex is TokenInIndex counted without the share token.
	UserDataTokenIndex int
	MinimumBpt         *uint256.Int
}

func newJoinAmounts(state model.PoolState, maxIn []*uint256.Int, tokenIndex int, minBpt *uint256.Int) JoinAmounts {
	j := JoinAmounts{
		MaxAmountsIn:           maxIn,
		MaxAmountsInWithoutBpt: withoutIndex(maxIn, state.BptIndex()),
		TokenInIndex:           tokenIndex,
		UserDataTokenIndex:     -1,
		MinimumBpt:             minBpt,
	}
	if tokenIndex >= 0 {
		j.UserDataTokenIndex = userDataIndex(state, tokenIndex)
	}
	return j
}

// AddQueryAmounts derives the bounds sent to the quote simulator.
func AddQueryAmounts(state model.PoolState, input AddInput) (JoinAmounts, error) {
	if err := ValidateAdd(state, input); err != nil {
		return JoinAmounts{}, err
	}
	n := len(state.Tokens)

	switch in := input.(type) {
	case AddUnbalanced:
		return newJoinAmounts(state, alignAmounts(state, in.AmountsIn), -1, fixed.Zero()), nil
	case AddSingleToken:
		idx := state.IndexOf(in.TokenIn)
		maxIn := fill(n, fixed.Zero())
		maxIn[idx] = fixed.MaxUint256()
		return newJoinAmounts(state, maxIn, idx, in.BptOut.Amount()), nil
	case AddProportional:
		return newJoinAmounts(state, fill(n, fixed.MaxUint256()), -1, in.BptOut.Amount()), nil
	case AddInit:
		return JoinAmounts{}, &UnsupportedError{PoolType: state.Type, Operation: "query of Init"}
	}
	return JoinAmounts{}, kindError(state, input.Kind())
}

// AddInitAmounts derives the bounds of a pool initialisation, which is
// never quoted.
func AddInitAmounts(state model.PoolState, input AddInit) (JoinAmounts, error) {
	if err := ValidateAdd(state, input); err != nil {
		return JoinAmounts{}, err
	}
	return newJoinAmounts(state, alignAmounts(state, input.AmountsIn), -1, fixed.Zero()), nil
}

// AddQueryResult is what the quote simulator returned for a join.
type AddQueryResult struct {
	Kind   AddKind
	BptOut model.TokenAmount
	// AmountsIn is aligned with the pool members, share token included.
	AmountsIn    []model.TokenAmount
	TokenInIndex int
}

// AddBuildAmounts applies slippage to a quoted join. The side the caller
// fixed exactly is never adjusted.
func AddBuildAmounts(state model.PoolState, quote AddQueryResult, slippage model.Slippage) (JoinAmounts, error) {
	if len(quote.AmountsIn) != len(state.Tokens) {
		return JoinAmounts{}, invalid(state.ID, "quote has %d amounts for %d tokens", len(quote.AmountsIn), len(state.Tokens))
	}
	amounts := rawAmounts(quote.AmountsIn)

	switch quote.Kind {
	case AddUnbalancedKind:
		minBpt, err := slippage.RemoveFrom(quote.BptOut.Amount())
		if err != nil {
			return JoinAmounts{}, err
		}
		return newJoinAmounts(state, amounts, -1, minBpt), nil
	case AddSingleTokenKind, AddProportionalKind:
		maxIn, err := mapAmounts(amounts, slippage.ApplyTo)
		if err != nil {
			return JoinAmounts{}, fmt.Errorf("liquidity: apply slippage: %w", err)
		}
		return newJoinAmounts(state, maxIn, quote.TokenInIndex, quote.BptOut.Amount()), nil
	case AddInitKind:
		return JoinAmounts{}, &UnsupportedError{PoolType: state.Type, Operation: "slippage on Init"}
	}
	return JoinAmounts{}, kindError(state, quote.Kind)
}
