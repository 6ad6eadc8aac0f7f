package liquidity

import (
	"fmt"

	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

// ExitAmounts are the bounds of an exit in vault token order.
type ExitAmounts struct {
	MinAmountsOut           []*uint256.Int
	MinAmountsOutWithoutBpt []*uint256.Int
	TokenOutIndex           int
	UserDataTokenIndex      int
	MaxBptIn                *uint256.Int
}

func newExitAmounts(state model.PoolState, minOut []*uint256.Int, tokenIndex int, maxBpt *uint256.Int) ExitAmounts {
	e := ExitAmounts{
		MinAmountsOut:           minOut,
		MinAmountsOutWithoutBpt: withoutIndex(minOut, state.BptIndex()),
		TokenOutIndex:           tokenIndex,
		UserDataTokenIndex:      -1,
		MaxBptIn:                maxBpt,
	}
	if tokenIndex >= 0 {
		e.UserDataTokenIndex = userDataIndex(state, tokenIndex)
	}
	return e
}

// RemoveQueryAmounts derives the bounds sent to the quote simulator.
func RemoveQueryAmounts(state model.PoolState, input RemoveInput) (ExitAmounts, error) {
	if err := ValidateRemove(state, input); err != nil {
		return ExitAmounts{}, err
	}
	n := len(state.Tokens)

	switch in := input.(type) {
	case RemoveUnbalanced:
		return newExitAmounts(state, alignAmounts(state, in.AmountsOut), -1, fixed.MaxUint256()), nil
	case RemoveSingleTokenExactOut:
		idx := state.IndexOf(in.AmountOut.Token.Address)
		return newExitAmounts(state, alignAmounts(state, []model.TokenAmount{in.AmountOut}), idx, fixed.MaxUint256()), nil
	case RemoveSingleTokenExactIn:
		return newExitAmounts(state, fill(n, fixed.Zero()), state.IndexOf(in.TokenOut), in.BptIn.Amount()), nil
	case RemoveProportional:
		return newExitAmounts(state, fill(n, fixed.Zero()), -1, in.BptIn.Amount()), nil
	case RemoveRecovery:
		return newExitAmounts(state, fill(n, fixed.Zero()), -1, in.BptIn.Amount()), nil
	}
	return ExitAmounts{}, kindError(state, input.Kind())
}

// RemoveQueryResult is what the quote simulator returned for an exit.
type RemoveQueryResult struct {
	Kind  RemoveKind
	BptIn model.TokenAmount
	// AmountsOut is aligned with the pool members, share token included.
	AmountsOut    []model.TokenAmount
	TokenOutIndex int
}

// RemoveBuildAmounts applies slippage to a quoted exit.
func RemoveBuildAmounts(state model.PoolState, quote RemoveQueryResult, slippage model.Slippage) (ExitAmounts, error) {
	if len(quote.AmountsOut) != len(state.Tokens) {
		return ExitAmounts{}, invalid(state.ID, "quote has %d amounts for %d tokens", len(quote.AmountsOut), len(state.Tokens))
	}
	amounts := rawAmounts(quote.AmountsOut)

	switch quote.Kind {
	case RemoveUnbalancedKind, RemoveSingleTokenExactOutKind:
		maxBpt, err := slippage.ApplyTo(quote.BptIn.Amount())
		if err != nil {
			return ExitAmounts{}, err
		}
		return newExitAmounts(state, amounts, quote.TokenOutIndex, maxBpt), nil
	case RemoveSingleTokenExactInKind, RemoveProportionalKind, RemoveRecoveryKind:
		minOut, err := mapAmounts(amounts, slippage.RemoveFrom)
		if err != nil {
			return ExitAmounts{}, fmt.Errorf("liquidity: remove slippage: %w", err)
		}
		return newExitAmounts(state, minOut, quote.TokenOutIndex, quote.BptIn.Amount()), nil
	}
	return ExitAmounts{}, kindError(state, quote.Kind)
}
