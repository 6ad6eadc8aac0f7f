package main

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/config"
	"poolKit/internal/liquidity"
	"poolKit/internal/model"
)

// intentArgs are the flag values an add or remove intent is built from.
// Amounts are human units keyed by token address.
type intentArgs struct {
	Kind    string
	Amounts map[string]string
	Bpt     string
	Token   string
}

func argsFromConfig(cfg config.Config) intentArgs {
	return intentArgs{Kind: cfg.Kind, Amounts: cfg.Amounts, Bpt: cfg.Bpt, Token: cfg.Token}
}

func addIntent(state model.PoolState, args intentArgs) (liquidity.AddInput, error) {
	kind, err := liquidity.ParseAddKind(args.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case liquidity.AddInitKind:
		amounts, err := tokenAmountsFor(state, args.Amounts)
		if err != nil {
			return nil, err
		}
		return liquidity.AddInit{AmountsIn: amounts}, nil
	case liquidity.AddUnbalancedKind:
		amounts, err := tokenAmountsFor(state, args.Amounts)
		if err != nil {
			return nil, err
		}
		return liquidity.AddUnbalanced{AmountsIn: amounts}, nil
	case liquidity.AddSingleTokenKind:
		bpt, err := bptAmount(state, args.Bpt)
		if err != nil {
			return nil, err
		}
		token, err := requireToken(args.Token)
		if err != nil {
			return nil, err
		}
		return liquidity.AddSingleToken{BptOut: bpt, TokenIn: token}, nil
	default:
		bpt, err := bptAmount(state, args.Bpt)
		if err != nil {
			return nil, err
		}
		return liquidity.AddProportional{BptOut: bpt}, nil
	}
}

func removeIntent(state model.PoolState, args intentArgs) (liquidity.RemoveInput, error) {
	kind, err := liquidity.ParseRemoveKind(args.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case liquidity.RemoveUnbalancedKind:
		amounts, err := tokenAmountsFor(state, args.Amounts)
		if err != nil {
			return nil, err
		}
		return liquidity.RemoveUnbalanced{AmountsOut: amounts}, nil
	case liquidity.RemoveSingleTokenExactOutKind:
		amounts, err := tokenAmountsFor(state, args.Amounts)
		if err != nil {
			return nil, err
		}
		if len(amounts) != 1 {
			return nil, fmt.Errorf("%s takes exactly one amount, got %d", kind, len(amounts))
		}
		return liquidity.RemoveSingleTokenExactOut{AmountOut: amounts[0]}, nil
	case liquidity.RemoveSingleTokenExactInKind:
		bpt, err := bptAmount(state, args.Bpt)
		if err != nil {
			return nil, err
		}
		token, err := requireToken(args.Token)
		if err != nil {
			return nil, err
		}
		return liquidity.RemoveSingleTokenExactIn{BptIn: bpt, TokenOut: token}, nil
	case liquidity.RemoveRecoveryKind:
		bpt, err := bptAmount(state, args.Bpt)
		if err != nil {
			return nil, err
		}
		return liquidity.RemoveRecovery{BptIn: bpt}, nil
	default:
		bpt, err := bptAmount(state, args.Bpt)
		if err != nil {
			return nil, err
		}
		return liquidity.RemoveProportional{BptIn: bpt}, nil
	}
}

// tokenAmountsFor converts human amounts using the decimals the pool
// reports, ordered by pool position.
func tokenAmountsFor(state model.PoolState, raw map[string]string) ([]model.TokenAmount, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --amount is required")
	}
	parsed, err := config.ParseAmounts(raw)
	if err != nil {
		return nil, err
	}
	type indexed struct {
		index  int
		amount model.TokenAmount
	}
	out := make([]indexed, 0, len(parsed))
	for addr, human := range parsed {
		i := state.IndexOf(addr)
		if i < 0 {
			return nil, fmt.Errorf("token %s is not in pool %s", addr.Hex(), state.ID.Hex())
		}
		amount, err := model.FromHumanAmount(state.Tokens[i].Token, human)
		if err != nil {
			return nil, err
		}
		out = append(out, indexed{index: i, amount: amount})
	}
	slices.SortFunc(out, func(a, b indexed) int { return a.index - b.index })

	amounts := make([]model.TokenAmount, len(out))
	for i, a := range out {
		amounts[i] = a.amount
	}
	return amounts, nil
}

func bptAmount(state model.PoolState, human string) (model.TokenAmount, error) {
	if human == "" {
		return model.TokenAmount{}, fmt.Errorf("--bpt is required")
	}
	return model.FromHumanAmount(state.BptToken(), human)
}

func requireToken(input string) (common.Address, error) {
	addr, err := config.ParseAddress(input)
	if err != nil {
		return common.Address{}, err
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("--token is required")
	}
	return addr, nil
}
