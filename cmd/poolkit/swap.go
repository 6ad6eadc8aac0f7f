package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/config"
	"poolKit/internal/model"
	"poolKit/internal/pool"
)

type swapView struct {
	PoolID    string `json:"pool_id"`
	Kind      string `json:"kind"`
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	Limit     string `json:"limit"`
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against a weighted or linear pool snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			return runSwap(cmd, e)
		},
	}
	cmd.Flags().String("pool-id", "", "pool id (bytes32 hex)")
	cmd.Flags().String("pool-type", "WEIGHTED", "pool type (WEIGHTED, LINEAR)")
	cmd.Flags().String("kind", "GivenIn", "swap kind (GivenIn, GivenOut)")
	cmd.Flags().String("token", "", "token in")
	cmd.Flags().String("token-out", "", "token out")
	cmd.Flags().StringSlice("amount", nil, "token=amount of the exact side in human units")
	return cmd
}

func runSwap(cmd *cobra.Command, e *env) error {
	kind, err := pool.ParseSwapKind(e.cfg.Kind)
	if err != nil {
		return err
	}
	state, err := e.poolState()
	if err != nil {
		return err
	}
	provider, err := e.chainProvider()
	if err != nil {
		return err
	}
	swapper, err := provider.Swapper(e.ctx, state)
	if err != nil {
		return err
	}

	tokenIn, err := requireToken(e.cfg.Token)
	if err != nil {
		return err
	}
	tokenOut, err := config.ParseAddress(e.cfg.TokenOut)
	if err != nil {
		return err
	}
	exactSide := tokenIn
	if kind == pool.GivenOut {
		exactSide = tokenOut
	}
	amounts, err := tokenAmountsFor(state, e.cfg.Amounts)
	if err != nil {
		return err
	}
	if len(amounts) != 1 || amounts[0].Token.Address != exactSide {
		return fmt.Errorf("swap %s takes exactly one amount of %s", kind, exactSide.Hex())
	}
	exact := amounts[0]

	view, err := quoteSwap(swapper, kind, tokenIn, tokenOut, exact)
	if err != nil {
		return err
	}
	view.PoolID = state.ID.Hex()
	e.logger.Info("swap quoted",
		zap.String("pool_id", state.ID.Hex()),
		zap.String("kind", kind.String()),
		zap.String("amount_in", view.AmountIn),
		zap.String("amount_out", view.AmountOut),
	)
	return writeJSON(cmd.OutOrStdout(), view)
}

func quoteSwap(p pool.Swapper, kind pool.SwapKind, tokenIn, tokenOut common.Address, exact model.TokenAmount) (swapView, error) {
	var amountIn, amountOut *uint256.Int
	var err error
	if kind == pool.GivenOut {
		amountOut = exact.Amount()
		amountIn, err = p.SwapGivenOut(tokenIn, tokenOut, amountOut)
	} else {
		amountIn = exact.Amount()
		amountOut, err = p.SwapGivenIn(tokenIn, tokenOut, amountIn)
	}
	if err != nil {
		return swapView{}, err
	}
	limit, err := p.LimitAmountSwap(tokenIn, tokenOut, kind)
	if err != nil {
		return swapView{}, err
	}
	return swapView{
		Kind:      kind.String(),
		TokenIn:   tokenIn.Hex(),
		TokenOut:  tokenOut.Hex(),
		AmountIn:  amountIn.Dec(),
		AmountOut: amountOut.Dec(),
		Limit:     limit.Dec(),
	}, nil
}
