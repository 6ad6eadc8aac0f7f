package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/builder"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Quote, and optionally build, a remove-liquidity exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			return runRemove(cmd, e)
		},
	}
	liquidityFlags(cmd)
	cmd.Flags().String("kind", "Proportional", "remove kind (Unbalanced, SingleTokenExactOut, SingleTokenExactIn, Proportional, Recovery)")
	return cmd
}

func runRemove(cmd *cobra.Command, e *env) error {
	state, err := e.poolState()
	if err != nil {
		return err
	}
	input, err := removeIntent(state, argsFromConfig(e.cfg))
	if err != nil {
		return err
	}
	b := e.builder()

	quote, err := b.RemoveQuery(e.ctx, state, input)
	if err != nil {
		return err
	}
	records := []callRecord{{
		op:       "remove_query",
		chainID:  quote.ChainID,
		poolID:   quote.PoolID,
		poolType: quote.PoolType,
		kind:     quote.Kind.String(),
		bptIndex: quote.BptIndex,
		tokenIdx: quote.TokenOutIndex,
		bpt:      quote.BptIn,
		amounts:  quote.AmountsOut,
	}}
	if e.cfg.Build {
		sender, recipient, err := e.parties()
		if err != nil {
			return err
		}
		slippage, err := e.slippage()
		if err != nil {
			return err
		}
		built, err := b.RemoveBuild(state, quote, builder.RemoveBuildInput{
			Slippage:           slippage,
			Sender:             sender,
			Recipient:          recipient,
			ReceiveNativeAsset: e.cfg.Native,
			ToInternalBalance:  e.cfg.InternalBalance,
		})
		if err != nil {
			return err
		}
		rec := records[0]
		rec.op = "remove_build"
		rec.bpt = built.MaxBptIn
		rec.amounts = built.MinAmountsOut
		rec.tx = &built.Tx
		records = append(records, rec)
	}

	e.logger.Info("remove liquidity done",
		zap.String("pool_id", quote.PoolID.Hex()),
		zap.String("kind", quote.Kind.String()),
		zap.Bool("built", e.cfg.Build),
	)
	return e.emit(cmd.OutOrStdout(), records...)
}
