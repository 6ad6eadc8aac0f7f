package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/builder"
	"poolKit/internal/liquidity"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Quote, and optionally build, an add-liquidity join",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.close()
			return runAdd(cmd, e)
		},
	}
	liquidityFlags(cmd)
	cmd.Flags().String("kind", "Unbalanced", "add kind (Init, Unbalanced, SingleToken, Proportional)")
	return cmd
}

func runAdd(cmd *cobra.Command, e *env) error {
	state, err := e.poolState()
	if err != nil {
		return err
	}
	input, err := addIntent(state, argsFromConfig(e.cfg))
	if err != nil {
		return err
	}
	sender, recipient, err := e.parties()
	if err != nil {
		return err
	}
	slippage, err := e.slippage()
	if err != nil {
		return err
	}
	buildIn := builder.AddBuildInput{
		Slippage:            slippage,
		Sender:              sender,
		Recipient:           recipient,
		SendNativeAsset:     e.cfg.Native,
		FromInternalBalance: e.cfg.InternalBalance,
	}
	b := e.builder()

	if seed, ok := input.(liquidity.AddInit); ok {
		built, err := b.AddInitBuild(state, seed, buildIn)
		if err != nil {
			return err
		}
		e.logger.Info("init join built", zap.String("pool_id", state.ID.Hex()))
		return e.emit(cmd.OutOrStdout(), callRecord{
			op:       "add_build",
			chainID:  state.ChainID,
			poolID:   state.ID,
			poolType: state.Type,
			kind:     seed.Kind().String(),
			bptIndex: state.BptIndex(),
			tokenIdx: -1,
			bpt:      built.MinBptOut,
			amounts:  built.MaxAmountsIn,
			tx:       &built.Tx,
		})
	}

	quote, err := b.AddQuery(e.ctx, state, input)
	if err != nil {
		return err
	}
	records := []callRecord{{
		op:       "add_query",
		chainID:  quote.ChainID,
		poolID:   quote.PoolID,
		poolType: quote.PoolType,
		kind:     quote.Kind.String(),
		bptIndex: quote.BptIndex,
		tokenIdx: quote.TokenInIndex,
		bpt:      quote.BptOut,
		amounts:  quote.AmountsIn,
	}}
	if e.cfg.Build {
		built, err := b.AddBuild(state, quote, buildIn)
		if err != nil {
			return err
		}
		rec := records[0]
		rec.op = "add_build"
		rec.bpt = built.MinBptOut
		rec.amounts = built.MaxAmountsIn
		rec.tx = &built.Tx
		records = append(records, rec)
	}

	e.logger.Info("add liquidity done",
		zap.String("pool_id", quote.PoolID.Hex()),
		zap.String("kind", quote.Kind.String()),
		zap.Bool("built", e.cfg.Build),
	)
	return e.emit(cmd.OutOrStdout(), records...)
}
