package main

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/builder"
	"poolKit/internal/config"
	"poolKit/internal/model"
	"poolKit/internal/nested"
	"poolKit/internal/storage"
)

func newNestedJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nested-join",
		Short: "Quote, and optionally build, a relayer join through nested pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer e.close()
			return runNestedJoin(cmd, e)
		},
	}
	cmd.Flags().String("nested-file", "", "nested pool description (json or yaml)")
	cmd.Flags().StringSlice("amount", nil, "token=amount pairs in human units")
	cmd.Flags().String("slippage", "0.5", "slippage tolerance in percent")
	cmd.Flags().String("sender", "", "sender address")
	cmd.Flags().String("recipient", "", "recipient address, defaults to sender")
	cmd.Flags().Bool("native", false, "use the native asset in place of the wrapped native token")
	cmd.Flags().Bool("internal-balance", false, "use vault internal balance")
	cmd.Flags().Bool("build", false, "build the multicall after the query")
	cmd.Flags().String("signature", "", "signed relayer approval sent ahead of the joins")
	return cmd
}

func runNestedJoin(cmd *cobra.Command, e *env) error {
	if e.cfg.NestedFile == "" {
		return fmt.Errorf("nested file is required")
	}
	chainID, pools, err := storage.LoadNestedFile(e.cfg.NestedFile)
	if err != nil {
		return err
	}
	if chainID == 0 {
		chainID = e.cfg.ChainID
	}
	amounts, err := nestedAmounts(pools, e.cfg.Amounts)
	if err != nil {
		return err
	}
	sender, recipient, err := e.parties()
	if err != nil {
		return err
	}
	b := e.builder()

	quote, err := b.NestedJoinQuery(e.ctx, builder.NestedJoinInput{
		ChainID:             chainID,
		Pools:               pools,
		AmountsIn:           amounts,
		Sender:              sender,
		Recipient:           recipient,
		SendNativeAsset:     e.cfg.Native,
		FromInternalBalance: e.cfg.InternalBalance,
	})
	if err != nil {
		return err
	}
	last := quote.Calls[len(quote.Calls)-1]
	records := []callRecord{{
		op:       "nested_join_query",
		chainID:  chainID,
		poolID:   last.PoolID,
		poolType: last.PoolType,
		kind:     "Nested",
		bptIndex: -1,
		tokenIdx: -1,
		bpt:      quote.BptOut,
		amounts:  amounts,
	}}
	if e.cfg.Build {
		slippage, err := e.slippage()
		if err != nil {
			return err
		}
		signature, err := config.ParseSignature(e.cfg.Signature)
		if err != nil {
			return err
		}
		built, err := b.NestedJoinBuild(quote, builder.NestedBuildInput{
			Slippage:                 slippage,
			RelayerApprovalSignature: signature,
		})
		if err != nil {
			return err
		}
		rec := records[0]
		rec.op = "nested_join_build"
		rec.bpt = built.MinBptOut
		rec.tx = &built.Tx
		records = append(records, rec)
	}

	e.logger.Info("nested join done",
		zap.Int("pools", len(pools)),
		zap.String("pool_id", last.PoolID.Hex()),
		zap.Bool("built", e.cfg.Build),
	)
	return e.emit(cmd.OutOrStdout(), records...)
}

// nestedAmounts converts human amounts with the decimals the nested file
// gives for each token, ordered by address.
func nestedAmounts(pools []nested.Pool, raw map[string]string) ([]model.TokenAmount, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --amount is required")
	}
	parsed, err := config.ParseAmounts(raw)
	if err != nil {
		return nil, err
	}
	known := make(map[common.Address]model.Token)
	for _, p := range pools {
		for _, t := range p.Tokens {
			known[t.Address] = t.Token
		}
	}

	out := make([]model.TokenAmount, 0, len(parsed))
	for addr, human := range parsed {
		token, ok := known[addr]
		if !ok {
			return nil, fmt.Errorf("token %s is not held by any nested pool", addr.Hex())
		}
		amount, err := model.FromHumanAmount(token, human)
		if err != nil {
			return nil, err
		}
		out = append(out, amount)
	}
	slices.SortFunc(out, func(a, b model.TokenAmount) int {
		return a.Token.Address.Cmp(b.Token.Address)
	})
	return out, nil
}
