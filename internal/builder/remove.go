package builder

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolKit/internal/fixed"
	"poolKit/internal/liquidity"
	"poolKit/internal/model"
	"poolKit/internal/vault"
)

// RemoveQueryOutput is a quoted exit. Amounts are exact, before slippage.
type RemoveQueryOutput struct {
	ChainID       uint64
	PoolType      model.PoolType
	PoolID        common.Hash
	Kind          liquidity.RemoveKind
	BptIndex      int
	TokenOutIndex int
	BptIn         model.TokenAmount
	AmountsOut    []model.TokenAmount
}

// RemoveBuildInput carries the caller side of an exit.
type RemoveBuildInput struct {
	Slippage           model.Slippage
	Sender             common.Address
	Recipient          common.Address
	ReceiveNativeAsset bool
	ToInternalBalance  bool
}

// RemoveBuildOutput is an encoded exit with the bounds it enforces.
type RemoveBuildOutput struct {
	Tx            Tx
	MaxBptIn      model.TokenAmount
	MinAmountsOut []model.TokenAmount
}

// RemoveQuery quotes an exit.
func (b *Builder) RemoveQuery(ctx context.Context, state model.PoolState, input liquidity.RemoveInput) (RemoveQueryOutput, error) {
	amounts, err := liquidity.RemoveQueryAmounts(state, input)
	if err != nil {
		return RemoveQueryOutput{}, err
	}
	if err := b.requireHelpers(); err != nil {
		return RemoveQueryOutput{}, err
	}
	userData, err := vault.EncodeExitUserData(state.Type, input.Kind(), amounts)
	if err != nil {
		return RemoveQueryOutput{}, err
	}
	req := vault.NewExitPoolRequest(state.Addresses(), amounts.MinAmountsOut, userData, false)

	res, err := b.helpers.QueryExit(ctx, state.ID, common.Address{}, common.Address{}, req)
	if err != nil {
		return RemoveQueryOutput{}, err
	}
	bptIn, err := model.FromRawAmount(state.BptToken(), res.Bpt)
	if err != nil {
		return RemoveQueryOutput{}, err
	}
	amountsOut, err := tokenAmounts(state, res.Amounts)
	if err != nil {
		return RemoveQueryOutput{}, err
	}

	b.logger.Debug("remove liquidity quoted",
		zap.String("pool_id", state.ID.Hex()),
		zap.String("kind", input.Kind().String()),
		zap.String("bpt_in", bptIn.Amount().Dec()),
	)
	return RemoveQueryOutput{
		ChainID:       state.ChainID,
		PoolType:      state.Type,
		PoolID:        state.ID,
		Kind:          input.Kind(),
		BptIndex:      state.BptIndex(),
		TokenOutIndex: amounts.TokenOutIndex,
		BptIn:         bptIn,
		AmountsOut:    amountsOut,
	}, nil
}

// RemoveBuild applies slippage to a quoted exit and encodes Vault.exitPool.
func (b *Builder) RemoveBuild(state model.PoolState, quote RemoveQueryOutput, in RemoveBuildInput) (RemoveBuildOutput, error) {
	if err := checkQuote(state, quote.PoolID); err != nil {
		return RemoveBuildOutput{}, err
	}
	amounts, err := liquidity.RemoveBuildAmounts(state, liquidity.RemoveQueryResult{
		Kind:          quote.Kind,
		BptIn:         quote.BptIn,
		AmountsOut:    quote.AmountsOut,
		TokenOutIndex: quote.TokenOutIndex,
	}, in.Slippage)
	if err != nil {
		return RemoveBuildOutput{}, err
	}

	userData, err := vault.EncodeExitUserData(state.Type, quote.Kind, amounts)
	if err != nil {
		return RemoveBuildOutput{}, err
	}
	assets := vault.Assets(state.Addresses(), b.addresses.WrappedNative, in.ReceiveNativeAsset)
	req := vault.NewExitPoolRequest(assets, amounts.MinAmountsOut, userData, in.ToInternalBalance)
	data, err := vault.EncodeExitPool(state.ID, in.Sender, in.Recipient, req)
	if err != nil {
		return RemoveBuildOutput{}, err
	}

	maxBpt, err := model.FromRawAmount(state.BptToken(), amounts.MaxBptIn)
	if err != nil {
		return RemoveBuildOutput{}, err
	}
	minOut, err := tokenAmounts(state, amounts.MinAmountsOut)
	if err != nil {
		return RemoveBuildOutput{}, err
	}

	b.logger.Debug("remove liquidity built",
		zap.String("pool_id", state.ID.Hex()),
		zap.String("kind", quote.Kind.String()),
		zap.String("max_bpt_in", maxBpt.Amount().Dec()),
	)
	return RemoveBuildOutput{
		Tx: Tx{
			To:    b.addresses.Vault,
			Value: fixed.Zero(),
			Data:  data,
		},
		MaxBptIn:      maxBpt,
		MinAmountsOut: minOut,
	}, nil
}
