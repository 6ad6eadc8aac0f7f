package builder

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
	"poolKit/internal/vault"
)

// AddQueryOutput is a quoted join. Amounts are exact, before slippage.
type AddQueryOutput struct {
	ChainID  uint64
	PoolType model.PoolType
	PoolID   common.Hash
	Kind     liquidity.AddKind
	// BptIndex is the share token position, -1 when the pool has none.
	BptIndex     int
	TokenInIndex int
	BptOut       model.TokenAmount
	AmountsIn    []model.TokenAmount
}

// AddBuildInput carries the caller side of a join.
type AddBuildInput struct {
	Slippage            model.Slippage
	Sender              common.Address
	Recipient           common.Address
	SendNativeAsset     bool
	FromInternalBalance bool
}

// AddBuildOutput is an encoded join with the bounds it enforces.
type AddBuildOutput struct {
	Tx           Tx
	MinBptOut    model.TokenAmount
	MaxAmountsIn []model.TokenAmount
}

// AddQuery quotes a join. Init cannot be quoted.
func (b *Builder) AddQuery(ctx context.Context, state model.PoolState, input liquidity.AddInput) (AddQueryOutput, error) {
	amounts, err := liquidity.AddQueryAmounts(state, input)
	if err != nil {
		return AddQueryOutput{}, err
	}
	if err := b.requireHelpers(); err != nil {
		return AddQueryOutput{}, err
	}
	userData, err := vault.EncodeJoinUserData(state.Type, input.Kind(), amounts)
	if err != nil {
		return AddQueryOutput{}, err
	}
	req := vault.NewJoinPoolRequest(state.Addresses(), amounts.MaxAmountsIn, userData, false)

	res, err := b.helpers.QueryJoin(ctx, state.ID, common.Address{}, common.Address{}, req)
	if err != nil {
		return AddQueryOutput{}, err
	}
	bptOut, err := model.FromRawAmount(state.BptToken(), res.Bpt)
	if err != nil {
		return AddQueryOutput{}, err
	}
	amountsIn, err := tokenAmounts(state, res.Amounts)
	if err != nil {
		return AddQueryOutput{}, err
	}

	b.logger.Debug("add liquidity quoted",
		zap.String("pool_id", state.ID.Hex()),
		zap.String("kind", input.Kind().String()),
		zap.String("bpt_out", bptOut.Amount().Dec()),
	)
	return AddQueryOutput{
		ChainID:      state.ChainID,
		PoolType:     state.Type,
		PoolID:       state.ID,
		Kind:         input.Kind(),
		BptIndex:     state.BptIndex(),
		TokenInIndex: amounts.TokenInIndex,
		BptOut:       bptOut,
		AmountsIn:    amountsIn,
	}, nil
}

// AddBuild applies slippage to a quoted join and encodes Vault.joinPool.
func (b *Builder) AddBuild(state model.PoolState, quote AddQueryOutput, in AddBuildInput) (AddBuildOutput, error) {
	if err := checkQuote(state, quote.PoolID); err != nil {
		return AddBuildOutput{}, err
	}
	amounts, err := liquidity.AddBuildAmounts(state, liquidity.AddQueryResult{
		Kind:         quote.Kind,
		BptOut:       quote.BptOut,
		AmountsIn:    quote.AmountsIn,
		TokenInIndex: quote.TokenInIndex,
	}, in.Slippage)
	if err != nil {
		return AddBuildOutput{}, err
	}
	return b.joinTx(state, quote.Kind, amounts, in)
}

// AddInitBuild encodes the initial join of an empty pool.
func (b *Builder) AddInitBuild(state model.PoolState, input liquidity.AddInit, in AddBuildInput) (AddBuildOutput, error) {
	amounts, err := liquidity.AddInitAmounts(state, input)
	if err != nil {
		return AddBuildOutput{}, err
	}
	return b.joinTx(state, liquidity.AddInitKind, amounts, in)
}

func (b *Builder) joinTx(state model.PoolState, kind liquidity.AddKind, amounts liquidity.JoinAmounts, in AddBuildInput) (AddBuildOutput, error) {
	userData, err := vault.EncodeJoinUserData(state.Type, kind, amounts)
	if err != nil {
		return AddBuildOutput{}, err
	}
	assets := vault.Assets(state.Addresses(), b.addresses.WrappedNative, in.SendNativeAsset)
	req := vault.NewJoinPoolRequest(assets, amounts.MaxAmountsIn, userData, in.FromInternalBalance)
	data, err := vault.EncodeJoinPool(state.ID, in.Sender, in.Recipient, req)
	if err != nil {
		return AddBuildOutput{}, err
	}

	minBpt, err := model.FromRawAmount(state.BptToken(), amounts.MinimumBpt)
	if err != nil {
		return AddBuildOutput{}, err
	}
	maxIn, err := tokenAmounts(state, amounts.MaxAmountsIn)
	if err != nil {
		return AddBuildOutput{}, err
	}

	b.logger.Debug("add liquidity built",
		zap.String("pool_id", state.ID.Hex()),
		zap.String("kind", kind.String()),
		zap.String("min_bpt_out", minBpt.Amount().Dec()),
	)
	return AddBuildOutput{
		Tx: Tx{
			To:    b.addresses.Vault,
			Value: vault.NativeValue(assets, amounts.MaxAmountsIn),
			Data:  data,
		},
		MinBptOut:    minBpt,
		MaxAmountsIn: maxIn,
	}, nil
}
