package builder

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
	"poolKit/internal/nested"
	"poolKit/internal/vault"
)

// NestedJoinInput describes a join through a pool of pools.
type NestedJoinInput struct {
	ChainID             uint64
	Pools               []nested.Pool
	AmountsIn           []model.TokenAmount
	Sender              common.Address
	Recipient           common.Address
	SendNativeAsset     bool
	FromInternalBalance bool
}

// NestedQueryOutput is a quoted nested join.
type NestedQueryOutput struct {
	Input  NestedJoinInput
	Calls  []nested.Call
	BptOut model.TokenAmount
}

// NestedBuildInput carries slippage and an optional signed relayer approval,
// sent first in the multicall when present.
type NestedBuildInput struct {
	Slippage                 model.Slippage
	RelayerApprovalSignature []byte
}

// NestedBuildOutput is the encoded relayer multicall.
type NestedBuildOutput struct {
	Tx        Tx
	MinBptOut model.TokenAmount
	Calls     []nested.Call
}

// NestedJoinQuery assembles the join sequence and quotes the share tokens
// minted by its last step.
func (b *Builder) NestedJoinQuery(ctx context.Context, in NestedJoinInput) (NestedQueryOutput, error) {
	calls, err := nested.Assemble(in.Pools, in.AmountsIn)
	if err != nil {
		return NestedQueryOutput{}, err
	}
	if b.relayer == nil {
		return NestedQueryOutput{}, fmt.Errorf("builder: no relayer simulator configured")
	}
	encoded, _, err := b.encodeNested(calls, in)
	if err != nil {
		return NestedQueryOutput{}, err
	}

	last := calls[len(calls)-1]
	peeked, err := b.relayer.QueryChained(ctx, in.Sender, encoded, vault.ChainedReference(last.OutputReferenceKey))
	if err != nil {
		return NestedQueryOutput{}, err
	}
	bptToken := model.Token{ChainID: in.ChainID, Address: model.PoolAddressFromID(last.PoolID), Decimals: model.MaxDecimals}
	bptOut, err := model.FromRawAmount(bptToken, peeked)
	if err != nil {
		return NestedQueryOutput{}, err
	}

	b.logger.Debug("nested join quoted",
		zap.Int("calls", len(calls)),
		zap.String("pool_id", last.PoolID.Hex()),
		zap.String("bpt_out", peeked.Dec()),
	)
	return NestedQueryOutput{Input: in, Calls: calls, BptOut: bptOut}, nil
}

// NestedJoinBuild encodes the relayer multicall. Only the last step is
// bounded; intermediate outputs exist only inside the transaction.
func (b *Builder) NestedJoinBuild(quote NestedQueryOutput, in NestedBuildInput) (NestedBuildOutput, error) {
	if len(quote.Calls) == 0 {
		return NestedBuildOutput{}, fmt.Errorf("builder: nested quote has no calls")
	}
	minBpt, err := in.Slippage.RemoveFrom(quote.BptOut.Amount())
	if err != nil {
		return NestedBuildOutput{}, err
	}

	calls := make([]nested.Call, len(quote.Calls))
	copy(calls, quote.Calls)
	calls[len(calls)-1].MinBptOut = minBpt

	encoded, value, err := b.encodeNested(calls, quote.Input)
	if err != nil {
		return NestedBuildOutput{}, err
	}
	if len(in.RelayerApprovalSignature) > 0 {
		approval, err := vault.EncodeSetRelayerApproval(b.addresses.Relayer, true, in.RelayerApprovalSignature)
		if err != nil {
			return NestedBuildOutput{}, err
		}
		encoded = append([][]byte{approval}, encoded...)
	}
	data, err := vault.EncodeMulticall(encoded)
	if err != nil {
		return NestedBuildOutput{}, err
	}
	minOut, err := model.FromRawAmount(quote.BptOut.Token, minBpt)
	if err != nil {
		return NestedBuildOutput{}, err
	}

	b.logger.Debug("nested join built",
		zap.Int("calls", len(encoded)),
		zap.String("min_bpt_out", minBpt.Dec()),
	)
	return NestedBuildOutput{
		Tx:        Tx{To: b.addresses.Relayer, Value: value, Data: data},
		MinBptOut: minOut,
		Calls:     calls,
	}, nil
}

// encodeNested packs one relayer joinPool per call and sums the native
// value they carry.
func (b *Builder) encodeNested(calls []nested.Call, in NestedJoinInput) ([][]byte, *uint256.Int, error) {
	encoded := make([][]byte, 0, len(calls))
	total := new(uint256.Int)
	for _, c := range calls {
		poolAddress := model.PoolAddressFromID(c.PoolID)
		tokens := make([]common.Address, len(c.Tokens))
		amounts := make([]*uint256.Int, len(c.Tokens))
		bptIndex := -1
		for i, t := range c.Tokens {
			tokens[i] = t.Address
			if t.Address == poolAddress {
				bptIndex = i
			}
			switch a := c.AmountsIn[i].(type) {
			case nested.Literal:
				amounts[i] = a.Value.Clone()
			case nested.Ref:
				amounts[i] = vault.ChainedReference(a.Key)
			default:
				return nil, nil, fmt.Errorf("builder: unknown nested amount %T", a)
			}
		}

		withoutBpt := make([]*uint256.Int, 0, len(amounts))
		for i, a := range amounts {
			if i != bptIndex {
				withoutBpt = append(withoutBpt, a)
			}
		}
		userData, err := vault.EncodeJoinUserData(c.PoolType, liquidity.AddUnbalancedKind, liquidity.JoinAmounts{
			MaxAmountsIn:           amounts,
			MaxAmountsInWithoutBpt: withoutBpt,
			TokenInIndex:           -1,
			UserDataTokenIndex:     -1,
			MinimumBpt:             c.MinBptOut,
		})
		if err != nil {
			return nil, nil, err
		}

		assets := vault.Assets(tokens, b.addresses.WrappedNative, in.SendNativeAsset)
		value := vault.NativeValue(assets, amounts)
		total.Add(total, value)

		data, err := vault.EncodeRelayerJoin(vault.RelayerJoin{
			PoolID:          c.PoolID,
			Kind:            vault.RelayerPoolKind(c.PoolType),
			Sender:          in.Sender,
			Recipient:       in.Recipient,
			Request:         vault.NewJoinPoolRequest(assets, amounts, userData, in.FromInternalBalance),
			Value:           value,
			OutputReference: vault.ChainedReference(c.OutputReferenceKey),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("pack relayer joinPool: %w", err)
		}
		encoded = append(encoded, data)
	}
	return encoded, total, nil
}
