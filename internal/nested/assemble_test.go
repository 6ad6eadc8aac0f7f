package nested

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
)

var (
	dai  = model.Token{ChainID: 1, Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18}
	usdc = model.Token{ChainID: 1, Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6}
	weth = model.Token{ChainID: 1, Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18}

	leafID   = common.HexToHash("0x79c58f70905f734641735bc61e45c19dd9ad60bc0000000000000000000004e7")
	leaf2ID  = common.HexToHash("0x2222222222222222222222222222222222222222000000000000000000000001")
	middleID = common.HexToHash("0x08775ccb6674d6bdceb0797c364c2653ed84f3840002000000000000000004f0")
	topID    = common.HexToHash("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee000200000000000000000009")
)

func shareToken(id common.Hash) model.Token {
	return model.Token{ChainID: 1, Address: model.PoolAddressFromID(id), Decimals: 18}
}

func members(tokens ...model.Token) []model.PoolToken {
	out := make([]model.PoolToken, len(tokens))
	for i, t := range tokens {
		out[i] = model.PoolToken{Token: t, Index: i}
	}
	return out
}

func raw(t *testing.T, token model.Token, v uint64) model.TokenAmount {
	t.Helper()
	ta, err := model.FromRawAmount(token, uint256.NewInt(v))
	require.NoError(t, err)
	return ta
}

func TestReferenceToLowerLevel(t *testing.T) {
	leaf := Pool{ID: leafID, Type: model.PoolTypeComposableStable, Level: 0, Tokens: members(dai, shareToken(leafID), usdc)}
	top := Pool{ID: middleID, Type: model.PoolTypeWeighted, Level: 1, Tokens: members(shareToken(leafID), weth)}

	// caller supplies only WETH; the leaf share token must come from the leaf call
	calls, err := Assemble([]Pool{top, leaf}, []model.TokenAmount{raw(t, weth, 5)})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	require.Equal(t, leafID, calls[0].PoolID)
	require.Equal(t, uint64(100), calls[0].OutputReferenceKey)
	for _, a := range calls[0].AmountsIn {
		lit, ok := a.(Literal)
		require.True(t, ok)
		require.True(t, lit.Value.IsZero())
	}

	require.Equal(t, middleID, calls[1].PoolID)
	require.Equal(t, uint64(101), calls[1].OutputReferenceKey)
	require.Equal(t, Ref{Key: 100}, calls[1].AmountsIn[0])
	require.Equal(t, Literal{Value: uint256.NewInt(5)}, calls[1].AmountsIn[1])
	for _, c := range calls {
		require.True(t, c.MinBptOut.IsZero())
	}
}

func TestOrderingAndBackReferences(t *testing.T) {
	leafA := Pool{ID: leafID, Type: model.PoolTypeWeighted, Level: 0, Tokens: members(dai, usdc)}
	leafB := Pool{ID: leaf2ID, Type: model.PoolTypeWeighted, Level: 0, Tokens: members(usdc, weth)}
	middle := Pool{ID: middleID, Type: model.PoolTypeWeighted, Level: 1, Tokens: members(shareToken(leaf2ID), shareToken(leafID))}
	top := Pool{ID: topID, Type: model.PoolTypeWeighted, Level: 2, Tokens: members(shareToken(middleID), weth)}

	input := []Pool{top, leafA, middle, leafB}
	calls, err := Assemble(input, []model.TokenAmount{raw(t, dai, 1), raw(t, usdc, 2), raw(t, weth, 3)})
	require.NoError(t, err)
	require.Len(t, calls, 4)

	// input slice untouched
	require.Equal(t, topID, input[0].ID)

	// ties keep input order
	require.Equal(t, leafID, calls[0].PoolID)
	require.Equal(t, leaf2ID, calls[1].PoolID)

	assigned := map[uint64]bool{}
	for i, c := range calls {
		if i > 0 {
			require.LessOrEqual(t, calls[i-1].Level, c.Level)
		}
		for _, a := range c.AmountsIn {
			if ref, ok := a.(Ref); ok {
				require.True(t, assigned[ref.Key], "call %d refers to unassigned key %d", i, ref.Key)
			}
		}
		assigned[c.OutputReferenceKey] = true
	}

	require.Equal(t, Ref{Key: 101}, calls[2].AmountsIn[0])
	require.Equal(t, Ref{Key: 100}, calls[2].AmountsIn[1])
	require.Equal(t, Ref{Key: 102}, calls[3].AmountsIn[0])
	require.Equal(t, Literal{Value: uint256.NewInt(3)}, calls[3].AmountsIn[1])
}

func TestTokensSortedByIndex(t *testing.T) {
	tokens := []model.PoolToken{{Token: usdc, Index: 1}, {Token: dai, Index: 0}}
	calls, err := Assemble([]Pool{{ID: leafID, Type: model.PoolTypeWeighted, Tokens: tokens}}, []model.TokenAmount{raw(t, usdc, 9)})
	require.NoError(t, err)
	require.Equal(t, dai.Address, calls[0].Tokens[0].Address)
	require.Equal(t, Literal{Value: uint256.NewInt(9)}, calls[0].AmountsIn[1])
	// caller's pool definition untouched
	require.Equal(t, usdc.Address, tokens[0].Address)
}

func TestMalformedNestingRejected(t *testing.T) {
	leaf := Pool{ID: leafID, Type: model.PoolTypeWeighted, Level: 0, Tokens: members(dai, usdc)}

	cases := []struct {
		name  string
		pools []Pool
		in    []model.TokenAmount
	}{
		{"same level dependency", []Pool{leaf, {ID: middleID, Level: 0, Tokens: members(shareToken(leafID), weth)}}, nil},
		{"higher level dependency", []Pool{
			{ID: leafID, Level: 2, Tokens: members(dai, usdc)},
			{ID: middleID, Level: 1, Tokens: members(shareToken(leafID), weth)},
		}, nil},
		{"negative level", []Pool{{ID: leafID, Level: -1, Tokens: members(dai)}}, nil},
		{"duplicate pool", []Pool{leaf, leaf}, nil},
		{"no pools", nil, nil},
		{"input not held", []Pool{leaf}, []model.TokenAmount{raw(t, weth, 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.pools, tc.in)
			require.True(t, errors.Is(err, liquidity.ErrInputValidation), "got %v", err)
		})
	}
}

func TestStepsCheckedAgainstPoolFamily(t *testing.T) {
	cases := []struct {
		name string
		pool Pool
		want error
	}{
		{"proportional only family", Pool{ID: leafID, Type: model.PoolTypeGyro2, Tokens: members(dai, usdc)}, liquidity.ErrInputValidation},
		{"composable without share token", Pool{ID: leafID, Type: model.PoolTypeComposableStable, Tokens: members(dai, usdc)}, liquidity.ErrInputValidation},
		{"linear has no joins", Pool{ID: leafID, Type: model.PoolTypeLinear, Tokens: members(dai, shareToken(leafID), usdc)}, liquidity.ErrUnsupported},
		{"unknown family", Pool{ID: leafID, Type: "CONSTANT_SUM", Tokens: members(dai, usdc)}, liquidity.ErrUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble([]Pool{tc.pool}, []model.TokenAmount{raw(t, dai, 10)})
			require.ErrorIs(t, err, tc.want)
		})
	}

	// the same shapes pass once the family accepts unbalanced joins
	_, err := Assemble([]Pool{{ID: leafID, Type: model.PoolTypeComposableStable, Tokens: members(dai, shareToken(leafID), usdc)}},
		[]model.TokenAmount{raw(t, dai, 10)})
	require.NoError(t, err)
}

func TestPoolState(t *testing.T) {
	p := Pool{ID: leafID, Type: model.PoolTypeWeighted, Tokens: []model.PoolToken{{Token: usdc, Index: 1}, {Token: dai, Index: 0}}}
	state := p.State()
	require.Equal(t, p.Address(), state.Address)
	require.Equal(t, uint64(1), state.ChainID)
	require.Equal(t, []common.Address{dai.Address, usdc.Address}, state.Addresses())
	require.NoError(t, state.Validate())
}
