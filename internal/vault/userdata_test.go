package vault

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
)

func words(vals ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, len(vals))
	for i, v := range vals {
		out[i] = uint256.NewInt(v)
	}
	return out
}

func TestJoinUserDataLayouts(t *testing.T) {
	amounts := liquidity.JoinAmounts{
		MaxAmountsIn:           words(5, 0, 7),
		MaxAmountsInWithoutBpt: words(5, 7),
		TokenInIndex:           2,
		UserDataTokenIndex:     1,
		MinimumBpt:             uint256.NewInt(9),
	}

	data, err := EncodeJoinUserData(model.PoolTypeComposableStable, liquidity.AddUnbalancedKind, amounts)
	require.NoError(t, err)
	values, err := kindAmountsBound.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, int64(joinExactTokensIn), values[0].(*big.Int).Int64())
	require.Equal(t, []*big.Int{big.NewInt(5), big.NewInt(7)}, values[1].([]*big.Int))
	require.Equal(t, int64(9), values[2].(*big.Int).Int64())

	data, err = EncodeJoinUserData(model.PoolTypeComposableStable, liquidity.AddSingleTokenKind, amounts)
	require.NoError(t, err)
	values, err = kindAmountIndex.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, int64(joinTokenInForExactBptOut), values[0].(*big.Int).Int64())
	require.Equal(t, int64(9), values[1].(*big.Int).Int64())
	require.Equal(t, int64(1), values[2].(*big.Int).Int64())

	data, err = EncodeJoinUserData(model.PoolTypeWeighted, liquidity.AddProportionalKind, amounts)
	require.NoError(t, err)
	kind, err := DecodeUserDataKind(data)
	require.NoError(t, err)
	require.Equal(t, uint64(joinAllTokensInForBptOut), kind)

	data, err = EncodeJoinUserData(model.PoolTypeWeighted, liquidity.AddInitKind, amounts)
	require.NoError(t, err)
	values, err = kindAmounts.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, int64(joinInit), values[0].(*big.Int).Int64())
	require.Len(t, values[1].([]*big.Int), 2)
}

func TestExitKindNumbering(t *testing.T) {
	amounts := liquidity.ExitAmounts{
		MinAmountsOut:           words(1, 2),
		MinAmountsOutWithoutBpt: words(1, 2),
		TokenOutIndex:           0,
		UserDataTokenIndex:      0,
		MaxBptIn:                uint256.NewInt(3),
	}
	cases := []struct {
		poolType model.PoolType
		kind     liquidity.RemoveKind
		want     uint64
	}{
		{model.PoolTypeWeighted, liquidity.RemoveSingleTokenExactInKind, 0},
		{model.PoolTypeWeighted, liquidity.RemoveProportionalKind, 1},
		{model.PoolTypeWeighted, liquidity.RemoveUnbalancedKind, 2},
		{model.PoolTypeWeighted, liquidity.RemoveSingleTokenExactOutKind, 2},
		{model.PoolTypeGyroE, liquidity.RemoveProportionalKind, 1},
		{model.PoolTypeComposableStable, liquidity.RemoveSingleTokenExactInKind, 0},
		{model.PoolTypeComposableStable, liquidity.RemoveUnbalancedKind, 1},
		{model.PoolTypeComposableStable, liquidity.RemoveProportionalKind, 2},
		{model.PoolTypeComposableStable, liquidity.RemoveRecoveryKind, 255},
		{model.PoolTypeGyro2, liquidity.RemoveRecoveryKind, 255},
	}
	for _, tc := range cases {
		data, err := EncodeExitUserData(tc.poolType, tc.kind, amounts)
		require.NoError(t, err, "%s %s", tc.poolType, tc.kind)
		kind, err := DecodeUserDataKind(data)
		require.NoError(t, err)
		require.Equal(t, tc.want, kind, "%s %s", tc.poolType, tc.kind)
	}
}

func TestUserDataEncodersCoverJoinableFamilies(t *testing.T) {
	for _, pt := range model.PoolTypes {
		_, err := EncodeJoinUserData(pt, liquidity.AddProportionalKind, liquidity.JoinAmounts{MinimumBpt: uint256.NewInt(1)})
		if pt == model.PoolTypeLinear {
			require.True(t, errors.Is(err, liquidity.ErrUnsupported), "linear must be unsupported")
			continue
		}
		require.NoError(t, err, "pool type %s", pt)
	}
}

func TestSingleTokenUserDataNeedsIndex(t *testing.T) {
	_, err := EncodeJoinUserData(model.PoolTypeWeighted, liquidity.AddSingleTokenKind, liquidity.JoinAmounts{UserDataTokenIndex: -1})
	require.Error(t, err)
	_, err = EncodeExitUserData(model.PoolTypeWeighted, liquidity.RemoveSingleTokenExactInKind, liquidity.ExitAmounts{UserDataTokenIndex: -1})
	require.Error(t, err)
}
