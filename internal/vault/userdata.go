package vault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
)

var (
	uint256Type, _      = abi.NewType("uint256", "", nil)
	uint256ArrayType, _ = abi.NewType("uint256[]", "", nil)

	kindOnly         = abi.Arguments{{Type: uint256Type}}
	kindAmounts      = abi.Arguments{{Type: uint256Type}, {Type: uint256ArrayType}}
	kindAmountsBound = abi.Arguments{{Type: uint256Type}, {Type: uint256ArrayType}, {Type: uint256Type}}
	kindAmount       = abi.Arguments{{Type: uint256Type}, {Type: uint256Type}}
	kindAmountIndex  = abi.Arguments{{Type: uint256Type}, {Type: uint256Type}, {Type: uint256Type}}
	recoveryExitKind = big.NewInt(255)
)

// Join kinds shared by weighted, composable stable and gyro pools.
const (
	joinInit                  = 0
	joinExactTokensIn         = 1
	joinTokenInForExactBptOut = 2
	joinAllTokensInForBptOut  = 3
)

// exitCodes are the per-family exit kind numbers.
type exitCodes struct {
	oneTokenOut    int64
	allTokensOut   int64
	exactTokensOut int64
}

var (
	weightedExitCodes   = exitCodes{oneTokenOut: 0, allTokensOut: 1, exactTokensOut: 2}
	composableExitCodes = exitCodes{oneTokenOut: 0, exactTokensOut: 1, allTokensOut: 2}
)

// encoders maps each family able to join or exit to its exit numbering.
// Linear pools have no user data.
var encoders = map[model.PoolType]exitCodes{
	model.PoolTypeWeighted:         weightedExitCodes,
	model.PoolTypeComposableStable: composableExitCodes,
	model.PoolTypeGyro2:            weightedExitCodes,
	model.PoolTypeGyro3:            weightedExitCodes,
	model.PoolTypeGyroE:            weightedExitCodes,
}

func codesFor(poolType model.PoolType) (exitCodes, error) {
	codes, ok := encoders[poolType]
	if !ok {
		return exitCodes{}, &liquidity.UnsupportedError{PoolType: poolType, Operation: "user data encoding"}
	}
	return codes, nil
}

func bigOf(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}

// EncodeJoinUserData encodes the pool user data of a join. Amount vectors
// exclude the share token and the token index is counted without it.
func EncodeJoinUserData(poolType model.PoolType, kind liquidity.AddKind, amounts liquidity.JoinAmounts) ([]byte, error) {
	if _, err := codesFor(poolType); err != nil {
		return nil, err
	}
	switch kind {
	case liquidity.AddInitKind:
		return kindAmounts.Pack(big.NewInt(joinInit), toBig(amounts.MaxAmountsInWithoutBpt))
	case liquidity.AddUnbalancedKind:
		return kindAmountsBound.Pack(big.NewInt(joinExactTokensIn), toBig(amounts.MaxAmountsInWithoutBpt), bigOf(amounts.MinimumBpt))
	case liquidity.AddSingleTokenKind:
		if amounts.UserDataTokenIndex < 0 {
			return nil, fmt.Errorf("vault: single token join without token index")
		}
		return kindAmountIndex.Pack(big.NewInt(joinTokenInForExactBptOut), bigOf(amounts.MinimumBpt), big.NewInt(int64(amounts.UserDataTokenIndex)))
	case liquidity.AddProportionalKind:
		return kindAmount.Pack(big.NewInt(joinAllTokensInForBptOut), bigOf(amounts.MinimumBpt))
	}
	return nil, &liquidity.UnsupportedError{PoolType: poolType, Operation: "join user data " + kind.String()}
}

// EncodeExitUserData encodes the pool user data of an exit.
func EncodeExitUserData(poolType model.PoolType, kind liquidity.RemoveKind, amounts liquidity.ExitAmounts) ([]byte, error) {
	codes, err := codesFor(poolType)
	if err != nil {
		return nil, err
	}
	switch kind {
	case liquidity.RemoveUnbalancedKind, liquidity.RemoveSingleTokenExactOutKind:
		return kindAmountsBound.Pack(big.NewInt(codes.exactTokensOut), toBig(amounts.MinAmountsOutWithoutBpt), bigOf(amounts.MaxBptIn))
	case liquidity.RemoveSingleTokenExactInKind:
		if amounts.UserDataTokenIndex < 0 {
			return nil, fmt.Errorf("vault: single token exit without token index")
		}
		return kindAmountIndex.Pack(big.NewInt(codes.oneTokenOut), bigOf(amounts.MaxBptIn), big.NewInt(int64(amounts.UserDataTokenIndex)))
	case liquidity.RemoveProportionalKind:
		return kindAmount.Pack(big.NewInt(codes.allTokensOut), bigOf(amounts.MaxBptIn))
	case liquidity.RemoveRecoveryKind:
		return kindAmount.Pack(recoveryExitKind, bigOf(amounts.MaxBptIn))
	}
	return nil, &liquidity.UnsupportedError{PoolType: poolType, Operation: "exit user data " + kind.String()}
}

// DecodeUserDataKind returns the leading kind word of encoded user data.
func DecodeUserDataKind(userData []byte) (uint64, error) {
	values, err := kindOnly.UnpackValues(userData[:min(len(userData), 32)])
	if err != nil {
		return 0, fmt.Errorf("vault: decode user data kind: %w", err)
	}
	return values[0].(*big.Int).Uint64(), nil
}
