package vault

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// JoinPoolRequest mirrors IVault.JoinPoolRequest for ABI packing.
type JoinPoolRequest struct {
	Assets              []common.Address
	MaxAmountsIn        []*big.Int
	UserData            []byte
	FromInternalBalance bool
}

// ExitPoolRequest mirrors IVault.ExitPoolRequest for ABI packing.
type ExitPoolRequest struct {
	Assets            []common.Address
	MinAmountsOut     []*big.Int
	UserData          []byte
	ToInternalBalance bool
}

// NewJoinPoolRequest converts join bounds into the ABI request.
func NewJoinPoolRequest(assets []common.Address, maxAmountsIn []*uint256.Int, userData []byte, fromInternalBalance bool) JoinPoolRequest {
	return JoinPoolRequest{
		Assets:              assets,
		MaxAmountsIn:        toBig(maxAmountsIn),
		UserData:            userData,
		FromInternalBalance: fromInternalBalance,
	}
}

// NewExitPoolRequest converts exit bounds into the ABI request.
func NewExitPoolRequest(assets []common.Address, minAmountsOut []*uint256.Int, userData []byte, toInternalBalance bool) ExitPoolRequest {
	return ExitPoolRequest{
		Assets:            assets,
		MinAmountsOut:     toBig(minAmountsOut),
		UserData:          userData,
		ToInternalBalance: toInternalBalance,
	}
}

// Assets returns the vault asset list, swapping the wrapped native token for
// NativeAsset when useNative is set.
func Assets(tokens []common.Address, wrappedNative common.Address, useNative bool) []common.Address {
	out := make([]common.Address, len(tokens))
	for i, t := range tokens {
		if useNative && t == wrappedNative {
			out[i] = NativeAsset
			continue
		}
		out[i] = t
	}
	return out
}

// NativeValue is the amount sent with a join: the bound of the native slot,
// zero when the asset list has none.
func NativeValue(assets []common.Address, maxAmountsIn []*uint256.Int) *uint256.Int {
	for i, a := range assets {
		if a == NativeAsset && i < len(maxAmountsIn) {
			return maxAmountsIn[i].Clone()
		}
	}
	return new(uint256.Int)
}

// EncodeJoinPool packs Vault.joinPool.
func EncodeJoinPool(poolID common.Hash, sender, recipient common.Address, req JoinPoolRequest) ([]byte, error) {
	parsed, err := VaultABI()
	if err != nil {
		return nil, fmt.Errorf("parse vault abi: %w", err)
	}
	return parsed.Pack("joinPool", poolID, sender, recipient, req)
}

// EncodeExitPool packs Vault.exitPool.
func EncodeExitPool(poolID common.Hash, sender, recipient common.Address, req ExitPoolRequest) ([]byte, error) {
	parsed, err := VaultABI()
	if err != nil {
		return nil, fmt.Errorf("parse vault abi: %w", err)
	}
	return parsed.Pack("exitPool", poolID, sender, recipient, req)
}

func toBig(v []*uint256.Int) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = x.ToBig()
	}
	return out
}

func fromBig(v []*big.Int) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(v))
	for i, x := range v {
		u, overflow := uint256.FromBig(x)
		if overflow {
			return nil, fmt.Errorf("vault: value %s overflows uint256", x)
		}
		out[i] = u
	}
	return out, nil
}
