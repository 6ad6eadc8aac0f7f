// Package vault encodes Balancer vault, helpers and relayer calls and runs
// their read-only simulations over eth_call.
package vault

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAsset stands for the chain's native coin in a vault asset list.
var NativeAsset = common.Address{}

// Addresses are the contracts a chain deployment exposes.
type Addresses struct {
	Vault         common.Address
	Helpers       common.Address
	Relayer       common.Address
	WrappedNative common.Address
}

var deployments = map[uint64]Addresses{
	1: {
		Vault:         common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8"),
		Helpers:       common.HexToAddress("0x5aDDCCa35b7A0D07C74063c48700C8590E87864E"),
		Relayer:       common.HexToAddress("0x35Cea9e57A393ac66Aaa7E25C391D52c74B5648f"),
		WrappedNative: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
	},
}

// AddressesFor returns the known deployment for a chain.
func AddressesFor(chainID uint64) (Addresses, error) {
	a, ok := deployments[chainID]
	if !ok {
		return Addresses{}, fmt.Errorf("vault: no deployment known for chain %d", chainID)
	}
	return a, nil
}

// Override replaces every non-zero address in o.
func (a Addresses) Override(o Addresses) Addresses {
	if o.Vault != (common.Address{}) {
		a.Vault = o.Vault
	}
	if o.Helpers != (common.Address{}) {
		a.Helpers = o.Helpers
	}
	if o.Relayer != (common.Address{}) {
		a.Relayer = o.Relayer
	}
	if o.WrappedNative != (common.Address{}) {
		a.WrappedNative = o.WrappedNative
	}
	return a
}
