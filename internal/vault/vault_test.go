package vault

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"poolKit/internal/chain/chaintest"
)

var (
	helpersAddr = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	relayerAddr = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	weth        = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	dai         = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	alice       = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func TestChainedReference(t *testing.T) {
	ref := ChainedReference(100)
	require.Equal(t, "0xba10000000000000000000000000000000000000000000000000000000000064", ref.Hex())
	require.True(t, IsChainedReference(ref))
	require.False(t, IsChainedReference(uint256.NewInt(100)))
	require.NotEqual(t, ChainedReference(100), ChainedReference(101))
}

func TestAssetsAndNativeValue(t *testing.T) {
	tokens := []common.Address{dai, weth}
	require.Equal(t, tokens, Assets(tokens, weth, false))

	assets := Assets(tokens, weth, true)
	require.Equal(t, []common.Address{dai, NativeAsset}, assets)
	require.Equal(t, uint64(7), NativeValue(assets, words(3, 7)).Uint64())
	require.True(t, NativeValue(tokens, words(3, 7)).IsZero())
}

func TestAddressesOverride(t *testing.T) {
	base, err := AddressesFor(1)
	require.NoError(t, err)
	got := base.Override(Addresses{Helpers: helpersAddr})
	require.Equal(t, helpersAddr, got.Helpers)
	require.Equal(t, base.Vault, got.Vault)

	_, err = AddressesFor(424242)
	require.Error(t, err)
}

func TestHelpersSimulatorQueryJoin(t *testing.T) {
	poolID := common.HexToHash("0x01")
	parsed, err := HelpersABI()
	require.NoError(t, err)

	fake := &chaintest.Eth{ChainID: 1}
	fake.Handle(helpersAddr, func(_ common.Address, input []byte) ([]byte, error) {
		method, err := parsed.MethodById(input[:4])
		if err != nil {
			return nil, err
		}
		args, err := method.Inputs.Unpack(input[4:])
		if err != nil {
			return nil, err
		}
		if args[0].([32]byte) != poolID {
			return nil, errors.New("unexpected pool")
		}
		return method.Outputs.Pack(big.NewInt(42), []*big.Int{big.NewInt(1), big.NewInt(2)})
	})
	client := chaintest.NewClient(t, fake)

	sim := NewHelpersSimulator(client, helpersAddr)
	req := JoinPoolRequest{
		Assets:       []common.Address{dai, weth},
		MaxAmountsIn: []*big.Int{big.NewInt(1), big.NewInt(2)},
		UserData:     []byte{},
	}
	res, err := sim.QueryJoin(context.Background(), poolID, alice, alice, req)
	require.NoError(t, err)
	require.Equal(t, uint64(42), res.Bpt.Uint64())
	require.Equal(t, words(1, 2), res.Amounts)

	_, err = sim.QueryJoin(context.Background(), common.HexToHash("0x02"), alice, alice, req)
	require.Error(t, err)
}

func TestHelpersSimulatorQueryExit(t *testing.T) {
	parsed, err := HelpersABI()
	require.NoError(t, err)

	fake := &chaintest.Eth{ChainID: 1}
	fake.Handle(helpersAddr, func(_ common.Address, input []byte) ([]byte, error) {
		method, err := parsed.MethodById(input[:4])
		if err != nil {
			return nil, err
		}
		if method.Name != "queryExit" {
			return nil, errors.New("expected queryExit")
		}
		return method.Outputs.Pack(big.NewInt(10), []*big.Int{big.NewInt(4), big.NewInt(5)})
	})
	sim := NewHelpersSimulator(chaintest.NewClient(t, fake), helpersAddr)

	req := ExitPoolRequest{
		Assets:        []common.Address{dai, weth},
		MinAmountsOut: []*big.Int{big.NewInt(0), big.NewInt(0)},
		UserData:      []byte{},
	}
	res, err := sim.QueryExit(context.Background(), common.HexToHash("0x01"), alice, alice, req)
	require.NoError(t, err)
	require.Equal(t, uint64(10), res.Bpt.Uint64())
	require.Equal(t, words(4, 5), res.Amounts)
}

func TestRelayerSimulatorPeeksFinalReference(t *testing.T) {
	parsed, err := RelayerABI()
	require.NoError(t, err)
	ref := ChainedReference(101)

	var sender common.Address
	var steps int
	fake := &chaintest.Eth{ChainID: 1}
	fake.Handle(relayerAddr, func(from common.Address, input []byte) ([]byte, error) {
		sender = from
		method, err := parsed.MethodById(input[:4])
		if err != nil {
			return nil, err
		}
		args, err := method.Inputs.Unpack(input[4:])
		if err != nil {
			return nil, err
		}
		calls := args[0].([][]byte)
		steps = len(calls)

		last := calls[len(calls)-1]
		peek, err := parsed.MethodById(last[:4])
		if err != nil {
			return nil, err
		}
		peekArgs, err := peek.Inputs.Unpack(last[4:])
		if err != nil {
			return nil, err
		}
		if peekArgs[0].(*big.Int).Cmp(ref.ToBig()) != 0 {
			return nil, errors.New("peeked wrong reference")
		}
		value, err := peek.Outputs.Pack(big.NewInt(777))
		if err != nil {
			return nil, err
		}
		results := make([][]byte, len(calls))
		for i := range results {
			results[i] = []byte{}
		}
		results[len(results)-1] = value
		return method.Outputs.Pack(results)
	})
	sim := NewRelayerSimulator(chaintest.NewClient(t, fake), relayerAddr)

	join, err := EncodeRelayerJoin(RelayerJoin{
		PoolID:    common.HexToHash("0x01"),
		Kind:      RelayerPoolKindWeighted,
		Sender:    alice,
		Recipient: alice,
		Request: JoinPoolRequest{
			Assets:       []common.Address{dai},
			MaxAmountsIn: []*big.Int{big.NewInt(1)},
			UserData:     []byte{},
		},
		OutputReference: ref,
	})
	require.NoError(t, err)

	got, err := sim.QueryChained(context.Background(), alice, [][]byte{join}, ref)
	require.NoError(t, err)
	require.Equal(t, uint64(777), got.Uint64())
	require.Equal(t, alice, sender)
	require.Equal(t, 2, steps)
}

func TestRelayerPoolKind(t *testing.T) {
	require.Equal(t, RelayerPoolKindComposableStableV2, RelayerPoolKind("PHANTOM_STABLE"))
	require.Equal(t, RelayerPoolKindWeighted, RelayerPoolKind("WEIGHTED"))
	require.Equal(t, RelayerPoolKindWeighted, RelayerPoolKind("GYROE"))
}
