package vault

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"poolKit/internal/model"
)

// Relayer join pool kinds.
const (
	RelayerPoolKindWeighted           uint8 = 0
	RelayerPoolKindComposableStableV2 uint8 = 3
)

// RelayerPoolKind maps a pool family to the relayer's join kind, which
// selects how chained references inside user data are replaced.
func RelayerPoolKind(poolType model.PoolType) uint8 {
	if poolType == model.PoolTypeComposableStable {
		return RelayerPoolKindComposableStableV2
	}
	return RelayerPoolKindWeighted
}

// RelayerJoin is one relayer joinPool step.
type RelayerJoin struct {
	PoolID          common.Hash
	Kind            uint8
	Sender          common.Address
	Recipient       common.Address
	Request         JoinPoolRequest
	Value           *uint256.Int
	OutputReference *uint256.Int
}

// EncodeRelayerJoin packs the relayer's joinPool action.
func EncodeRelayerJoin(j RelayerJoin) ([]byte, error) {
	parsed, err := RelayerABI()
	if err != nil {
		return nil, fmt.Errorf("parse relayer abi: %w", err)
	}
	return parsed.Pack("joinPool", j.PoolID, j.Kind, j.Sender, j.Recipient, j.Request, bigOf(j.Value), bigOf(j.OutputReference))
}

// EncodeSetRelayerApproval packs the relayer's approval action carrying a
// signed authorisation.
func EncodeSetRelayerApproval(relayer common.Address, approved bool, authorisation []byte) ([]byte, error) {
	parsed, err := RelayerABI()
	if err != nil {
		return nil, fmt.Errorf("parse relayer abi: %w", err)
	}
	return parsed.Pack("setRelayerApproval", relayer, approved, authorisation)
}

// EncodePeekChainedReference packs peekChainedReferenceValue.
func EncodePeekChainedReference(ref *uint256.Int) ([]byte, error) {
	parsed, err := RelayerABI()
	if err != nil {
		return nil, fmt.Errorf("parse relayer abi: %w", err)
	}
	return parsed.Pack("peekChainedReferenceValue", ref.ToBig())
}

// EncodeMulticall packs the relayer multicall.
func EncodeMulticall(calls [][]byte) ([]byte, error) {
	parsed, err := RelayerABI()
	if err != nil {
		return nil, fmt.Errorf("parse relayer abi: %w", err)
	}
	return parsed.Pack("multicall", calls)
}

// RelayerSimulator quotes a relayer multicall by eth_call from the account
// that will send it.
type RelayerSimulator struct {
	caller  Caller
	relayer common.Address
}

func NewRelayerSimulator(caller Caller, relayer common.Address) *RelayerSimulator {
	return &RelayerSimulator{caller: caller, relayer: relayer}
}

// QueryChained runs calls followed by a peek of ref and returns the peeked
// value: the amount the referenced step produced.
func (s *RelayerSimulator) QueryChained(ctx context.Context, from common.Address, calls [][]byte, ref *uint256.Int) (*uint256.Int, error) {
	parsed, err := RelayerABI()
	if err != nil {
		return nil, fmt.Errorf("parse relayer abi: %w", err)
	}
	peek, err := EncodePeekChainedReference(ref)
	if err != nil {
		return nil, fmt.Errorf("pack peekChainedReferenceValue: %w", err)
	}
	all := append(append([][]byte{}, calls...), peek)

	values, err := call(ctx, s.caller, s.relayer, parsed, "multicall", &from, all)
	if err != nil {
		return nil, err
	}
	results, ok := values[0].([][]byte)
	if !ok || len(results) != len(all) {
		return nil, fmt.Errorf("unpack multicall: unexpected results %T", values[0])
	}
	peeked, err := parsed.Unpack("peekChainedReferenceValue", results[len(results)-1])
	if err != nil {
		return nil, fmt.Errorf("unpack peekChainedReferenceValue: %w", err)
	}
	v, ok := peeked[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack peekChainedReferenceValue: unexpected type %T", peeked[0])
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("unpack peekChainedReferenceValue: overflow")
	}
	return out, nil
}
