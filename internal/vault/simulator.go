package vault

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Caller performs eth_call. *chain.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// QueryResult is the simulated outcome of a join or exit: the share token
// amount and the per-token amounts in vault order.
type QueryResult struct {
	Bpt     *uint256.Int
	Amounts []*uint256.Int
}

// HelpersSimulator quotes joins and exits through BalancerHelpers. Transport
// errors are returned unchanged and never retried.
type HelpersSimulator struct {
	caller  Caller
	helpers common.Address
}

func NewHelpersSimulator(caller Caller, helpers common.Address) *HelpersSimulator {
	return &HelpersSimulator{caller: caller, helpers: helpers}
}

// QueryJoin simulates Vault.joinPool.
func (s *HelpersSimulator) QueryJoin(ctx context.Context, poolID common.Hash, sender, recipient common.Address, req JoinPoolRequest) (QueryResult, error) {
	return s.query(ctx, "queryJoin", poolID, sender, recipient, req)
}

// QueryExit simulates Vault.exitPool.
func (s *HelpersSimulator) QueryExit(ctx context.Context, poolID common.Hash, sender, recipient common.Address, req ExitPoolRequest) (QueryResult, error) {
	return s.query(ctx, "queryExit", poolID, sender, recipient, req)
}

func (s *HelpersSimulator) query(ctx context.Context, method string, args ...interface{}) (QueryResult, error) {
	parsed, err := HelpersABI()
	if err != nil {
		return QueryResult{}, fmt.Errorf("parse helpers abi: %w", err)
	}
	values, err := call(ctx, s.caller, s.helpers, parsed, method, nil, args...)
	if err != nil {
		return QueryResult{}, err
	}
	if len(values) != 2 {
		return QueryResult{}, fmt.Errorf("unpack %s: got %d values", method, len(values))
	}
	bpt, ok := values[0].(*big.Int)
	if !ok {
		return QueryResult{}, fmt.Errorf("unpack %s: unexpected bpt type %T", method, values[0])
	}
	amounts, ok := values[1].([]*big.Int)
	if !ok {
		return QueryResult{}, fmt.Errorf("unpack %s: unexpected amounts type %T", method, values[1])
	}
	bptOut, overflow := uint256.FromBig(bpt)
	if overflow {
		return QueryResult{}, fmt.Errorf("unpack %s: bpt overflows", method)
	}
	out, err := fromBig(amounts)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Bpt: bptOut, Amounts: out}, nil
}

// call packs, eth_calls and unpacks one contract method.
func call(ctx context.Context, caller Caller, to common.Address, parsed abi.ABI, method string, from *common.Address, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	if from != nil {
		msg.From = *from
	}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// CallView eth_calls a view method and returns the unpacked outputs.
func CallView(ctx context.Context, caller Caller, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	return call(ctx, caller, to, parsed, method, nil, args...)
}
