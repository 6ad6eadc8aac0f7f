// Package chaintest serves a scripted eth_call endpoint in process so
// contract readers can be tested without a node.
package chaintest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"poolKit/internal/chain"
)

// Handler answers an eth_call to one contract. input is the full calldata.
type Handler func(from common.Address, input []byte) ([]byte, error)

// Eth is the fake "eth" namespace.
type Eth struct {
	ChainID uint64

	mu       sync.Mutex
	handlers map[common.Address]Handler
	calls    map[common.Address]int
}

// CallArgs is the eth_call transaction object.
type CallArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a CallArgs) input() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

// Handle registers the handler for a contract address.
func (e *Eth) Handle(to common.Address, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[common.Address]Handler)
	}
	e.handlers[to] = h
}

// Calls returns how many eth_calls reached a contract.
func (e *Eth) Calls(to common.Address) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[to]
}

// Call implements eth_call.
func (e *Eth) Call(ctx context.Context, args CallArgs, _ *gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if args.To == nil {
		return nil, fmt.Errorf("contract creation not supported")
	}
	e.mu.Lock()
	h, ok := e.handlers[*args.To]
	if e.calls == nil {
		e.calls = make(map[common.Address]int)
	}
	e.calls[*args.To]++
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no contract at %s", args.To.Hex())
	}
	var from common.Address
	if args.From != nil {
		from = *args.From
	}
	out, err := h(from, args.input())
	if err != nil {
		return nil, err
	}
	return hexutil.Bytes(out), nil
}

// ChainId implements eth_chainId.
func (e *Eth) ChainId(ctx context.Context) (hexutil.Uint64, error) {
	return hexutil.Uint64(e.ChainID), nil
}

// NewClient serves e in process and returns a chain client dialled to it.
func NewClient(t *testing.T, e *Eth) *chain.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", e); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	client := chain.NewClientFromRPC(gethrpc.DialInProc(srv))
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
	})
	return client
}
