// Package builder turns liquidity intents into vault transactions. Queries
// quote exact amounts through the chain simulators; builds apply slippage
// to a quote and encode the call.
package builder

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"poolKit/internal/model"
	"poolKit/internal/vault"
)

// QuerySimulator quotes single-pool joins and exits.
type QuerySimulator interface {
	QueryJoin(ctx context.Context, poolID common.Hash, sender, recipient common.Address, req vault.JoinPoolRequest) (vault.QueryResult, error)
	QueryExit(ctx context.Context, poolID common.Hash, sender, recipient common.Address, req vault.ExitPoolRequest) (vault.QueryResult, error)
}

// ChainedSimulator quotes relayer multicalls.
type ChainedSimulator interface {
	QueryChained(ctx context.Context, from common.Address, calls [][]byte, ref *uint256.Int) (*uint256.Int, error)
}

// Tx is an unsigned transaction.
type Tx struct {
	To    common.Address
	Value *uint256.Int
	Data  []byte
}

// Builder is safe for concurrent use; it holds no mutable state.
type Builder struct {
	addresses vault.Addresses
	helpers   QuerySimulator
	relayer   ChainedSimulator
	logger    *zap.Logger
}

func New(addresses vault.Addresses, helpers QuerySimulator, relayer ChainedSimulator, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		addresses: addresses,
		helpers:   helpers,
		relayer:   relayer,
		logger:    logger,
	}
}

// Addresses returns the contracts the builder targets.
func (b *Builder) Addresses() vault.Addresses {
	return b.addresses
}

func (b *Builder) requireHelpers() error {
	if b.helpers == nil {
		return fmt.Errorf("builder: no join/exit simulator configured")
	}
	return nil
}

// tokenAmounts pairs raw simulator amounts with the pool members.
func tokenAmounts(state model.PoolState, raw []*uint256.Int) ([]model.TokenAmount, error) {
	if len(raw) != len(state.Tokens) {
		return nil, fmt.Errorf("builder: simulator returned %d amounts for %d tokens of pool %s", len(raw), len(state.Tokens), state.ID.Hex())
	}
	out := make([]model.TokenAmount, len(raw))
	for i, t := range state.Tokens {
		ta, err := model.FromRawAmount(t.Token, raw[i])
		if err != nil {
			return nil, err
		}
		out[i] = ta
	}
	return out, nil
}

func checkQuote(state model.PoolState, poolID common.Hash) error {
	if poolID != state.ID {
		return fmt.Errorf("builder: quote for pool %s used with pool %s", poolID.Hex(), state.ID.Hex())
	}
	return nil
}
