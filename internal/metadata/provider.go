// Package metadata reads pool and token state from chain.
package metadata

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"poolKit/internal/chain"
	"poolKit/internal/model"
	"poolKit/internal/pool"
	"poolKit/internal/vault"
)

const defaultTokenCacheSize = 1024

// Options tune a ChainProvider.
type Options struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
	TokenCacheSize int
	Logger         *zap.Logger
}

// ChainProvider resolves pool states through the vault and ERC20 getters.
// Token metadata is immutable and cached by address.
type ChainProvider struct {
	caller     vault.Caller
	chainID    uint64
	vault      common.Address
	maxRetries int
	baseDelay  time.Duration
	tokens     *lru.Cache[common.Address, model.Token]
	logger     *zap.Logger
}

func NewChainProvider(caller vault.Caller, chainID uint64, vaultAddress common.Address, opts Options) (*ChainProvider, error) {
	if caller == nil {
		return nil, fmt.Errorf("metadata: chain client is nil")
	}
	size := opts.TokenCacheSize
	if size <= 0 {
		size = defaultTokenCacheSize
	}
	tokens, err := lru.New[common.Address, model.Token](size)
	if err != nil {
		return nil, fmt.Errorf("metadata: token cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainProvider{
		caller:     caller,
		chainID:    chainID,
		vault:      vaultAddress,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.RetryBaseDelay,
		tokens:     tokens,
		logger:     logger,
	}, nil
}

// PoolState reads the vault-ordered members of a pool.
func (p *ChainProvider) PoolState(ctx context.Context, poolID common.Hash, poolType model.PoolType) (model.PoolState, error) {
	addresses, _, err := p.poolTokens(ctx, poolID)
	if err != nil {
		return model.PoolState{}, err
	}
	tokens := make([]model.Token, len(addresses))
	for i, addr := range addresses {
		token, err := p.Token(ctx, addr)
		if err != nil {
			return model.PoolState{}, err
		}
		tokens[i] = token
	}
	state := model.NewPoolState(p.chainID, poolID, poolType, tokens)
	if err := state.Validate(); err != nil {
		return model.PoolState{}, err
	}
	p.logger.Debug("pool state loaded",
		zap.String("pool_id", poolID.Hex()),
		zap.String("pool_type", string(poolType)),
		zap.Int("tokens", len(tokens)),
	)
	return state, nil
}

// WeightedPool reads balances, weights, fee and supply of a weighted pool.
func (p *ChainProvider) WeightedPool(ctx context.Context, state model.PoolState) (*pool.WeightedPool, error) {
	if state.Type != model.PoolTypeWeighted {
		return nil, fmt.Errorf("metadata: pool %s is %s, not weighted", state.ID.Hex(), state.Type)
	}
	addresses, balances, err := p.poolTokens(ctx, state.ID)
	if err != nil {
		return nil, err
	}
	if len(addresses) != len(state.Tokens) {
		return nil, fmt.Errorf("metadata: pool %s has %d tokens on chain, %d in state", state.ID.Hex(), len(addresses), len(state.Tokens))
	}

	parsed, err := vault.PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	values, err := p.view(ctx, state.Address, parsed, "getNormalizedWeights")
	if err != nil {
		return nil, err
	}
	rawWeights, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("weights: unsupported type %T", values[0])
	}
	weights, err := toUint256s(rawWeights)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	fee, err := p.viewUint(ctx, state.Address, parsed, "getSwapFeePercentage")
	if err != nil {
		return nil, err
	}
	supply, err := p.viewUint(ctx, state.Address, parsed, "getActualSupply")
	if err != nil {
		p.logger.Debug("getActualSupply unavailable, using totalSupply", zap.String("pool", state.Address.Hex()), zap.Error(err))
		supply, err = p.viewUint(ctx, state.Address, parsed, "totalSupply")
		if err != nil {
			return nil, err
		}
	}
	return pool.NewWeightedPool(state, balances, weights, fee, supply)
}

// LinearPool reads balances, token roles, targets, fee, wrapped rate and
// virtual supply of a linear pool. Targets come back in main token units.
func (p *ChainProvider) LinearPool(ctx context.Context, state model.PoolState) (*pool.LinearPool, error) {
	if state.Type != model.PoolTypeLinear {
		return nil, fmt.Errorf("metadata: pool %s is %s, not linear", state.ID.Hex(), state.Type)
	}
	addresses, balances, err := p.poolTokens(ctx, state.ID)
	if err != nil {
		return nil, err
	}
	if len(addresses) != len(state.Tokens) {
		return nil, fmt.Errorf("metadata: pool %s has %d tokens on chain, %d in state", state.ID.Hex(), len(addresses), len(state.Tokens))
	}

	parsed, err := vault.PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	mainIndex, err := p.viewIndex(ctx, state, parsed, "getMainIndex")
	if err != nil {
		return nil, err
	}
	wrappedIndex, err := p.viewIndex(ctx, state, parsed, "getWrappedIndex")
	if err != nil {
		return nil, err
	}

	values, err := p.view(ctx, state.Address, parsed, "getTargets")
	if err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("getTargets: got %d values", len(values))
	}
	mainToken := state.Tokens[mainIndex].Token
	lower, err := scaledTarget(mainToken, values[0])
	if err != nil {
		return nil, fmt.Errorf("lower target: %w", err)
	}
	upper, err := scaledTarget(mainToken, values[1])
	if err != nil {
		return nil, fmt.Errorf("upper target: %w", err)
	}

	fee, err := p.viewUint(ctx, state.Address, parsed, "getSwapFeePercentage")
	if err != nil {
		return nil, err
	}
	rate, err := p.viewUint(ctx, state.Address, parsed, "getWrappedTokenRate")
	if err != nil {
		return nil, err
	}
	supply, err := p.viewUint(ctx, state.Address, parsed, "getVirtualSupply")
	if err != nil {
		return nil, err
	}

	params := pool.LinearParams{Fee: fee, LowerTarget: lower, UpperTarget: upper}
	return pool.NewLinearPool(state, mainIndex, wrappedIndex, balances[mainIndex], balances[wrappedIndex], supply, params, rate)
}

// Swapper loads the swap snapshot matching the pool family.
func (p *ChainProvider) Swapper(ctx context.Context, state model.PoolState) (pool.Swapper, error) {
	switch state.Type {
	case model.PoolTypeWeighted:
		weighted, err := p.WeightedPool(ctx, state)
		if err != nil {
			return nil, err
		}
		return weighted, nil
	case model.PoolTypeLinear:
		linear, err := p.LinearPool(ctx, state)
		if err != nil {
			return nil, err
		}
		return linear, nil
	}
	return nil, fmt.Errorf("metadata: no swap snapshot for %s pools", state.Type)
}

func (p *ChainProvider) viewIndex(ctx context.Context, state model.PoolState, parsed abi.ABI, method string) (int, error) {
	v, err := p.viewUint(ctx, state.Address, parsed, method)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() >= uint64(len(state.Tokens)) {
		return 0, fmt.Errorf("%s: index %s outside %d tokens", method, v.Dec(), len(state.Tokens))
	}
	return int(v.Uint64()), nil
}

func scaledTarget(token model.Token, value interface{}) (*uint256.Int, error) {
	v, err := asBigInt(value)
	if err != nil {
		return nil, err
	}
	raw, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("value overflows uint256")
	}
	amount, err := model.FromRawAmount(token, raw)
	if err != nil {
		return nil, err
	}
	return amount.Scale18(), nil
}

// Token returns the metadata of an ERC20, from cache when possible.
func (p *ChainProvider) Token(ctx context.Context, address common.Address) (model.Token, error) {
	if token, ok := p.tokens.Get(address); ok {
		return token, nil
	}
	parsed, err := vault.ERC20ABI()
	if err != nil {
		return model.Token{}, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := p.view(ctx, address, parsed, "decimals")
	if err != nil {
		return model.Token{}, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return model.Token{}, fmt.Errorf("decimals: %w", err)
	}
	token, err := model.NewToken(p.chainID, address, decimals)
	if err != nil {
		return model.Token{}, err
	}
	if values, err := p.view(ctx, address, parsed, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			token.Symbol = symbol
		}
	} else {
		p.logger.Debug("symbol call failed", zap.String("token", address.Hex()), zap.Error(err))
	}
	p.tokens.Add(address, token)
	return token, nil
}

func (p *ChainProvider) poolTokens(ctx context.Context, poolID common.Hash) ([]common.Address, []*uint256.Int, error) {
	parsed, err := vault.VaultABI()
	if err != nil {
		return nil, nil, fmt.Errorf("parse vault abi: %w", err)
	}
	values, err := p.view(ctx, p.vault, parsed, "getPoolTokens", poolID)
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("getPoolTokens: got %d values", len(values))
	}
	addresses, ok := values[0].([]common.Address)
	if !ok {
		return nil, nil, fmt.Errorf("getPoolTokens: unsupported tokens type %T", values[0])
	}
	rawBalances, ok := values[1].([]*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("getPoolTokens: unsupported balances type %T", values[1])
	}
	balances, err := toUint256s(rawBalances)
	if err != nil {
		return nil, nil, fmt.Errorf("getPoolTokens: %w", err)
	}
	return addresses, balances, nil
}

// view retries transport failures; the quote simulators never do.
func (p *ChainProvider) view(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	var values []interface{}
	err := chain.WithRetry(ctx, p.logger, p.maxRetries, p.baseDelay, func(ctx context.Context) error {
		var err error
		values, err = vault.CallView(ctx, p.caller, to, parsed, method, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return values, nil
}

func (p *ChainProvider) viewUint(ctx context.Context, to common.Address, parsed abi.ABI, method string) (*uint256.Int, error) {
	values, err := p.view(ctx, to, parsed, method)
	if err != nil {
		return nil, err
	}
	v, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%s: value overflows uint256", method)
	}
	return out, nil
}

func toUint256s(values []*big.Int) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(values))
	for i, v := range values {
		u, overflow := uint256.FromBig(v)
		if overflow {
			return nil, fmt.Errorf("value %s overflows uint256", v)
		}
		out[i] = u
	}
	return out, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
