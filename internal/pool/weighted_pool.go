package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

// WeightedPool is a snapshot of a weighted pool. Balances are raw units in
// vault order, aligned with State.Tokens and Weights.
type WeightedPool struct {
	State       model.PoolState
	Balances    []*uint256.Int
	Weights     []*uint256.Int
	SwapFee     *uint256.Int
	TotalShares *uint256.Int
}

// NewWeightedPool validates alignment and that weights sum to one.
func NewWeightedPool(state model.PoolState, balances, weights []*uint256.Int, swapFee, totalShares *uint256.Int) (*WeightedPool, error) {
	if len(balances) != len(state.Tokens) || len(weights) != len(state.Tokens) {
		return nil, fmt.Errorf("pool: weighted pool %s has %d tokens, %d balances, %d weights",
			state.ID.Hex(), len(state.Tokens), len(balances), len(weights))
	}
	sum := new(uint256.Int)
	for _, w := range weights {
		sum.Add(sum, w)
	}
	if !sum.Eq(fixed.One()) {
		return nil, fmt.Errorf("pool: weighted pool %s weights sum to %s", state.ID.Hex(), sum.Dec())
	}
	return &WeightedPool{
		State:       state,
		Balances:    balances,
		Weights:     weights,
		SwapFee:     swapFee,
		TotalShares: totalShares,
	}, nil
}

type weightedLeg struct {
	token   model.Token
	balance *uint256.Int
	weight  *uint256.Int
}

func (p *WeightedPool) leg(address common.Address) (weightedLeg, error) {
	i := p.State.IndexOf(address)
	if i < 0 {
		return weightedLeg{}, fmt.Errorf("%w: %s", ErrUnknownToken, address.Hex())
	}
	token := p.State.Tokens[i].Token
	balance, err := model.FromRawAmount(token, p.Balances[i])
	if err != nil {
		return weightedLeg{}, err
	}
	return weightedLeg{token: token, balance: balance.Scale18(), weight: p.Weights[i]}, nil
}

// SwapGivenIn charges the swap fee on amountIn, rounding the fee up.
func (p *WeightedPool) SwapGivenIn(tokenIn, tokenOut common.Address, amountIn *uint256.Int) (*uint256.Int, error) {
	in, err := p.leg(tokenIn)
	if err != nil {
		return nil, err
	}
	out, err := p.leg(tokenOut)
	if err != nil {
		return nil, err
	}
	scaled, err := model.FromRawAmount(in.token, amountIn)
	if err != nil {
		return nil, err
	}

	var c calc
	afterFee := c.sub(scaled.Scale18(), c.mulUp(scaled.Scale18(), p.SwapFee))
	if c.err != nil {
		return nil, c.err
	}
	amountOut, err := OutGivenIn(in.balance, in.weight, out.balance, out.weight, afterFee)
	if err != nil {
		return nil, err
	}
	result, err := model.FromScale18Amount(out.token, amountOut)
	if err != nil {
		return nil, err
	}
	return result.Amount(), nil
}

// SwapGivenOut grosses the required input up by the swap fee.
func (p *WeightedPool) SwapGivenOut(tokenIn, tokenOut common.Address, amountOut *uint256.Int) (*uint256.Int, error) {
	in, err := p.leg(tokenIn)
	if err != nil {
		return nil, err
	}
	out, err := p.leg(tokenOut)
	if err != nil {
		return nil, err
	}
	scaled, err := model.FromRawAmount(out.token, amountOut)
	if err != nil {
		return nil, err
	}

	amountIn, err := InGivenOut(in.balance, in.weight, out.balance, out.weight, scaled.Scale18())
	if err != nil {
		return nil, err
	}
	withFee, err := fixed.DivUp(amountIn, fixed.Complement(p.SwapFee))
	if err != nil {
		return nil, err
	}
	result, err := model.FromScale18AmountUp(in.token, withFee)
	if err != nil {
		return nil, err
	}
	return result.Amount(), nil
}

// LimitAmountSwap returns the largest raw amount the ratio caps allow.
func (p *WeightedPool) LimitAmountSwap(tokenIn, tokenOut common.Address, kind SwapKind) (*uint256.Int, error) {
	in, out := p.State.IndexOf(tokenIn), p.State.IndexOf(tokenOut)
	if in < 0 || out < 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownToken, tokenIn.Hex(), tokenOut.Hex())
	}
	if kind == GivenOut {
		return ratioOf(p.Balances[out], MaxOutRatio), nil
	}
	return ratioOf(p.Balances[in], MaxInRatio), nil
}

// ProportionalAmounts splits bptAmount across the pool balances.
func (p *WeightedPool) ProportionalAmounts(bptAmount *uint256.Int) ([]*uint256.Int, error) {
	return ProportionalAmounts(p.Balances, p.TotalShares, bptAmount)
}
