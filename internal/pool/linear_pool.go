package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

type linearRole int

const (
	roleMain linearRole = iota
	roleWrapped
	roleBpt
)

func (r linearRole) String() string {
	switch r {
	case roleMain:
		return "main"
	case roleWrapped:
		return "wrapped"
	default:
		return "bpt"
	}
}

// LinearPool is a snapshot of a linear pool holding a main token, its
// yield-bearing wrapper and the pool's own share token. The share token is
// tracked by minted supply; its vault balance is the virtual
// MAX_UINT256 - supply.
type LinearPool struct {
	State        model.PoolState
	MainIndex    int
	WrappedIndex int
	// MainBalance and WrappedBalance are raw units.
	MainBalance    *uint256.Int
	WrappedBalance *uint256.Int
	BptSupply      *uint256.Int
	Params         LinearParams
	// WrappedRate converts wrapped units into main units, 18-decimal.
	WrappedRate *uint256.Int
}

// NewLinearPool checks that the three members are distinct and the share
// token sits among them.
func NewLinearPool(state model.PoolState, mainIndex, wrappedIndex int, mainBalance, wrappedBalance, bptSupply *uint256.Int, params LinearParams, rate *uint256.Int) (*LinearPool, error) {
	bpt := state.BptIndex()
	if len(state.Tokens) != 3 || bpt < 0 {
		return nil, fmt.Errorf("pool: linear pool %s needs main, wrapped and its own share token", state.ID.Hex())
	}
	if mainIndex == wrappedIndex || mainIndex == bpt || wrappedIndex == bpt ||
		mainIndex < 0 || mainIndex > 2 || wrappedIndex < 0 || wrappedIndex > 2 {
		return nil, fmt.Errorf("pool: linear pool %s has invalid indexes main=%d wrapped=%d bpt=%d", state.ID.Hex(), mainIndex, wrappedIndex, bpt)
	}
	if params.LowerTarget.Gt(params.UpperTarget) {
		return nil, fmt.Errorf("pool: linear pool %s lower target above upper target", state.ID.Hex())
	}
	if rate.IsZero() {
		return nil, fmt.Errorf("pool: linear pool %s has zero wrapped rate", state.ID.Hex())
	}
	return &LinearPool{
		State:          state,
		MainIndex:      mainIndex,
		WrappedIndex:   wrappedIndex,
		MainBalance:    mainBalance,
		WrappedBalance: wrappedBalance,
		BptSupply:      bptSupply,
		Params:         params,
		WrappedRate:    rate,
	}, nil
}

// VirtualBptBalance is the share token balance the vault reports.
func (p *LinearPool) VirtualBptBalance() *uint256.Int {
	return new(uint256.Int).Sub(fixed.MaxUint256(), p.BptSupply)
}

func (p *LinearPool) role(address common.Address) (linearRole, error) {
	switch p.State.IndexOf(address) {
	case p.MainIndex:
		return roleMain, nil
	case p.WrappedIndex:
		return roleWrapped, nil
	case p.State.BptIndex():
		return roleBpt, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownToken, address.Hex())
}

func (p *LinearPool) token(r linearRole) model.Token {
	switch r {
	case roleMain:
		return p.State.Tokens[p.MainIndex].Token
	case roleWrapped:
		return p.State.Tokens[p.WrappedIndex].Token
	}
	return p.State.BptToken()
}

func (p *LinearPool) rawBalance(r linearRole) *uint256.Int {
	switch r {
	case roleMain:
		return p.MainBalance
	case roleWrapped:
		return p.WrappedBalance
	}
	return p.VirtualBptBalance()
}

// scaleIn normalizes a raw amount to 18 decimals; wrapped amounts are also
// converted into main-token terms.
func (p *LinearPool) scaleIn(r linearRole, raw *uint256.Int) (*uint256.Int, error) {
	if r == roleBpt {
		return raw.Clone(), nil
	}
	ta, err := model.FromRawAmount(p.token(r), raw)
	if err != nil {
		return nil, err
	}
	if r == roleWrapped {
		return fixed.MulDown(ta.Scale18(), p.WrappedRate)
	}
	return ta.Scale18(), nil
}

func (p *LinearPool) scaleOut(r linearRole, scaled *uint256.Int, roundUp bool) (*uint256.Int, error) {
	if r == roleBpt {
		return scaled, nil
	}
	if r == roleWrapped {
		var err error
		if roundUp {
			scaled, err = fixed.DivUp(scaled, p.WrappedRate)
		} else {
			scaled, err = fixed.DivDown(scaled, p.WrappedRate)
		}
		if err != nil {
			return nil, err
		}
	}
	var (
		ta  model.TokenAmount
		err error
	)
	if roundUp {
		ta, err = model.FromScale18AmountUp(p.token(r), scaled)
	} else {
		ta, err = model.FromScale18Amount(p.token(r), scaled)
	}
	if err != nil {
		return nil, err
	}
	return ta.Amount(), nil
}

type linearBalances struct {
	main, wrapped, supply *uint256.Int
}

func (p *LinearPool) balances() (linearBalances, error) {
	main, err := p.scaleIn(roleMain, p.MainBalance)
	if err != nil {
		return linearBalances{}, err
	}
	wrapped, err := p.scaleIn(roleWrapped, p.WrappedBalance)
	if err != nil {
		return linearBalances{}, err
	}
	return linearBalances{main: main, wrapped: wrapped, supply: p.BptSupply}, nil
}

func (p *LinearPool) roles(tokenIn, tokenOut common.Address) (linearRole, linearRole, error) {
	in, err := p.role(tokenIn)
	if err != nil {
		return 0, 0, err
	}
	out, err := p.role(tokenOut)
	if err != nil {
		return 0, 0, err
	}
	if in == out {
		return 0, 0, fmt.Errorf("pool: cannot swap %s for itself", tokenIn.Hex())
	}
	return in, out, nil
}

func (p *LinearPool) checkLimit(tokenIn, tokenOut common.Address, kind SwapKind, amount *uint256.Int) error {
	limit, err := p.LimitAmountSwap(tokenIn, tokenOut, kind)
	if err != nil {
		return err
	}
	if amount.Gt(limit) {
		side := SideIn
		if kind == GivenOut {
			side = SideOut
		}
		return &RangeError{Side: side, Bound: "max ratio", Amount: amount.Clone(), Limit: limit}
	}
	return nil
}

// SwapGivenIn returns the raw amount of tokenOut for amountIn of tokenIn.
func (p *LinearPool) SwapGivenIn(tokenIn, tokenOut common.Address, amountIn *uint256.Int) (*uint256.Int, error) {
	in, out, err := p.roles(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if err := p.checkLimit(tokenIn, tokenOut, GivenIn, amountIn); err != nil {
		return nil, err
	}
	b, err := p.balances()
	if err != nil {
		return nil, err
	}
	scaled, err := p.scaleIn(in, amountIn)
	if err != nil {
		return nil, err
	}

	var result *uint256.Int
	switch {
	case in == roleMain && out == roleWrapped:
		result, err = WrappedOutPerMainIn(scaled, b.main, p.Params)
	case in == roleMain && out == roleBpt:
		result, err = BptOutPerMainIn(scaled, b.main, b.wrapped, b.supply, p.Params)
	case in == roleWrapped && out == roleMain:
		result, err = MainOutPerWrappedIn(scaled, b.main, p.Params)
	case in == roleWrapped && out == roleBpt:
		result, err = BptOutPerWrappedIn(scaled, b.main, b.wrapped, b.supply, p.Params)
	case in == roleBpt && out == roleMain:
		result, err = MainOutPerBptIn(scaled, b.main, b.wrapped, b.supply, p.Params)
	default:
		result, err = WrappedOutPerBptIn(scaled, b.main, b.wrapped, b.supply, p.Params)
	}
	if err != nil {
		return nil, fmt.Errorf("pool: linear %s->%s: %w", in, out, err)
	}
	return p.scaleOut(out, result, false)
}

// SwapGivenOut returns the raw amount of tokenIn needed for amountOut.
func (p *LinearPool) SwapGivenOut(tokenIn, tokenOut common.Address, amountOut *uint256.Int) (*uint256.Int, error) {
	in, out, err := p.roles(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if err := p.checkLimit(tokenIn, tokenOut, GivenOut, amountOut); err != nil {
		return nil, err
	}
	b, err := p.balances()
	if err != nil {
		return nil, err
	}
	scaled, err := p.scaleIn(out, amountOut)
	if err != nil {
		return nil, err
	}

	var result *uint256.Int
	switch {
	case in == roleMain && out == roleWrapped:
		result, err = MainInPerWrappedOut(scaled, b.main, p.Params)
	case in == roleMain && out == roleBpt:
		result, err = MainInPerBptOut(scaled, b.main, b.wrapped, b.supply, p.Params)
	case in == roleWrapped && out == roleMain:
		result, err = WrappedInPerMainOut(scaled, b.main, p.Params)
	case in == roleWrapped && out == roleBpt:
		result, err = WrappedInPerBptOut(scaled, b.main, b.wrapped, b.supply, p.Params)
	case in == roleBpt && out == roleMain:
		result, err = BptInPerMainOut(scaled, b.main, b.wrapped, b.supply, p.Params)
	default:
		result, err = BptInPerWrappedOut(scaled, b.main, b.wrapped, b.supply, p.Params)
	}
	if err != nil {
		return nil, fmt.Errorf("pool: linear %s->%s: %w", in, out, err)
	}
	return p.scaleOut(in, result, true)
}

// LimitAmountSwap caps a swap at 30% of the relevant raw balance; for the
// share token that is its virtual balance.
func (p *LinearPool) LimitAmountSwap(tokenIn, tokenOut common.Address, kind SwapKind) (*uint256.Int, error) {
	in, out, err := p.roles(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if kind == GivenOut {
		return ratioOf(p.rawBalance(out), MaxOutRatio), nil
	}
	return ratioOf(p.rawBalance(in), MaxInRatio), nil
}
