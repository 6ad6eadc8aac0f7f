package liquidity

import (
	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/model"
)

// AddInput is one of AddInit, AddUnbalanced, AddSingleToken or
// AddProportional.
type AddInput interface {
	Kind() AddKind
	isAddInput()
}

// AddInit seeds an empty pool. It can only be built, never queried.
type AddInit struct {
	AmountsIn []model.TokenAmount
}

// AddUnbalanced adds exact amounts of any subset of the pool tokens.
type AddUnbalanced struct {
	AmountsIn []model.TokenAmount
}

// AddSingleToken mints exactly BptOut paying with one token.
type AddSingleToken struct {
	BptOut  model.TokenAmount
	TokenIn common.Address
}

// AddProportional mints exactly BptOut paying every token pro rata.
type AddProportional struct {
	BptOut model.TokenAmount
}

func (AddInit) Kind() AddKind         { return AddInitKind }
func (AddUnbalanced) Kind() AddKind   { return AddUnbalancedKind }
func (AddSingleToken) Kind() AddKind  { return AddSingleTokenKind }
func (AddProportional) Kind() AddKind { return AddProportionalKind }

func (AddInit) isAddInput()         {}
func (AddUnbalanced) isAddInput()   {}
func (AddSingleToken) isAddInput()  {}
func (AddProportional) isAddInput() {}

// RemoveInput is one of RemoveUnbalanced, RemoveSingleTokenExactOut,
// RemoveSingleTokenExactIn, RemoveProportional or RemoveRecovery.
type RemoveInput interface {
	Kind() RemoveKind
	isRemoveInput()
}

// RemoveUnbalanced receives exact amounts, burning whatever BPT it costs.
type RemoveUnbalanced struct {
	AmountsOut []model.TokenAmount
}

// RemoveSingleTokenExactOut receives an exact amount of one token.
type RemoveSingleTokenExactOut struct {
	AmountOut model.TokenAmount
}

// RemoveSingleTokenExactIn burns exactly BptIn for one token.
type RemoveSingleTokenExactIn struct {
	BptIn    model.TokenAmount
	TokenOut common.Address
}

// RemoveProportional burns exactly BptIn for every token pro rata.
type RemoveProportional struct {
	BptIn model.TokenAmount
}

// RemoveRecovery burns BptIn proportionally while the pool is in recovery
// mode, bypassing its pricing.
type RemoveRecovery struct {
	BptIn model.TokenAmount
}

func (RemoveUnbalanced) Kind() RemoveKind          { return RemoveUnbalancedKind }
func (RemoveSingleTokenExactOut) Kind() RemoveKind { return RemoveSingleTokenExactOutKind }
func (RemoveSingleTokenExactIn) Kind() RemoveKind  { return RemoveSingleTokenExactInKind }
func (RemoveProportional) Kind() RemoveKind        { return RemoveProportionalKind }
func (RemoveRecovery) Kind() RemoveKind            { return RemoveRecoveryKind }

func (RemoveUnbalanced) isRemoveInput()          {}
func (RemoveSingleTokenExactOut) isRemoveInput() {}
func (RemoveSingleTokenExactIn) isRemoveInput()  {}
func (RemoveProportional) isRemoveInput()        {}
func (RemoveRecovery) isRemoveInput()            {}
