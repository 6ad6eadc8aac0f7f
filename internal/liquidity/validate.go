package liquidity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/model"
)

// ValidateAdd rejects add-liquidity inputs that are structurally wrong for
// the pool before any amount is derived.
func ValidateAdd(state model.PoolState, input AddInput) error {
	family, err := validatePool(state)
	if err != nil {
		return err
	}
	if family.ProportionalOnly && input.Kind() != AddProportionalKind {
		return invalid(state.ID, "%s pools only support proportional add liquidity, got %s", state.Type, input.Kind())
	}
	if !family.SupportsAdd(input.Kind()) {
		return &UnsupportedError{PoolType: state.Type, Operation: "add liquidity " + input.Kind().String()}
	}

	switch in := input.(type) {
	case AddInit:
		return checkAmounts(state, in.AmountsIn)
	case AddUnbalanced:
		return checkAmounts(state, in.AmountsIn)
	case AddSingleToken:
		if err := checkToken(state, in.TokenIn); err != nil {
			return err
		}
		return checkBpt(state, in.BptOut)
	case AddProportional:
		return checkBpt(state, in.BptOut)
	default:
		return invalid(state.ID, "unknown add input %T", input)
	}
}

// ValidateRemove is the remove-liquidity counterpart of ValidateAdd.
func ValidateRemove(state model.PoolState, input RemoveInput) error {
	family, err := validatePool(state)
	if err != nil {
		return err
	}
	kind := input.Kind()
	if family.ProportionalOnly && kind != RemoveProportionalKind && kind != RemoveRecoveryKind {
		return invalid(state.ID, "%s pools only support proportional remove liquidity, got %s", state.Type, kind)
	}
	if !family.SupportsRemove(kind) {
		return &UnsupportedError{PoolType: state.Type, Operation: "remove liquidity " + kind.String()}
	}

	switch in := input.(type) {
	case RemoveUnbalanced:
		return checkAmounts(state, in.AmountsOut)
	case RemoveSingleTokenExactOut:
		return checkAmounts(state, []model.TokenAmount{in.AmountOut})
	case RemoveSingleTokenExactIn:
		if err := checkToken(state, in.TokenOut); err != nil {
			return err
		}
		return checkBpt(state, in.BptIn)
	case RemoveProportional:
		return checkBpt(state, in.BptIn)
	case RemoveRecovery:
		return checkBpt(state, in.BptIn)
	default:
		return invalid(state.ID, "unknown remove input %T", input)
	}
}

func validatePool(state model.PoolState) (Family, error) {
	family, err := FamilyOf(state.Type)
	if err != nil {
		return Family{}, err
	}
	if err := state.Validate(); err != nil {
		return Family{}, &ValidationError{PoolID: state.ID, Reason: err.Error()}
	}
	if family.HasBpt && state.BptIndex() < 0 {
		return Family{}, invalid(state.ID, "%s pool state must include its own share token %s", state.Type, state.Address.Hex())
	}
	return family, nil
}

// checkToken requires a swappable member: present and not the share token.
func checkToken(state model.PoolState, address common.Address) error {
	if state.IndexOf(address) < 0 {
		return invalid(state.ID, "token %s is not in the pool", address.Hex())
	}
	if address == state.Address {
		return invalid(state.ID, "token %s is the pool share token", address.Hex())
	}
	return nil
}

func checkAmounts(state model.PoolState, amounts []model.TokenAmount) error {
	if len(amounts) == 0 {
		return invalid(state.ID, "no token amounts given")
	}
	seen := make(map[common.Address]struct{}, len(amounts))
	for _, a := range amounts {
		if err := checkToken(state, a.Token.Address); err != nil {
			return err
		}
		if _, dup := seen[a.Token.Address]; dup {
			return invalid(state.ID, "token %s given twice", a.Token.Address.Hex())
		}
		seen[a.Token.Address] = struct{}{}
	}
	return nil
}

func checkBpt(state model.PoolState, bpt model.TokenAmount) error {
	if bpt.Token.Address != state.Address {
		return invalid(state.ID, "share amount is in %s, expected pool token %s", bpt.Token.Address.Hex(), state.Address.Hex())
	}
	return nil
}

func kindError(state model.PoolState, kind fmt.Stringer) error {
	return &UnsupportedError{PoolType: state.Type, Operation: kind.String()}
}
