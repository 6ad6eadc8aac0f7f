package liquidity

import (
	"slices"

	"poolKit/internal/model"
)

// Family describes what a pool family supports.
type Family struct {
	Type model.PoolType
	// HasBpt is set when the pool lists its own share token among its members.
	HasBpt bool
	// ProportionalOnly families reject other kinds as invalid input.
	ProportionalOnly bool
	Add              []AddKind
	Remove           []RemoveKind
}

var families = map[model.PoolType]Family{
	model.PoolTypeWeighted: {
		Type:   model.PoolTypeWeighted,
		Add:    []AddKind{AddInitKind, AddUnbalancedKind, AddSingleTokenKind, AddProportionalKind},
		Remove: []RemoveKind{RemoveUnbalancedKind, RemoveSingleTokenExactOutKind, RemoveSingleTokenExactInKind, RemoveProportionalKind, RemoveRecoveryKind},
	},
	model.PoolTypeComposableStable: {
		Type:   model.PoolTypeComposableStable,
		HasBpt: true,
		// TODO: support Init once the preminted BPT slot is modelled.
		Add:    []AddKind{AddUnbalancedKind, AddSingleTokenKind, AddProportionalKind},
		Remove: []RemoveKind{RemoveUnbalancedKind, RemoveSingleTokenExactOutKind, RemoveSingleTokenExactInKind, RemoveProportionalKind, RemoveRecoveryKind},
	},
	model.PoolTypeGyro2: gyroFamily(model.PoolTypeGyro2),
	model.PoolTypeGyro3: gyroFamily(model.PoolTypeGyro3),
	model.PoolTypeGyroE: gyroFamily(model.PoolTypeGyroE),
	// Linear pools are entered and left through swaps only.
	model.PoolTypeLinear: {
		Type:   model.PoolTypeLinear,
		HasBpt: true,
	},
}

func gyroFamily(t model.PoolType) Family {
	return Family{
		Type:             t,
		ProportionalOnly: true,
		Add:              []AddKind{AddProportionalKind},
		Remove:           []RemoveKind{RemoveProportionalKind, RemoveRecoveryKind},
	}
}

// FamilyOf returns the family registered for a pool type.
func FamilyOf(t model.PoolType) (Family, error) {
	f, ok := families[t]
	if !ok {
		return Family{}, &UnsupportedError{PoolType: t, Operation: "any operation"}
	}
	return f, nil
}

func (f Family) SupportsAdd(k AddKind) bool { return slices.Contains(f.Add, k) }

func (f Family) SupportsRemove(k RemoveKind) bool { return slices.Contains(f.Remove, k) }
