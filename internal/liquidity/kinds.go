package liquidity

import (
	"fmt"
	"strings"
)

// AddKind enumerates add-liquidity (join) operations.
type AddKind int

const (
	AddInitKind AddKind = iota
	AddUnbalancedKind
	AddSingleTokenKind
	AddProportionalKind
)

var addKindNames = map[AddKind]string{
	AddInitKind:         "Init",
	AddUnbalancedKind:   "Unbalanced",
	AddSingleTokenKind:  "SingleToken",
	AddProportionalKind: "Proportional",
}

func (k AddKind) String() string {
	if name, ok := addKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AddKind(%d)", int(k))
}

// ParseAddKind accepts the kind name case-insensitively.
func ParseAddKind(s string) (AddKind, error) {
	for k, name := range addKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("liquidity: unknown add kind %q", s)
}

// RemoveKind enumerates remove-liquidity (exit) operations.
type RemoveKind int

const (
	RemoveUnbalancedKind RemoveKind = iota
	RemoveSingleTokenExactOutKind
	RemoveSingleTokenExactInKind
	RemoveProportionalKind
	RemoveRecoveryKind
)

var removeKindNames = map[RemoveKind]string{
	RemoveUnbalancedKind:          "Unbalanced",
	RemoveSingleTokenExactOutKind: "SingleTokenExactOut",
	RemoveSingleTokenExactInKind:  "SingleTokenExactIn",
	RemoveProportionalKind:        "Proportional",
	RemoveRecoveryKind:            "Recovery",
}

func (k RemoveKind) String() string {
	if name, ok := removeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RemoveKind(%d)", int(k))
}

// ParseRemoveKind accepts the kind name case-insensitively.
func ParseRemoveKind(s string) (RemoveKind, error) {
	for k, name := range removeKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("liquidity: unknown remove kind %q", s)
}
