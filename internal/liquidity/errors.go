package liquidity

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/model"
)

var (
	// ErrInputValidation marks inputs that are wrong for the pool they target.
	ErrInputValidation = errors.New("liquidity: input validation")
	// ErrUnsupported marks combinations the pool family does not implement.
	ErrUnsupported = errors.New("liquidity: unsupported")
)

// ValidationError describes why an input was rejected before any math ran.
type ValidationError struct {
	PoolID common.Hash
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("liquidity: invalid input for pool %s: %s", e.PoolID.Hex(), e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInputValidation }

func invalid(poolID common.Hash, format string, args ...any) error {
	return &ValidationError{PoolID: poolID, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedError names the pool family and the operation it lacks.
type UnsupportedError struct {
	PoolType  model.PoolType
	Operation string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("liquidity: %s pools do not support %s", e.PoolType, e.Operation)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }
