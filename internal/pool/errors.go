package pool

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrOutOfRange is the category of every RangeError.
var ErrOutOfRange = errors.New("pool: amount out of range")

// Side names which leg of a trade breached a bound.
type Side string

const (
	SideIn  Side = "in"
	SideOut Side = "out"
)

// RangeError reports a swap amount outside what the invariant accepts.
type RangeError struct {
	Side   Side
	Bound  string
	Amount *uint256.Int
	Limit  *uint256.Int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pool: amount %s %s exceeds %s %s", e.Side, e.Amount.Dec(), e.Bound, e.Limit.Dec())
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// ErrUnknownToken is returned when a swap names a token the pool does not hold.
var ErrUnknownToken = errors.New("pool: token not in pool")
