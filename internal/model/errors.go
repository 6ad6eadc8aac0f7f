package model

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAmount is returned for negative, malformed or over-precise amounts.
var ErrInvalidAmount = errors.New("model: invalid amount")

// ErrInvalidSlippage is returned for a tolerance outside [0, 100%).
var ErrInvalidSlippage = errors.New("model: invalid slippage")

// DecimalsError reports a token precision the 18-decimal math cannot scale.
type DecimalsError struct {
	Address  common.Address
	Decimals uint8
}

func (e *DecimalsError) Error() string {
	return fmt.Sprintf("model: token %s has %d decimals, max is %d", e.Address.Hex(), e.Decimals, MaxDecimals)
}
