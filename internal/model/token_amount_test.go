package model

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

var usdc = Token{ChainID: 1, Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6, Symbol: "USDC"}

func TestFromRawAmountScales(t *testing.T) {
	ta, err := FromRawAmount(usdc, uint256.NewInt(1_500_000))
	if err != nil {
		t.Fatalf("from raw: %v", err)
	}
	if got := ta.Scale18().Dec(); got != "1500000000000000000" {
		t.Fatalf("scale18 = %s", got)
	}
	if got := ta.Human(); got != "1.5" {
		t.Fatalf("human = %s", got)
	}
}

func TestFromHumanAmount(t *testing.T) {
	ta, err := FromHumanAmount(usdc, "12.345678")
	if err != nil {
		t.Fatalf("from human: %v", err)
	}
	if got := ta.Amount().Dec(); got != "12345678" {
		t.Fatalf("raw = %s", got)
	}

	if _, err := FromHumanAmount(usdc, "1.0000001"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected precision error, got %v", err)
	}
	if _, err := FromHumanAmount(usdc, "-1"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected negative error, got %v", err)
	}
}

func TestFromScale18Rounding(t *testing.T) {
	v := uint256.MustFromDecimal("1000000000001")

	down, err := FromScale18Amount(usdc, v)
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	up, err := FromScale18AmountUp(usdc, v)
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	if down.Amount().Uint64() != 1 || up.Amount().Uint64() != 2 {
		t.Fatalf("down=%s up=%s", down.Amount().Dec(), up.Amount().Dec())
	}
}

func TestAmountIsImmutable(t *testing.T) {
	raw := uint256.NewInt(10)
	ta, err := FromRawAmount(usdc, raw)
	if err != nil {
		t.Fatalf("from raw: %v", err)
	}
	raw.SetUint64(99)
	got := ta.Amount()
	got.SetUint64(7)
	if ta.Amount().Uint64() != 10 {
		t.Fatalf("amount mutated: %s", ta.Amount().Dec())
	}
}

func TestTooManyDecimals(t *testing.T) {
	bad := Token{Address: common.HexToAddress("0x01"), Decimals: 24}
	_, err := FromRawAmount(bad, uint256.NewInt(1))
	var de *DecimalsError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecimalsError, got %v", err)
	}
}
