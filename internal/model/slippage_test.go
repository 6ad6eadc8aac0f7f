package model

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestSlippageFromPercentage(t *testing.T) {
	s, err := SlippageFromPercentage("1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := s.Value().Dec(); got != "10000000000000000" {
		t.Fatalf("value = %s", got)
	}

	amount := uint256.MustFromDecimal("1000000000000000000000")
	up, err := s.ApplyTo(amount)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	down, err := s.RemoveFrom(amount)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if up.Dec() != "1010000000000000000000" || down.Dec() != "990000000000000000000" {
		t.Fatalf("apply=%s remove=%s", up.Dec(), down.Dec())
	}
}

func TestSlippageBounds(t *testing.T) {
	for _, in := range []string{"100", "150", "-1", "abc"} {
		if _, err := SlippageFromPercentage(in); !errors.Is(err, ErrInvalidSlippage) {
			t.Fatalf("%q: expected ErrInvalidSlippage, got %v", in, err)
		}
	}
	s, err := SlippageFromBasisPoints(50)
	if err != nil {
		t.Fatalf("bps: %v", err)
	}
	if s.String() != "0.5%" {
		t.Fatalf("string = %s", s.String())
	}
}

func TestZeroSlippageIsIdentity(t *testing.T) {
	var s Slippage
	amount := uint256.NewInt(12345)
	up, err := s.ApplyTo(amount)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !up.Eq(amount) {
		t.Fatalf("apply changed amount: %s", up.Dec())
	}
}
