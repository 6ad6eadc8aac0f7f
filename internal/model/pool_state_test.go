package model

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestPoolAddressFromID(t *testing.T) {
	id := common.HexToHash("0x5c6ee304399dbdb9c8ef030ab642b10820db8f56000200000000000000000014")
	want := common.HexToAddress("0x5c6ee304399dbdb9c8ef030ab642b10820db8f56")
	if got := PoolAddressFromID(id); got != want {
		t.Fatalf("address = %s", got.Hex())
	}
}

func TestBptIndexAndProjection(t *testing.T) {
	id := common.HexToHash("0x42ed016f826165c2e5976fe5bc3df540c5ad0af700000000000000000000058b")
	bpt := PoolAddressFromID(id)
	tokens := []Token{
		{ChainID: 1, Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), Decimals: 18},
		{ChainID: 1, Address: bpt, Decimals: 18},
		{ChainID: 1, Address: common.HexToAddress("0xa111111111111111111111111111111111111111"), Decimals: 6},
	}
	p := NewPoolState(1, id, PoolTypeComposableStable, tokens)
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.BptIndex() != 1 {
		t.Fatalf("bpt index = %d", p.BptIndex())
	}
	rest := p.TokensWithoutBpt()
	if len(rest) != 2 || rest[1].Index != 2 {
		t.Fatalf("unexpected projection: %+v", rest)
	}
}

func TestParsePoolType(t *testing.T) {
	got, err := ParsePoolType("composable_stable")
	if err != nil || got != PoolTypeComposableStable {
		t.Fatalf("got %q err %v", got, err)
	}
	if _, err := ParsePoolType("META_STABLE"); err == nil {
		t.Fatalf("expected error")
	}
}
