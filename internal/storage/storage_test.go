package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/model"
)

const poolID = "0x32296969ef14eb0c6d29669c550d4a0449130230000200000000000000000080"

func TestJsonlSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.jsonl")
	sink := NewJsonlSink(path)

	first := model.CallRecord{ChainID: 1, Operation: "add-query", PoolID: poolID, Kind: "Proportional", Amounts: []string{"1", "2"}}
	second := model.CallRecord{ChainID: 1, Operation: "add-build", PoolID: poolID, Kind: "Proportional", Data: "0x01"}
	if err := sink.PutRecords([]model.CallRecord{first}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if err := sink.PutRecords([]model.CallRecord{second}); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if err := sink.PutRecords(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}

	got, err := sink.ReadRecords()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].Operation != "add-query" || got[1].Data != "0x01" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if len(got[0].Amounts) != 2 || got[0].Amounts[1] != "2" {
		t.Fatalf("amounts not kept: %+v", got[0].Amounts)
	}
}

func TestJsonlSinkMissingFile(t *testing.T) {
	got, err := NewJsonlSink(filepath.Join(t.TempDir(), "none.jsonl")).ReadRecords()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPoolFileYAML(t *testing.T) {
	path := writeFile(t, "pools.yaml", `
pools:
  - chain_id: 1
    id: "`+poolID+`"
    type: composable_stable
    tokens:
      - address: "0x2F4eb100552ef93840d5aDC30560E5513DFfFACb"
        decimals: 18
      - address: "0x32296969Ef14EB0c6d29669C550D4a0449130230"
        decimals: 18
      - address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
        decimals: 6
        symbol: USDC
`)
	provider, err := LoadPoolFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	state, err := provider.PoolState(context.Background(), common.HexToHash(poolID), "")
	if err != nil {
		t.Fatalf("pool state: %v", err)
	}
	if state.Type != model.PoolTypeComposableStable {
		t.Fatalf("expected alias resolved, got %s", state.Type)
	}
	if state.BptIndex() != 1 {
		t.Fatalf("expected bpt index 1, got %d", state.BptIndex())
	}
	if state.Tokens[2].Index != 2 || state.Tokens[2].Decimals != 6 || state.Tokens[2].Symbol != "USDC" {
		t.Fatalf("unexpected token: %+v", state.Tokens[2])
	}
	if state.Tokens[0].ChainID != 1 {
		t.Fatalf("expected chain id propagated to tokens")
	}

	if _, err := provider.PoolState(context.Background(), common.HexToHash(poolID), model.PoolTypeWeighted); err == nil {
		t.Fatalf("expected pool type mismatch")
	}
	if _, err := provider.PoolState(context.Background(), common.HexToHash("0x01"), ""); err == nil {
		t.Fatalf("expected unknown pool")
	}
}

func TestLoadPoolFileJSON(t *testing.T) {
	path := writeFile(t, "pools.json", `{"pools":[{"chain_id":1,"id":"`+poolID+`","type":"WEIGHTED","tokens":[
		{"address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18},
		{"address":"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48","decimals":6}]}]}`)
	provider, err := LoadPoolFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	states := provider.States()
	if len(states) != 1 {
		t.Fatalf("expected 1 pool, got %d", len(states))
	}
	if states[0].Address != model.PoolAddressFromID(common.HexToHash(poolID)) {
		t.Fatalf("address not derived from id: %s", states[0].Address.Hex())
	}
}

func TestLoadPoolFileRejectsBadStates(t *testing.T) {
	cases := map[string]string{
		"unknown type": `{"pools":[{"chain_id":1,"id":"` + poolID + `","type":"META","tokens":[{"address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18}]}]}`,
		"decimals":     `{"pools":[{"chain_id":1,"id":"` + poolID + `","type":"WEIGHTED","tokens":[{"address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":24}]}]}`,
		"duplicate":    `{"pools":[{"chain_id":1,"id":"` + poolID + `","type":"WEIGHTED","tokens":[{"address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18}]},{"chain_id":1,"id":"` + poolID + `","type":"WEIGHTED","tokens":[{"address":"0x6B175474E89094C44Da98b954EedeAC495271d0F","decimals":18}]}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadPoolFile(writeFile(t, "pools.json", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadNestedFile(t *testing.T) {
	path := writeFile(t, "nested.yaml", `
chain_id: 1
pools:
  - id: "0x1111111111111111111111111111111111111111000100000000000000000001"
    type: weighted
    level: 1
    tokens:
      - address: "0x2222222222222222222222222222222222222222000100000000000000000002"
        decimals: 18
        index: 1
`)
	if _, _, err := LoadNestedFile(path); err == nil {
		t.Fatalf("expected invalid token address")
	}

	path = writeFile(t, "nested.yaml", `
chain_id: 1
pools:
  - id: "0x1111111111111111111111111111111111111111000100000000000000000001"
    type: weighted
    level: 1
    tokens:
      - address: "0x2222222222222222222222222222222222222222"
        decimals: 18
        index: 1
      - address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"
        decimals: 18
        index: 0
  - id: "0x2222222222222222222222222222222222222222000100000000000000000002"
    type: PHANTOM_STABLE
    level: 0
    tokens:
      - address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
        decimals: 6
        index: 0
`)
	chainID, pools, err := LoadNestedFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if chainID != 1 || len(pools) != 2 {
		t.Fatalf("unexpected result: chain %d pools %d", chainID, len(pools))
	}
	if pools[0].Type != model.PoolTypeWeighted || pools[0].Level != 1 {
		t.Fatalf("unexpected first pool: %+v", pools[0])
	}
	if pools[0].Tokens[0].Index != 1 || pools[0].Tokens[0].ChainID != 1 {
		t.Fatalf("token index or chain id not kept: %+v", pools[0].Tokens[0])
	}
	if pools[1].Tokens[0].Decimals != 6 {
		t.Fatalf("unexpected decimals: %+v", pools[1].Tokens[0])
	}
}
