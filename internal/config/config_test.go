package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
)

func TestLoadMergesFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "poolkit.yaml")
	content := "rpc: http://file\nchain-id: 137\npool-file: pools.yaml\namount:\n  \"0x6B175474E89094C44Da98b954EedeAC495271d0F\": \"1.5\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POOLKIT_SLIPPAGE", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.String("kind", "", "")
	if err := flags.Parse([]string{"--rpc", "http://flag", "--kind", "Proportional"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(cfgPath, flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "http://flag" {
		t.Fatalf("flag must win over file, got %s", cfg.RPCURL)
	}
	if cfg.ChainID != 137 || cfg.PoolFile != "pools.yaml" {
		t.Fatalf("file values missing: %+v", cfg)
	}
	if cfg.Slippage != "2" {
		t.Fatalf("env value missing, got %s", cfg.Slippage)
	}
	if cfg.Kind != "Proportional" {
		t.Fatalf("kind missing, got %s", cfg.Kind)
	}
	if cfg.LogLevel != "info" || cfg.MaxRetries != 3 {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if len(cfg.Amounts) != 1 {
		t.Fatalf("expected one amount, got %v", cfg.Amounts)
	}
}

func TestParseStringMap(t *testing.T) {
	got := parseStringMap("0xa=1, 0xb = 2 ,broken,=3")
	want := map[string]string{"0xa": "1", "0xb": "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("map mismatch: %v != %v", got, want)
	}
}

func TestParsePoolID(t *testing.T) {
	id, err := ParsePoolID("0x32296969ef14eb0c6d29669c550d4a0449130230000200000000000000000080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id[31] != 0x80 {
		t.Fatalf("unexpected id %s", id.Hex())
	}
	if _, err := ParsePoolID("0x1234"); err == nil {
		t.Fatalf("expected length error")
	}
	if _, err := ParsePoolID("pool"); err == nil {
		t.Fatalf("expected hex error")
	}
}

func TestParseAmounts(t *testing.T) {
	got, err := ParseAmounts(map[string]string{"0x6B175474E89094C44Da98b954EedeAC495271d0F": "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")] != "10" {
		t.Fatalf("unexpected amounts %v", got)
	}
	if _, err := ParseAmounts(map[string]string{"dai": "10"}); err == nil {
		t.Fatalf("expected invalid address")
	}
}
