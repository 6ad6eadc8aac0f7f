package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"poolKit/internal/model"
	"poolKit/internal/nested"
)

type nestedPool struct {
	ID     common.Hash       `json:"id" yaml:"id"`
	Type   string            `json:"type" yaml:"type"`
	Level  int               `json:"level" yaml:"level"`
	Tokens []model.PoolToken `json:"tokens" yaml:"tokens"`
}

type nestedFile struct {
	ChainID uint64       `json:"chain_id" yaml:"chain_id"`
	Pools   []nestedPool `json:"pools" yaml:"pools"`
}

// LoadNestedFile reads the pools of a nested join. Unlike a pool file,
// token indexes are taken as written since nested pools list tokens in any
// order.
func LoadNestedFile(path string) (uint64, []nested.Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("read nested file: %w", err)
	}
	var file nestedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		err = json.Unmarshal(raw, &file)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("decode nested file %s: %w", path, err)
	}

	pools := make([]nested.Pool, 0, len(file.Pools))
	for _, p := range file.Pools {
		poolType, err := model.ParsePoolType(p.Type)
		if err != nil {
			return 0, nil, err
		}
		tokens := make([]model.PoolToken, len(p.Tokens))
		for i, t := range p.Tokens {
			if t.ChainID == 0 {
				t.ChainID = file.ChainID
			}
			if err := t.Validate(); err != nil {
				return 0, nil, err
			}
			tokens[i] = t
		}
		pools = append(pools, nested.Pool{ID: p.ID, Type: poolType, Level: p.Level, Tokens: tokens})
	}
	return file.ChainID, pools, nil
}
