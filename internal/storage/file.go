package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"poolKit/internal/model"
)

// poolFile is the on-disk layout: a list of pools with tokens in vault order.
type poolFile struct {
	Pools []model.PoolState `json:"pools" yaml:"pools"`
}

// FileProvider serves pool states from a JSON or YAML file.
type FileProvider struct {
	states map[common.Hash]model.PoolState
	order  []common.Hash
}

// LoadPoolFile reads a pool file; the format follows the extension
// (.yaml/.yml, anything else is JSON). Missing addresses are derived from
// the pool id and token indexes from file order.
func LoadPoolFile(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool file: %w", err)
	}
	var file poolFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		err = json.Unmarshal(raw, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode pool file %s: %w", path, err)
	}
	return NewFileProvider(file.Pools)
}

// NewFileProvider normalises and validates states.
func NewFileProvider(states []model.PoolState) (*FileProvider, error) {
	p := &FileProvider{states: make(map[common.Hash]model.PoolState, len(states))}
	for _, s := range states {
		if s.Address == (common.Address{}) {
			s.Address = model.PoolAddressFromID(s.ID)
		}
		tokens := make([]model.PoolToken, len(s.Tokens))
		for i, t := range s.Tokens {
			t.Index = i
			if t.ChainID == 0 {
				t.ChainID = s.ChainID
			}
			tokens[i] = t
		}
		s.Tokens = tokens
		poolType, err := model.ParsePoolType(string(s.Type))
		if err != nil {
			return nil, err
		}
		s.Type = poolType
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.states[s.ID]; dup {
			return nil, fmt.Errorf("pool file lists %s twice", s.ID.Hex())
		}
		p.states[s.ID] = s
		p.order = append(p.order, s.ID)
	}
	return p, nil
}

// PoolState returns the stored state of poolID.
func (p *FileProvider) PoolState(_ context.Context, poolID common.Hash, poolType model.PoolType) (model.PoolState, error) {
	s, ok := p.states[poolID]
	if !ok {
		return model.PoolState{}, fmt.Errorf("pool %s not found in pool file", poolID.Hex())
	}
	if poolType != "" && poolType != s.Type {
		return model.PoolState{}, fmt.Errorf("pool %s is %s in pool file, not %s", poolID.Hex(), s.Type, poolType)
	}
	return s, nil
}

// States returns every pool in file order.
func (p *FileProvider) States() []model.PoolState {
	out := make([]model.PoolState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.states[id])
	}
	return out
}
