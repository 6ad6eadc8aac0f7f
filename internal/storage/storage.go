package storage

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"poolKit/internal/model"
)

// Sink receives query and build records.
type Sink interface {
	PutRecords(records []model.CallRecord) error
}

// PoolStateProvider resolves a pool state by id. An empty poolType accepts
// whatever family the provider knows the pool as.
type PoolStateProvider interface {
	PoolState(ctx context.Context, poolID common.Hash, poolType model.PoolType) (model.PoolState, error)
}
