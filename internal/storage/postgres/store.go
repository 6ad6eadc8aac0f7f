package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolKit/internal/model"
)

// ErrPoolNotFound is returned by LoadPoolState for an unknown pool.
var ErrPoolNotFound = errors.New("pool not found")

const schema = `
CREATE TABLE IF NOT EXISTS pool_states (
	chain_id   BIGINT NOT NULL,
	pool_id    TEXT NOT NULL,
	address    TEXT NOT NULL,
	pool_type  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pool_id)
);
CREATE TABLE IF NOT EXISTS pool_tokens (
	chain_id BIGINT NOT NULL,
	pool_id  TEXT NOT NULL,
	idx      INTEGER NOT NULL,
	address  TEXT NOT NULL,
	decimals SMALLINT NOT NULL,
	symbol   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (chain_id, pool_id, idx)
);
`

// Store persists pool states in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// UpsertPoolStates inserts or replaces pool states and their token lists.
func (s *Store) UpsertPoolStates(ctx context.Context, states []model.PoolState) error {
	if len(states) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	queued := 0
	for _, st := range states {
		batch.Queue(`
			INSERT INTO pool_states (chain_id, pool_id, address, pool_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (chain_id, pool_id)
			DO UPDATE SET
				address = EXCLUDED.address,
				pool_type = EXCLUDED.pool_type,
				updated_at = now()
		`,
			int64(st.ChainID),
			st.ID.Hex(),
			st.Address.Hex(),
			string(st.Type),
		)
		batch.Queue(`DELETE FROM pool_tokens WHERE chain_id = $1 AND pool_id = $2`, int64(st.ChainID), st.ID.Hex())
		queued += 2
		for _, t := range st.Tokens {
			batch.Queue(`
				INSERT INTO pool_tokens (chain_id, pool_id, idx, address, decimals, symbol)
				VALUES ($1, $2, $3, $4, $5, $6)
			`,
				int64(st.ChainID),
				st.ID.Hex(),
				t.Index,
				t.Address.Hex(),
				int16(t.Decimals),
				t.Symbol,
			)
			queued++
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// LoadPoolState reads one pool state. The pool type argument is checked
// when non-empty.
func (s *Store) LoadPoolState(ctx context.Context, chainID uint64, poolID common.Hash, poolType model.PoolType) (model.PoolState, error) {
	var address, storedType string
	row := s.pool.QueryRow(ctx, `SELECT address, pool_type FROM pool_states WHERE chain_id=$1 AND pool_id=$2`, int64(chainID), poolID.Hex())
	if err := row.Scan(&address, &storedType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolState{}, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID.Hex())
		}
		return model.PoolState{}, err
	}
	if poolType != "" && model.PoolType(storedType) != poolType {
		return model.PoolState{}, fmt.Errorf("pool %s is stored as %s, not %s", poolID.Hex(), storedType, poolType)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT idx, address, decimals, symbol FROM pool_tokens
		WHERE chain_id=$1 AND pool_id=$2 ORDER BY idx
	`, int64(chainID), poolID.Hex())
	if err != nil {
		return model.PoolState{}, err
	}
	defer rows.Close()

	var tokens []model.PoolToken
	for rows.Next() {
		var (
			idx      int32
			tokenHex string
			decimals int16
			symbol   string
		)
		if err := rows.Scan(&idx, &tokenHex, &decimals, &symbol); err != nil {
			return model.PoolState{}, err
		}
		tokens = append(tokens, model.PoolToken{
			Token: model.Token{
				ChainID:  chainID,
				Address:  common.HexToAddress(tokenHex),
				Decimals: uint8(decimals),
				Symbol:   symbol,
			},
			Index: int(idx),
		})
	}
	if err := rows.Err(); err != nil {
		return model.PoolState{}, err
	}

	state := model.PoolState{
		ChainID: chainID,
		ID:      poolID,
		Address: common.HexToAddress(address),
		Type:    model.PoolType(storedType),
		Tokens:  tokens,
	}
	if err := state.Validate(); err != nil {
		return model.PoolState{}, err
	}
	return state, nil
}

// Provider adapts the store to a fixed chain.
type Provider struct {
	Store   *Store
	ChainID uint64
}

// PoolState implements storage.PoolStateProvider.
func (p Provider) PoolState(ctx context.Context, poolID common.Hash, poolType model.PoolType) (model.PoolState, error) {
	return p.Store.LoadPoolState(ctx, p.ChainID, poolID, poolType)
}
