package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/config"
	"poolKit/internal/model"
	"poolKit/internal/storage"
	"poolKit/internal/storage/postgres"
)

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Snapshot pool states and optionally store them in Postgres",
		Long: "Reads one pool from chain (--pool-id, --pool-type) or every pool of --pool-file, " +
			"prints the states and upserts them when --pg-dsn is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer e.close()
			return runPool(cmd, e)
		},
	}
	cmd.Flags().String("pool-id", "", "pool id (bytes32 hex)")
	cmd.Flags().String("pool-type", "", "pool type")
	return cmd
}

func runPool(cmd *cobra.Command, e *env) error {
	states, err := snapshotStates(e)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), states); err != nil {
		return err
	}
	if e.cfg.PGDSN == "" {
		return nil
	}

	store, err := postgres.NewStore(e.ctx, e.cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(e.ctx); err != nil {
		return err
	}
	if err := store.UpsertPoolStates(e.ctx, states); err != nil {
		return err
	}
	e.logger.Info("pool states stored", zap.Int("pools", len(states)))
	return nil
}

func snapshotStates(e *env) ([]model.PoolState, error) {
	if e.cfg.PoolFile != "" && e.cfg.PoolID == "" {
		file, err := storage.LoadPoolFile(e.cfg.PoolFile)
		if err != nil {
			return nil, err
		}
		return file.States(), nil
	}
	if e.cfg.PoolType == "" {
		return nil, fmt.Errorf("pool type is required when reading from chain")
	}
	poolType, err := model.ParsePoolType(e.cfg.PoolType)
	if err != nil {
		return nil, err
	}
	if e.cfg.PoolID == "" {
		return nil, fmt.Errorf("pool id is required")
	}
	poolID, err := config.ParsePoolID(e.cfg.PoolID)
	if err != nil {
		return nil, err
	}
	provider, err := e.chainProvider()
	if err != nil {
		return nil, err
	}
	state, err := provider.PoolState(e.ctx, poolID, poolType)
	if err != nil {
		return nil, err
	}
	return []model.PoolState{state}, nil
}
