package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolKit/internal/builder"
	"poolKit/internal/chain"
	"poolKit/internal/config"
	"poolKit/internal/metadata"
	"poolKit/internal/model"
	"poolKit/internal/storage"
	"poolKit/internal/storage/postgres"
	"poolKit/internal/vault"
)

// env is the per-command runtime: config, logger, optional chain client and
// the resolved contract addresses.
type env struct {
	ctx       context.Context
	cfg       config.Config
	logger    *zap.Logger
	client    *chain.Client
	addresses vault.Addresses
	closers   []func()
}

func setup(cmd *cobra.Command, needRPC bool) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	e := &env{ctx: ctx, cfg: cfg, logger: logger}
	e.closers = append(e.closers, stop, func() { _ = logger.Sync() })

	if e.addresses, err = resolveAddresses(cfg); err != nil {
		e.close()
		return nil, err
	}

	if cfg.RPCURL == "" {
		if needRPC {
			e.close()
			return nil, fmt.Errorf("rpc url is required")
		}
		return e, nil
	}
	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	e.client = client
	e.closers = append(e.closers, client.Close)

	chainID, err := client.GetChainID(ctx)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if chainID.Uint64() != cfg.ChainID {
		logger.Warn("rpc chain id differs from configured chain id",
			zap.Uint64("rpc_chain_id", chainID.Uint64()),
			zap.Uint64("chain_id", cfg.ChainID),
		)
	}
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func resolveAddresses(cfg config.Config) (vault.Addresses, error) {
	base, err := vault.AddressesFor(cfg.ChainID)
	if err != nil && (cfg.Vault == "" || cfg.Helpers == "" || cfg.Relayer == "") {
		return vault.Addresses{}, err
	}
	var override vault.Addresses
	for _, item := range []struct {
		value string
		dst   *common.Address
	}{
		{cfg.Vault, &override.Vault},
		{cfg.Helpers, &override.Helpers},
		{cfg.Relayer, &override.Relayer},
		{cfg.WrappedNative, &override.WrappedNative},
	} {
		addr, err := config.ParseAddress(item.value)
		if err != nil {
			return vault.Addresses{}, err
		}
		*item.dst = addr
	}
	return base.Override(override), nil
}

// provider picks where pool states come from: a pool file, Postgres, or
// the chain.
func (e *env) provider() (storage.PoolStateProvider, error) {
	switch {
	case e.cfg.PoolFile != "":
		return storage.LoadPoolFile(e.cfg.PoolFile)
	case e.cfg.PGDSN != "":
		store, err := postgres.NewStore(e.ctx, e.cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		e.closers = append(e.closers, store.Close)
		return postgres.Provider{Store: store, ChainID: e.cfg.ChainID}, nil
	}
	return e.chainProvider()
}

func (e *env) chainProvider() (*metadata.ChainProvider, error) {
	if e.client == nil {
		return nil, fmt.Errorf("rpc url is required to read pool state from chain")
	}
	return metadata.NewChainProvider(e.client, e.cfg.ChainID, e.addresses.Vault, metadata.Options{
		MaxRetries:     e.cfg.MaxRetries,
		RetryBaseDelay: e.cfg.RetryBackoff,
		Logger:         e.logger,
	})
}

func (e *env) builder() *builder.Builder {
	var (
		helpers builder.QuerySimulator
		relayer builder.ChainedSimulator
	)
	if e.client != nil {
		helpers = vault.NewHelpersSimulator(e.client, e.addresses.Helpers)
		relayer = vault.NewRelayerSimulator(e.client, e.addresses.Relayer)
	}
	return builder.New(e.addresses, helpers, relayer, e.logger)
}

// poolState resolves the pool named by --pool-id and --pool-type.
func (e *env) poolState() (model.PoolState, error) {
	if e.cfg.PoolID == "" {
		return model.PoolState{}, fmt.Errorf("pool id is required")
	}
	poolID, err := config.ParsePoolID(e.cfg.PoolID)
	if err != nil {
		return model.PoolState{}, err
	}
	var poolType model.PoolType
	if e.cfg.PoolType != "" {
		if poolType, err = model.ParsePoolType(e.cfg.PoolType); err != nil {
			return model.PoolState{}, err
		}
	} else if e.cfg.PoolFile == "" && e.cfg.PGDSN == "" {
		return model.PoolState{}, fmt.Errorf("pool type is required when reading from chain")
	}
	provider, err := e.provider()
	if err != nil {
		return model.PoolState{}, err
	}
	return provider.PoolState(e.ctx, poolID, poolType)
}

func (e *env) parties() (common.Address, common.Address, error) {
	sender, err := config.ParseAddress(e.cfg.Sender)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	recipient, err := config.ParseAddress(e.cfg.Recipient)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if recipient == (common.Address{}) {
		recipient = sender
	}
	return sender, recipient, nil
}

func (e *env) slippage() (model.Slippage, error) {
	return model.SlippageFromPercentage(e.cfg.Slippage)
}

func (e *env) record(records ...model.CallRecord) error {
	if e.cfg.Out == "" {
		return nil
	}
	return storage.NewJsonlSink(e.cfg.Out).PutRecords(records)
}
