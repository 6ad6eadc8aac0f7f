package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "poolkit",
		Short:        "Balancer pool math and liquidity transaction builder",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "RPC URL")
	root.PersistentFlags().Uint64("chain-id", 1, "chain id")
	root.PersistentFlags().String("pool-file", "", "pool state file (json or yaml) used instead of chain reads")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN holding pool states")
	root.PersistentFlags().String("out", "", "append query/build records to this JSONL file")
	root.PersistentFlags().Int("max-retries", 3, "maximum retry attempts for metadata reads")
	root.PersistentFlags().Duration("retry-backoff", 250*time.Millisecond, "initial retry backoff")
	root.PersistentFlags().String("vault", "", "vault address override")
	root.PersistentFlags().String("helpers", "", "BalancerHelpers address override")
	root.PersistentFlags().String("relayer", "", "batch relayer address override")
	root.PersistentFlags().String("wrapped-native", "", "wrapped native token override")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newAddCmd(), newRemoveCmd(), newNestedJoinCmd(), newSwapCmd(), newPoolCmd())
	return root
}

func liquidityFlags(cmd *cobra.Command) {
	cmd.Flags().String("pool-id", "", "pool id (bytes32 hex)")
	cmd.Flags().String("pool-type", "", "pool type (WEIGHTED, PHANTOM_STABLE, GYRO2, GYRO3, GYROE, LINEAR)")
	cmd.Flags().StringSlice("amount", nil, "token=amount pairs in human units")
	cmd.Flags().String("bpt", "", "pool share amount in human units")
	cmd.Flags().String("token", "", "single token address")
	cmd.Flags().String("slippage", "0.5", "slippage tolerance in percent")
	cmd.Flags().String("sender", "", "sender address")
	cmd.Flags().String("recipient", "", "recipient address, defaults to sender")
	cmd.Flags().Bool("native", false, "use the native asset in place of the wrapped native token")
	cmd.Flags().Bool("internal-balance", false, "use vault internal balance")
	cmd.Flags().Bool("build", false, "build the transaction after the query")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
