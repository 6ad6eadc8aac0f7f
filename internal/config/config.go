package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL          string
	ChainID         uint64
	PoolFile        string
	PGDSN           string
	PoolID          string
	PoolType        string
	Kind            string
	Amounts         map[string]string
	Bpt             string
	Token           string
	TokenOut        string
	Slippage        string
	Sender          string
	Recipient       string
	Native          bool
	InternalBalance bool
	Build           bool
	Signature       string
	NestedFile      string
	Out             string
	MaxRetries      int
	RetryBackoff    time.Duration
	LogLevel        string
	Vault           string
	Helpers         string
	Relayer         string
	WrappedNative   string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", uint64(1))
	v.SetDefault("slippage", "0.5")
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 250*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		ChainID:         v.GetUint64("chain-id"),
		PoolFile:        v.GetString("pool-file"),
		PGDSN:           v.GetString("pg-dsn"),
		PoolID:          v.GetString("pool-id"),
		PoolType:        v.GetString("pool-type"),
		Kind:            v.GetString("kind"),
		Amounts:         getStringMap(v, "amount"),
		Bpt:             v.GetString("bpt"),
		Token:           v.GetString("token"),
		TokenOut:        v.GetString("token-out"),
		Slippage:        v.GetString("slippage"),
		Sender:          v.GetString("sender"),
		Recipient:       v.GetString("recipient"),
		Native:          v.GetBool("native"),
		InternalBalance: v.GetBool("internal-balance"),
		Build:           v.GetBool("build"),
		Signature:       v.GetString("signature"),
		NestedFile:      v.GetString("nested-file"),
		Out:             v.GetString("out"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		LogLevel:        v.GetString("log-level"),
		Vault:           v.GetString("vault"),
		Helpers:         v.GetString("helpers"),
		Relayer:         v.GetString("relayer"),
		WrappedNative:   v.GetString("wrapped-native"),
	}

	return cfg, nil
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
		return out
	case []string:
		return parseStringMap(strings.Join(typed, ","))
	case string:
		return parseStringMap(typed)
	default:
		return map[string]string{}
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
