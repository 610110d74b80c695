package engine

import (
	"time"

	"github.com/invoix/wrapper-server/pkg/config"
	"github.com/invoix/wrapper-server/pkg/config/env"
	"github.com/invoix/wrapper-server/pkg/config/memory"
	"github.com/invoix/wrapper-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "ENGINE_SERVICE_"

	ExistenceCheckEnabledConfigEnvName = envConfigPrefix + "EXISTENCE_CHECK_ENABLED"
	defaultExistenceCheckEnabled       = true

	RpcTimeoutConfigEnvName = envConfigPrefix + "RPC_TIMEOUT"
	defaultRpcTimeout       = 10 * time.Second

	DerivationCacheSizeConfigEnvName = envConfigPrefix + "DERIVATION_CACHE_SIZE"
	defaultDerivationCacheSize       = 10_000
	maxDerivationCacheSize           = 1_000_000
)

type conf struct {
	existenceCheckEnabled config.Bool
	rpcTimeout            config.Duration
	derivationCacheSize   config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			existenceCheckEnabled: env.NewBoolConfig(ExistenceCheckEnabledConfigEnvName, defaultExistenceCheckEnabled),
			rpcTimeout:            env.NewDurationConfig(RpcTimeoutConfigEnvName, defaultRpcTimeout),
			derivationCacheSize:   env.NewUint64Config(DerivationCacheSizeConfigEnvName, defaultDerivationCacheSize),
		}
	}
}

// derivationCacheBudget bounds the configured cache size to [1, maxDerivationCacheSize]
func derivationCacheBudget(size uint64) int {
	if size == 0 {
		return 1
	}
	if size > maxDerivationCacheSize {
		return maxDerivationCacheSize
	}
	return int(size)
}

type testOverrides struct {
	disableExistenceCheck bool
	rpcTimeout            time.Duration
	derivationCacheSize   uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		rpcTimeout := defaultRpcTimeout
		if overrides.rpcTimeout > 0 {
			rpcTimeout = overrides.rpcTimeout
		}

		derivationCacheSize := uint64(defaultDerivationCacheSize)
		if overrides.derivationCacheSize > 0 {
			derivationCacheSize = overrides.derivationCacheSize
		}

		return &conf{
			existenceCheckEnabled: wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableExistenceCheck), defaultExistenceCheckEnabled),
			rpcTimeout:            wrapper.NewDurationConfig(memory.NewConfig(rpcTimeout), defaultRpcTimeout),
			derivationCacheSize:   wrapper.NewUint64Config(memory.NewConfig(derivationCacheSize), defaultDerivationCacheSize),
		}
	}
}
