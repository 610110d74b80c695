package web

import (
	"github.com/invoix/wrapper-server/pkg/config"
	"github.com/invoix/wrapper-server/pkg/config/env"
	"github.com/invoix/wrapper-server/pkg/config/memory"
	"github.com/invoix/wrapper-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "WEB_SERVICE_"

	MaxBodyBytesConfigEnvName = envConfigPrefix + "MAX_BODY_BYTES"
	defaultMaxBodyBytes       = 16 * 1024

	ServiceNameConfigEnvName = envConfigPrefix + "SERVICE_NAME"
	defaultServiceName       = "Invoix Wrapper API"
)

type conf struct {
	maxBodyBytes config.Uint64
	serviceName  config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			maxBodyBytes: env.NewUint64Config(MaxBodyBytesConfigEnvName, defaultMaxBodyBytes),
			serviceName:  env.NewStringConfig(ServiceNameConfigEnvName, defaultServiceName),
		}
	}
}

type testOverrides struct {
	maxBodyBytes uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		maxBodyBytes := uint64(defaultMaxBodyBytes)
		if overrides.maxBodyBytes > 0 {
			maxBodyBytes = overrides.maxBodyBytes
		}

		return &conf{
			maxBodyBytes: wrapper.NewUint64Config(memory.NewConfig(maxBodyBytes), defaultMaxBodyBytes),
			serviceName:  wrapper.NewStringConfig(memory.NewConfig(defaultServiceName), defaultServiceName),
		}
	}
}
