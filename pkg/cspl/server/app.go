package server

import (
	"net/http"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	"github.com/invoix/wrapper-server/pkg/app"
	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/engine"
	"github.com/invoix/wrapper-server/pkg/cspl/server/web"
	"github.com/invoix/wrapper-server/pkg/netutil"
	"github.com/invoix/wrapper-server/pkg/rate"
	"github.com/invoix/wrapper-server/pkg/solana"
)

// AppConfig is the app section of the process config
type AppConfig struct {
	RpcUrl           string `mapstructure:"rpc_url"`
	RequireSecureRpc bool   `mapstructure:"require_secure_rpc"`
	Commitment       string `mapstructure:"commitment"`

	// ProgramId overrides the deployed wrapper program
	ProgramId string `mapstructure:"program_id"`

	// RateLimitPerSecond is the per client IP request rate. Zero disables
	// rate limiting.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
}

var defaultAppConfig = AppConfig{
	RpcUrl:     string(solana.EnvironmentDev),
	Commitment: "confirmed",
}

func init() {
	app.BindAppEnv("rpc_url", "RPC_URL")
	app.BindAppEnv("require_secure_rpc", "REQUIRE_SECURE_RPC")
	app.BindAppEnv("commitment", "RPC_COMMITMENT")
	app.BindAppEnv("program_id", "PROGRAM_ID")
	app.BindAppEnv("rate_limit_per_second", "RATE_LIMIT_PER_SECOND")
}

type wrapperApp struct {
	log *logrus.Entry

	engine  *engine.Engine
	handler http.Handler

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewApp returns the wrapper transaction service as an app.App
func NewApp() app.App {
	return &wrapperApp{
		log:        logrus.StandardLogger().WithField("type", "server/app"),
		shutdownCh: make(chan struct{}),
	}
}

// DecodeAppConfig decodes and validates the app section of the process config
func DecodeAppConfig(config app.Config) (*AppConfig, error) {
	appConfig := defaultAppConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &appConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(config)); err != nil {
		return nil, errors.Wrap(err, "invalid app config")
	}

	if err := netutil.ValidateHttpUrl(appConfig.RpcUrl, appConfig.RequireSecureRpc); err != nil {
		return nil, errors.Wrap(err, "invalid rpc_url")
	}

	if appConfig.RateLimitPerSecond < 0 {
		return nil, errors.New("rate_limit_per_second cannot be negative")
	}

	if len(appConfig.ProgramId) > 0 {
		if _, err := common.NewAccountFromPublicKeyString(appConfig.ProgramId); err != nil {
			return nil, errors.Wrap(err, "invalid program_id")
		}
	}

	return &appConfig, nil
}

// Init implements app.App.Init
func (a *wrapperApp) Init(config app.Config, metricsProvider *newrelic.Application) error {
	appConfig, err := DecodeAppConfig(config)
	if err != nil {
		return err
	}

	var program *common.Account
	if len(appConfig.ProgramId) > 0 {
		program, err = common.NewAccountFromPublicKeyString(appConfig.ProgramId)
		if err != nil {
			return err
		}
	}

	ledger := engine.NewLedger(
		solana.New(appConfig.RpcUrl),
		solana.CommitmentFromString(appConfig.Commitment),
	)
	a.engine = engine.NewEngine(ledger, program, engine.WithEnvConfigs())

	var limiter rate.Limiter = &rate.NoLimiter{}
	if appConfig.RateLimitPerSecond > 0 {
		limiter = rate.NewLocalRateLimiter(xrate.Limit(appConfig.RateLimitPerSecond))
	}

	a.handler = web.NewServer(a.engine, limiter, metricsProvider, web.WithEnvConfigs()).Handler()

	a.log.WithFields(logrus.Fields{
		"rpc_url":    appConfig.RpcUrl,
		"commitment": appConfig.Commitment,
		"program":    a.engine.Program().PublicKey().ToBase58(),
		"rate_limit": appConfig.RateLimitPerSecond,
	}).Info("app initialized")

	return nil
}

// Handler implements app.App.Handler
func (a *wrapperApp) Handler() http.Handler {
	return a.handler
}

// ShutdownChan implements app.App.ShutdownChan
func (a *wrapperApp) ShutdownChan() <-chan struct{} {
	return a.shutdownCh
}

// Stop implements app.App.Stop
func (a *wrapperApp) Stop() {
	a.shutdownOnce.Do(func() {
		close(a.shutdownCh)
	})
}
