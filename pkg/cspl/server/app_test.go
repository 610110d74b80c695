package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/app"
	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/testutil"
)

func TestDecodeAppConfig_Defaults(t *testing.T) {
	appConfig, err := DecodeAppConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, string(solana.EnvironmentDev), appConfig.RpcUrl)
	assert.Equal(t, "confirmed", appConfig.Commitment)
	assert.Empty(t, appConfig.ProgramId)
	assert.Zero(t, appConfig.RateLimitPerSecond)
}

func TestDecodeAppConfig_Overrides(t *testing.T) {
	program := testutil.NewRandomAccount(t)

	appConfig, err := DecodeAppConfig(app.Config{
		"rpc_url":               "http://127.0.0.1:8899",
		"commitment":            "finalized",
		"program_id":            program.PublicKey().ToBase58(),
		"rate_limit_per_second": "2.5",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8899", appConfig.RpcUrl)
	assert.Equal(t, "finalized", appConfig.Commitment)
	assert.Equal(t, program.PublicKey().ToBase58(), appConfig.ProgramId)
	assert.Equal(t, 2.5, appConfig.RateLimitPerSecond)
}

func TestDecodeAppConfig_Invalid(t *testing.T) {
	for _, config := range []app.Config{
		{"rpc_url": "ftp://api.devnet.solana.com"},
		{"rpc_url": "api.devnet.solana.com"},
		{"rpc_url": "http://api.devnet.solana.com", "require_secure_rpc": true},
		{"program_id": "not-a-program"},
		{"rate_limit_per_second": -1},
		{"rate_limit_per_second": "fast"},
	} {
		_, err := DecodeAppConfig(config)
		assert.Error(t, err, "%v", config)
	}
}

func TestApp_InitAndStop(t *testing.T) {
	wrapperApp := NewApp()
	require.NoError(t, wrapperApp.Init(app.Config{"rate_limit_per_second": 10}, nil))

	recorder := httptest.NewRecorder()
	wrapperApp.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	select {
	case <-wrapperApp.ShutdownChan():
		t.Fatal("app shutdown before stop")
	default:
	}

	wrapperApp.Stop()
	wrapperApp.Stop()

	select {
	case <-wrapperApp.ShutdownChan():
	default:
		t.Fatal("app not shutdown after stop")
	}
}
