package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func newTestRPCServer(t *testing.T, handler func(req rpcRequest) (int, interface{})) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_GetLatestBlockhash_NotCached(t *testing.T) {
	var calls int32
	server := newTestRPCServer(t, func(req rpcRequest) (int, interface{}) {
		assert.Equal(t, "getLatestBlockhash", req.Method)
		assert.JSONEq(t, `[{"commitment":"finalized"}]`, string(req.Params))

		n := atomic.AddInt32(&calls, 1)
		var hash Blockhash
		hash[0] = byte(n)

		return http.StatusOK, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value": map[string]interface{}{
					"blockhash":            base58.Encode(hash[:]),
					"lastValidBlockHeight": 100,
				},
			},
		}
	})

	client := New(server.URL)

	first, err := client.GetLatestBlockhash(context.Background(), CommitmentFinalized)
	require.NoError(t, err)
	second, err := client.GetLatestBlockhash(context.Background(), CommitmentFinalized)
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.EqualValues(t, 1, first[0])
	assert.EqualValues(t, 2, second[0])
}

func TestClient_GetAccountInfo(t *testing.T) {
	owner := make([]byte, 32)
	owner[0] = 7

	server := newTestRPCServer(t, func(req rpcRequest) (int, interface{}) {
		var params []json.RawMessage
		require.NoError(t, json.Unmarshal(req.Params, &params))
		require.Len(t, params, 2)

		var account string
		require.NoError(t, json.Unmarshal(params[0], &account))

		var value interface{}
		if account == base58.Encode(owner) {
			value = map[string]interface{}{
				"lamports":   1000,
				"owner":      base58.Encode(owner),
				"data":       []string{"AQID", "base64"},
				"executable": false,
			}
		}

		return http.StatusOK, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value":   value,
			},
		}
	})

	client := New(server.URL)

	info, err := client.GetAccountInfo(context.Background(), owner, CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, info.Data)
	assert.EqualValues(t, owner, info.Owner)
	assert.EqualValues(t, 1000, info.Lamports)

	_, err = client.GetAccountInfo(context.Background(), make([]byte, 32), CommitmentConfirmed)
	assert.Equal(t, ErrNoAccountInfo, err)
}

func TestClient_ErrorClassification(t *testing.T) {
	for _, tc := range []struct {
		status   int
		code     int
		expected error
	}{
		{http.StatusOK, 429, ErrRateLimited},
		{http.StatusOK, rpcNodeUnhealthyCode, ErrServiceError},
		{http.StatusTooManyRequests, 0, ErrRateLimited},
		{http.StatusBadGateway, 0, ErrServiceError},
	} {
		server := newTestRPCServer(t, func(req rpcRequest) (int, interface{}) {
			if tc.code == 0 {
				return tc.status, map[string]interface{}{"unexpected": true}
			}
			return tc.status, map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error": map[string]interface{}{
					"code":    tc.code,
					"message": "nope",
				},
			}
		})

		_, err := New(server.URL).GetLatestBlockhash(context.Background(), CommitmentConfirmed)
		assert.ErrorIs(t, err, tc.expected)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(server.URL).GetLatestBlockhash(ctx, CommitmentConfirmed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, time.Since(start) < 5*time.Second)
}

func TestClient_CancelledCallsReleaseConnections(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := NewWithHTTPClient(server.URL, &http.Client{Transport: transport})

	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := client.GetLatestBlockhash(ctx, CommitmentConfirmed)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	// Cancelled requests close their connections, so nothing is left waiting
	// on the unresponsive node.
	transport.CloseIdleConnections()
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClient_DefaultRequestTimeout(t *testing.T) {
	c := New("http://localhost:8899").(*client)
	assert.Equal(t, defaultRequestTimeout, c.httpClient.Timeout)

	custom := &http.Client{Timeout: time.Second}
	c = NewWithHTTPClient("http://localhost:8899", custom).(*client)
	assert.Same(t, custom, c.httpClient)
}

func TestCommitmentFromString(t *testing.T) {
	assert.Equal(t, CommitmentProcessed, CommitmentFromString("processed"))
	assert.Equal(t, CommitmentFinalized, CommitmentFromString("finalized"))
	assert.Equal(t, CommitmentConfirmed, CommitmentFromString("confirmed"))
	assert.Equal(t, CommitmentConfirmed, CommitmentFromString(""))
}
