package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005

	defaultRequestTimeout = 30 * time.Second
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

const (
	confirmationStatusProcessed = "processed"
	confirmationStatusConfirmed = "confirmed"
	confirmationStatusFinalized = "finalized"
)

var (
	CommitmentProcessed = Commitment{Commitment: confirmationStatusProcessed}
	CommitmentConfirmed = Commitment{Commitment: confirmationStatusConfirmed}
	CommitmentFinalized = Commitment{Commitment: confirmationStatusFinalized}
)

// CommitmentFromString maps a commitment name onto a Commitment, defaulting
// to confirmed for unknown values.
func CommitmentFromString(value string) Commitment {
	switch value {
	case confirmationStatusProcessed:
		return CommitmentProcessed
	case confirmationStatusFinalized:
		return CommitmentFinalized
	default:
		return CommitmentConfirmed
	}
}

var (
	ErrNoAccountInfo = errors.New("no account info")
	ErrRateLimited   = errors.New("rate limited")
	ErrServiceError  = errors.New("service error")
)

// AccountInfo contains the Solana account information (not to be confused with a TokenAccount)
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// Client provides an interaction with the Solana JSON RPC API.
//
// Calls are not retried and nothing is cached. Every call observes the
// provided context, so an abandoned request stops waiting on the node.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (AccountInfo, error)
	GetLatestBlockhash(ctx context.Context, commitment Commitment) (Blockhash, error)
}

type client struct {
	log           *logrus.Entry
	endpoint      string
	httpClient    *http.Client
	customHeaders map[string]string
}

// New returns a client using the specified endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithHTTPClient returns a client that issues requests through httpClient
func NewWithHTTPClient(endpoint string, httpClient *http.Client) Client {
	return NewWithRPCOptions(endpoint, &jsonrpc.RPCClientOpts{HTTPClient: httpClient})
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
// Without an HTTP client, requests are bounded by defaultRequestTimeout.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	c := &client{
		log:        logrus.StandardLogger().WithField("type", "solana/client"),
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	if opts != nil {
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		c.customHeaders = opts.CustomHeaders
	}

	return c
}

// contextTransport binds every request it sends to ctx, so cancelling ctx
// closes the underlying connection.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// rpcClientFor returns a JSON RPC client whose requests are cancelled with ctx.
// The RPC library has no context support of its own.
func (c *client) rpcClientFor(ctx context.Context) jsonrpc.RPCClient {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	httpClient := *c.httpClient
	httpClient.Transport = &contextTransport{ctx: ctx, base: base}

	return jsonrpc.NewClientWithOpts(c.endpoint, &jsonrpc.RPCClientOpts{
		HTTPClient:    &httpClient,
		CustomHeaders: c.customHeaders,
	})
}

func (c *client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.rpcClientFor(ctx).Call(method, params...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		return c.handleRpcError(method, err)
	}
	if resp == nil {
		return errors.Errorf("%s() returned an empty response", method)
	}
	if resp.Error != nil {
		return c.handleRpcError(method, resp.Error)
	}

	return resp.GetObject(out)
}

func (c *client) handleRpcError(method string, err error) error {
	switch typed := err.(type) {
	case *jsonrpc.HTTPError:
		if typed.Code == http.StatusTooManyRequests {
			c.log.WithField("method", method).Warn("rate limited")
			return errors.Wrap(ErrRateLimited, typed.Error())
		}
		if typed.Code >= 500 {
			return errors.Wrap(ErrServiceError, typed.Error())
		}
	case *jsonrpc.RPCError:
		if typed.Code == http.StatusTooManyRequests {
			c.log.WithField("method", method).Warn("rate limited")
			return errors.Wrap(ErrRateLimited, typed.Message)
		}
		if typed.Code >= 500 || typed.Code == rpcNodeUnhealthyCode {
			return errors.Wrap(ErrServiceError, typed.Message)
		}
	}

	return err
}

func (c *client) GetLatestBlockhash(ctx context.Context, commitment Commitment) (hash Blockhash, err error) {
	type response struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}

	// note: we have to wrap the commitment in an []interface{} otherwise the
	//       solana RPC node complains. Technically this is a violation of the
	//       JSON RPC v2.0 spec.
	var resp response
	if err := c.call(ctx, &resp, "getLatestBlockhash", []interface{}{commitment}); err != nil {
		return hash, errors.Wrapf(err, "getLatestBlockhash() failed to send request")
	}

	hashBytes, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return hash, errors.Wrap(err, "invalid base58 encoded hash in response")
	}
	if len(hashBytes) != len(hash) {
		return hash, errors.Errorf("invalid blockhash length %d", len(hashBytes))
	}

	copy(hash[:], hashBytes)
	return hash, nil
}

func (c *client) GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.call(ctx, &resp, "getAccountInfo", base58.Encode(account[:]), rpcConfig); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}

	accountInfo.Owner, err = base58.Decode(resp.Value.Owner)
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base58 encoded owner")
	}

	if len(resp.Value.Data) > 0 {
		accountInfo.Data, err = base64.StdEncoding.DecodeString(resp.Value.Data[0])
		if err != nil {
			return accountInfo, errors.Wrap(err, "invalid base64 encoded data")
		}
	}

	accountInfo.Lamports = resp.Value.Lamports
	accountInfo.Executable = resp.Value.Executable

	return accountInfo, nil
}
