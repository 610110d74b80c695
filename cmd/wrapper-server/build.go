package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/cspl/engine"
	"github.com/invoix/wrapper-server/pkg/cspl/transaction"
	"github.com/invoix/wrapper-server/pkg/retry"
	"github.com/invoix/wrapper-server/pkg/retry/backoff"
	"github.com/invoix/wrapper-server/pkg/solana"
)

var newLedger = func(rpcUrl string, commitment solana.Commitment) engine.Ledger {
	return engine.NewLedger(solana.New(rpcUrl), commitment)
}

type buildOptions struct {
	fields        map[string]string
	attempts      uint
	retryInterval time.Duration
	asJson        bool
}

func buildCmd(flags *globalFlags) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <operation>",
		Short: "Build a single unsigned transaction and print it as base64",
		Example: `  wrapper-server build wrap --field payer=<wallet> --field assetMint=<mint> --field amount=1000
  wrapper-server build apply-pending-balance --field payer=<wallet> --field assetMint=<mint> \
    --field expectedCounter=3 --field newEncryptedBalance=<base64>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := flags.program()
			if err != nil {
				return errors.Wrap(err, "invalid program id")
			}

			e := engine.NewEngine(
				newLedger(flags.rpcUrl, solana.CommitmentFromString(flags.commitment)),
				program,
				engine.WithEnvConfigs(),
			)
			return runBuild(cmd.Context(), cmd.OutOrStdout(), e, encoder.Operation(args[0]), opts)
		},
	}

	cmd.Flags().StringToStringVarP(&opts.fields, "field", "f", nil, "request field as key=value (repeatable)")
	cmd.Flags().UintVar(&opts.attempts, "attempts", 3, "maximum attempts when the RPC endpoint is unavailable")
	cmd.Flags().DurationVar(&opts.retryInterval, "retry-interval", time.Second, "base delay between attempts")
	cmd.Flags().BoolVar(&opts.asJson, "json", false, "print the full result as JSON")

	return cmd
}

// runBuild is the caller side retry point for transient upstream failures.
// Each attempt fetches a fresh lifetime token.
func runBuild(ctx context.Context, out io.Writer, e *engine.Engine, op encoder.Operation, opts *buildOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	attempts := opts.attempts
	if attempts == 0 {
		attempts = 1
	}

	var result *engine.Result
	_, err := retry.Retry(
		ctx,
		func(ctx context.Context) error {
			var err error
			result, err = e.Build(ctx, op, opts.fields)
			return err
		},
		retry.RetriableErrors(transaction.ErrUpstreamUnavailable),
		retry.Limit(attempts),
		retry.BackoffWithJitter(backoff.BinaryExponential(opts.retryInterval), 8*opts.retryInterval, 0.1),
	)
	if err != nil {
		return err
	}

	if !opts.asJson {
		_, err = fmt.Fprintln(out, result.Transaction)
		return err
	}

	encoded, err := json.MarshalIndent(newBuildOutput(result), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

type buildOutput struct {
	Operation   string `json:"operation"`
	Transaction string `json:"transaction"`
	Payer       string `json:"payer"`
	Config      string `json:"config"`
	Stats       string `json:"stats"`
	Vault       string `json:"vault"`
	WrappedMint string `json:"wrappedMint"`
	Original    string `json:"originalHoldingAccount,omitempty"`
	Wrapped     string `json:"wrappedHoldingAccount,omitempty"`
}

func newBuildOutput(result *engine.Result) *buildOutput {
	output := &buildOutput{
		Operation:   result.Operation.String(),
		Transaction: result.Transaction,
		Payer:       result.Payer.PublicKey().ToBase58(),
		Config:      result.Wrapper.Config.PublicKey().ToBase58(),
		Stats:       result.Wrapper.Stats.PublicKey().ToBase58(),
		Vault:       result.Wrapper.Vault.PublicKey().ToBase58(),
		WrappedMint: result.Wrapper.WrappedMint.PublicKey().ToBase58(),
	}
	if result.Holdings != nil {
		if result.Holdings.Original != nil {
			output.Original = result.Holdings.Original.PublicKey().ToBase58()
		}
		if result.Holdings.Wrapped != nil {
			output.Wrapped = result.Holdings.Wrapped.PublicKey().ToBase58()
		}
	}
	return output
}
