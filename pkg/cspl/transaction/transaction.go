package transaction

import (
	"context"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/solana"
)

var (
	ErrNoInstructions = errors.New("no instructions provided")

	// ErrUpstreamUnavailable indicates the lifetime token could not be fetched.
	// It is safe for callers to retry.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// LifetimeTokenSource provides the recent blockhash that bounds how long a
// transaction remains valid for submission.
type LifetimeTokenSource interface {
	GetCurrentLifetimeToken(ctx context.Context) (solana.Blockhash, error)
}

type options struct {
	lifetimeToken *solana.Blockhash
}

type Option func(*options)

// WithLifetimeToken uses the provided lifetime token instead of fetching one
func WithLifetimeToken(bh solana.Blockhash) Option {
	return func(o *options) {
		o.lifetimeToken = &bh
	}
}

// MakeUnsignedTransaction compiles instructions into a transaction paid for by
// payer. The returned transaction has one empty signature slot per required
// signer and is never retried internally on failure.
func MakeUnsignedTransaction(
	ctx context.Context,
	source LifetimeTokenSource,
	payer *common.Account,
	opts []Option,
	instructions ...solana.Instruction,
) (solana.Transaction, error) {
	if len(instructions) == 0 {
		return solana.Transaction{}, ErrNoInstructions
	}

	if err := payer.Validate(); err != nil {
		return solana.Transaction{}, errors.Wrap(err, "invalid payer")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var bh solana.Blockhash
	if o.lifetimeToken != nil {
		bh = *o.lifetimeToken
	} else {
		if source == nil {
			return solana.Transaction{}, errors.Wrap(ErrUpstreamUnavailable, "no lifetime token source")
		}

		var err error
		bh, err = source.GetCurrentLifetimeToken(ctx)
		if err != nil {
			return solana.Transaction{}, errors.Wrapf(ErrUpstreamUnavailable, "error getting lifetime token: %v", err)
		}
	}

	txn := solana.NewTransaction(payer.PublicKey().ToBytes(), instructions...)
	txn.SetBlockhash(bh)

	return txn, nil
}
