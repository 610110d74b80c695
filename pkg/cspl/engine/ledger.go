package engine

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/invoix/wrapper-server/pkg/cspl/transaction"
	"github.com/invoix/wrapper-server/pkg/pointer"
	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Ledger is the read-only view of the chain the engine depends on
type Ledger interface {
	transaction.LifetimeTokenSource

	// GetAccountExistence returns whether an account exists. A nil result
	// means existence could not be determined.
	GetAccountExistence(ctx context.Context, account ed25519.PublicKey) (*bool, error)

	// GetAccountData returns the raw data of an account, or ErrAccountNotFound
	GetAccountData(ctx context.Context, account ed25519.PublicKey) ([]byte, error)

	// GetTokenAccount returns the decoded token account for mint, or
	// ErrAccountNotFound
	GetTokenAccount(ctx context.Context, mint, account ed25519.PublicKey) (*token.Account, error)
}

type rpcLedger struct {
	log        *logrus.Entry
	sc         solana.Client
	commitment solana.Commitment
}

// NewLedger returns a Ledger backed by the Solana JSON RPC API. Nothing is
// cached, so every lifetime token is fetched fresh.
func NewLedger(sc solana.Client, commitment solana.Commitment) Ledger {
	return &rpcLedger{
		log:        logrus.StandardLogger().WithField("type", "engine/ledger"),
		sc:         sc,
		commitment: commitment,
	}
}

// GetCurrentLifetimeToken implements transaction.LifetimeTokenSource.GetCurrentLifetimeToken
func (l *rpcLedger) GetCurrentLifetimeToken(ctx context.Context) (solana.Blockhash, error) {
	return l.sc.GetLatestBlockhash(ctx, l.commitment)
}

// GetAccountExistence implements Ledger.GetAccountExistence
func (l *rpcLedger) GetAccountExistence(ctx context.Context, account ed25519.PublicKey) (*bool, error) {
	_, err := l.sc.GetAccountInfo(ctx, account, l.commitment)
	switch err {
	case nil:
		return pointer.To(true), nil
	case solana.ErrNoAccountInfo:
		return pointer.To(false), nil
	default:
		return nil, err
	}
}

// GetAccountData implements Ledger.GetAccountData
func (l *rpcLedger) GetAccountData(ctx context.Context, account ed25519.PublicKey) ([]byte, error) {
	info, err := l.sc.GetAccountInfo(ctx, account, l.commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, err
	}
	return info.Data, nil
}

// GetTokenAccount implements Ledger.GetTokenAccount
func (l *rpcLedger) GetTokenAccount(ctx context.Context, mint, account ed25519.PublicKey) (*token.Account, error) {
	tokenAccount, err := token.NewClient(l.sc, mint).GetAccount(ctx, account, l.commitment)
	if err == token.ErrAccountNotFound {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, err
	}
	return tokenAccount, nil
}
