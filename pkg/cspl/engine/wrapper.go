package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/request"
	"github.com/invoix/wrapper-server/pkg/cspl/transaction"
	"github.com/invoix/wrapper-server/pkg/metrics"
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

// WrapperState is the derived address set of a wrapper and, for the accounts
// that exist, their decoded on chain state.
type WrapperState struct {
	Accounts *common.WrapperAccounts

	Config *splwrapper.WrapperConfigAccount // nil until initialized
	Stats  *splwrapper.WrapperStatsAccount  // nil until initialized
	Vault  *token.Account                   // nil until initialized
}

// GetWrapper derives the wrapper accounts for assetMint and loads whatever
// state exists for them.
func (e *Engine) GetWrapper(ctx context.Context, assetMint string) (*WrapperState, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetWrapper")
	defer tracer.End()

	log := e.log.WithFields(logrus.Fields{
		"method":     "GetWrapper",
		"asset_mint": assetMint,
	})

	mint, err := request.ParseAddress(request.FieldAssetMint, assetMint)
	if err != nil {
		return nil, err
	}

	accounts, err := e.getWrapperAccounts(mint)
	if err != nil {
		log.WithError(err).Warn("failure deriving wrapper accounts")
		return nil, err
	}

	state := &WrapperState{
		Accounts: accounts,
	}

	rpcCtx, cancel := context.WithTimeout(ctx, e.conf.rpcTimeout.Get(ctx))
	defer cancel()

	configData, err := e.ledger.GetAccountData(rpcCtx, accounts.Config.PublicKey().ToBytes())
	switch err {
	case nil:
		state.Config = &splwrapper.WrapperConfigAccount{}
		if err := state.Config.Unmarshal(configData); err != nil {
			log.WithError(err).Warn("invalid wrapper config account")
			return nil, errors.Wrap(err, "error decoding wrapper config")
		}
	case ErrAccountNotFound:
		// Not initialized, so there's nothing else to load
		return state, nil
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting wrapper config")
		return nil, errors.Wrapf(transaction.ErrUpstreamUnavailable, "error getting wrapper config: %v", err)
	}

	statsData, err := e.ledger.GetAccountData(rpcCtx, accounts.Stats.PublicKey().ToBytes())
	switch err {
	case nil:
		state.Stats = &splwrapper.WrapperStatsAccount{}
		if err := state.Stats.Unmarshal(statsData); err != nil {
			log.WithError(err).Warn("invalid wrapper stats account")
			return nil, errors.Wrap(err, "error decoding wrapper stats")
		}
	case ErrAccountNotFound:
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting wrapper stats")
		return nil, errors.Wrapf(transaction.ErrUpstreamUnavailable, "error getting wrapper stats: %v", err)
	}

	state.Vault, err = e.ledger.GetTokenAccount(rpcCtx, mint.PublicKey().ToBytes(), accounts.Vault.PublicKey().ToBytes())
	switch err {
	case nil:
	case ErrAccountNotFound:
		state.Vault = nil
	case token.ErrInvalidTokenAccount:
		log.WithError(err).Warn("invalid vault account")
		return nil, errors.Wrap(err, "error decoding vault")
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting vault")
		return nil, errors.Wrapf(transaction.ErrUpstreamUnavailable, "error getting vault: %v", err)
	}

	return state, nil
}
