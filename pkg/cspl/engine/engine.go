package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/invoix/wrapper-server/pkg/cache"
	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/cspl/request"
	"github.com/invoix/wrapper-server/pkg/cspl/transaction"
	"github.com/invoix/wrapper-server/pkg/metrics"
	"github.com/invoix/wrapper-server/pkg/solana/token"
	"github.com/invoix/wrapper-server/pkg/sync"
)

const (
	metricsStructName = "engine"

	buildDurationMetricName = "Engine.Build"
	buildEventName          = "TransactionBuilt"

	derivationLockStripes = 64
)

// Result is an unsigned transaction built for a single operation
type Result struct {
	Operation encoder.Operation

	// Transaction is the base64 encoded wire transaction, with one empty
	// signature slot per required signer.
	Transaction string

	Payer    *common.Account
	Wrapper  *common.WrapperAccounts
	Holdings *HoldingAccounts
}

// HoldingAccounts are the payer's token accounts an operation moves funds through
type HoldingAccounts struct {
	Original *common.Account // Legacy token program
	Wrapped  *common.Account // Token-2022
}

// Engine turns validated intents into unsigned wire transactions. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	log     *logrus.Entry
	conf    *conf
	ledger  Ledger
	program *common.Account

	// Derived wrapper accounts keyed by original mint
	derivations     cache.Cache
	derivationLocks *sync.StripedLock
}

// NewEngine returns a new Engine. A nil program uses the deployed wrapper
// program.
func NewEngine(ledger Ledger, program *common.Account, configProvider ConfigProvider) *Engine {
	if program == nil {
		program = common.DefaultProgramAccount
	}

	conf := configProvider()

	return &Engine{
		log:         logrus.StandardLogger().WithField("type", "engine/engine"),
		conf:        conf,
		ledger:      ledger,
		program:     program,
		derivations: cache.NewCache("wrapper_derivations", derivationCacheBudget(conf.derivationCacheSize.Get(context.Background()))),

		derivationLocks: sync.NewStripedLock(derivationLockStripes),
	}
}

// Program returns the owning program of every wrapper the engine builds for
func (e *Engine) Program() *common.Account {
	return e.program
}

// Build validates body for op and returns the unsigned transaction. No error
// is retried internally.
func (e *Engine) Build(ctx context.Context, op encoder.Operation, body map[string]string) (*Result, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Build")
	defer tracer.End()

	start := time.Now()

	log := e.log.WithField("operation", op)

	intent, err := request.Validate(op, body)
	if err != nil {
		log.WithError(err).Debug("request failed validation")
		return nil, err
	}

	log = log.WithFields(logrus.Fields{
		"payer":      intent.Payer.PublicKey().ToBase58(),
		"asset_mint": intent.AssetMint.PublicKey().ToBase58(),
	})
	tracer.AddAttributes(map[string]interface{}{
		"operation":  op.String(),
		"asset_mint": intent.AssetMint.PublicKey().ToBase58(),
	})

	result, err := e.build(ctx, log, intent)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	metrics.RecordDuration(ctx, buildDurationMetricName, time.Since(start))
	metrics.RecordEvent(ctx, buildEventName, map[string]interface{}{
		"operation": op.String(),
	})

	return result, nil
}

func (e *Engine) build(ctx context.Context, log *logrus.Entry, intent *request.Intent) (*Result, error) {
	wrapper, err := e.getWrapperAccounts(intent.AssetMint)
	if err != nil {
		log.WithError(err).Warn("failure deriving wrapper accounts")
		return nil, err
	}

	holdings, err := e.resolveHoldingAccounts(intent, wrapper)
	if err != nil {
		log.WithError(err).Warn("failure deriving holding accounts")
		return nil, err
	}

	log = log.WithFields(logrus.Fields{
		"wrapper_config":   wrapper.Config.PublicKey().ToBase58(),
		"wrapped_mint":     wrapper.WrappedMint.PublicKey().ToBase58(),
		"vault":            wrapper.Vault.PublicKey().ToBase58(),
		"original_holding": holdings.Original.PublicKey().ToBase58(),
		"wrapped_holding":  holdings.Wrapped.PublicKey().ToBase58(),
	})

	if err := e.checkSourceHoldingAccount(ctx, log, intent, holdings); err != nil {
		return nil, err
	}

	accounts, args := e.getEncoderInputs(intent, wrapper, holdings)

	ixn, err := encoder.Encode(intent.Operation, accounts, args)
	if err != nil {
		log.WithError(err).Warn("failure encoding instruction")
		return nil, err
	}

	rpcCtx, cancel := context.WithTimeout(ctx, e.conf.rpcTimeout.Get(ctx))
	defer cancel()

	txn, err := transaction.MakeUnsignedTransaction(rpcCtx, e.ledger, intent.Payer, nil, ixn)
	if err != nil {
		log.WithError(err).Warn("failure making transaction")
		return nil, err
	}

	encoded, err := txn.ToBase64()
	if err != nil {
		log.WithError(err).Warn("failure encoding transaction")
		return nil, err
	}

	log.WithField("lifetime_token", txn.Message.RecentBlockhash.ToBase58()).Debug("built transaction")

	return &Result{
		Operation:   intent.Operation,
		Transaction: encoded,
		Payer:       intent.Payer,
		Wrapper:     wrapper,
		Holdings:    holdings,
	}, nil
}

// getWrapperAccounts derives the wrapper accounts of mint, reusing earlier
// bump searches for the same mint.
func (e *Engine) getWrapperAccounts(mint *common.Account) (*common.WrapperAccounts, error) {
	key := mint.PublicKey().ToBase58()

	// Concurrent builds for the same mint share a single bump search
	unlock := e.derivationLocks.Lock(mint.PublicKey().ToBytes())
	defer unlock()

	if cached, ok := e.derivations.Retrieve(key); ok {
		return cached.(*common.WrapperAccounts), nil
	}

	accounts, err := mint.GetWrapperAccounts(e.program)
	if err != nil {
		return nil, err
	}

	e.derivations.Insert(key, accounts, 1)
	return accounts, nil
}

func (e *Engine) resolveHoldingAccounts(intent *request.Intent, wrapper *common.WrapperAccounts) (*HoldingAccounts, error) {
	holdings := &HoldingAccounts{
		Original: intent.OriginalHoldingAccount,
		Wrapped:  intent.WrappedHoldingAccount,
	}

	var err error
	if holdings.Original == nil {
		holdings.Original, err = intent.Payer.ToAssociatedTokenAccount(intent.AssetMint, token.ProgramKey)
		if err != nil {
			return nil, errors.Wrap(err, "error getting original holding account")
		}
	}
	if holdings.Wrapped == nil {
		holdings.Wrapped, err = intent.Payer.ToAssociatedTokenAccount(wrapper.WrappedMint, token.Token2022ProgramKey)
		if err != nil {
			return nil, errors.Wrap(err, "error getting wrapped holding account")
		}
	}

	return holdings, nil
}

// checkSourceHoldingAccount rejects a wrap or unwrap whose source holding
// account is known not to exist. An RPC failure leaves existence unknown and
// the transaction is built anyway.
func (e *Engine) checkSourceHoldingAccount(ctx context.Context, log *logrus.Entry, intent *request.Intent, holdings *HoldingAccounts) error {
	if !e.conf.existenceCheckEnabled.Get(ctx) {
		return nil
	}

	var source *common.Account
	switch intent.Operation {
	case encoder.OperationWrap:
		source = holdings.Original
	case encoder.OperationUnwrap:
		source = holdings.Wrapped
	default:
		return nil
	}

	rpcCtx, cancel := context.WithTimeout(ctx, e.conf.rpcTimeout.Get(ctx))
	defer cancel()

	exists, err := e.ledger.GetAccountExistence(rpcCtx, source.PublicKey().ToBytes())
	if err != nil {
		log.WithError(err).Info("unable to determine source holding account existence")
		return nil
	}
	if exists != nil && !*exists {
		return &request.ValidationError{
			Field:       request.FieldSourceHoldingAccount,
			Description: "holding account does not exist",
		}
	}
	return nil
}

func (e *Engine) getEncoderInputs(intent *request.Intent, wrapper *common.WrapperAccounts, holdings *HoldingAccounts) (*encoder.Accounts, *encoder.Args) {
	accounts := &encoder.Accounts{
		Program:             e.program.PublicKey().ToBytes(),
		User:                intent.Payer.PublicKey().ToBytes(),
		OriginalMint:        intent.AssetMint.PublicKey().ToBytes(),
		WrapperConfig:       wrapper.Config.PublicKey().ToBytes(),
		WrapperStats:        wrapper.Stats.PublicKey().ToBytes(),
		WrappedMint:         wrapper.WrappedMint.PublicKey().ToBytes(),
		Vault:               wrapper.Vault.PublicKey().ToBytes(),
		UserOriginalAccount: holdings.Original.PublicKey().ToBytes(),
		UserWrappedAccount:  holdings.Wrapped.PublicKey().ToBytes(),
	}

	args := &encoder.Args{
		Amount:                intent.Amount,
		WrapFeeBps:            intent.WrapFeeBps,
		UnwrapFeeBps:          intent.UnwrapFeeBps,
		Auditor:               intent.AuditorKey,
		ExpectedCounter:       intent.ExpectedCounter,
		NewDecryptableBalance: intent.NewEncryptedBalance,
	}

	switch intent.Operation {
	case encoder.OperationConfigureConfidentialAccount:
		// Placeholder key until client side ElGamal key generation exists
		args.ElGamalPubkey = make([]byte, encoder.ElGamalPubkeySize)

	case encoder.OperationSetAuthority:
		args.NewAuthority = intent.NewAuthority.PublicKey().ToBytes()

	case encoder.OperationWithdrawFees:
		destination := intent.DestinationHoldingAccount
		if destination == nil {
			destination = holdings.Original
		}
		accounts.AuthorityTokenAccount = destination.PublicKey().ToBytes()

	case encoder.OperationFreezeAccount, encoder.OperationThawAccount:
		accounts.TargetAccount = intent.TargetAccount.PublicKey().ToBytes()
	}

	return accounts, args
}
