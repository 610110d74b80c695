package encoder

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidArgument      = errors.New("invalid argument")
)

// Accounts are the fully resolved addresses an operation may reference.
// Each operation only reads the subset its schema declares.
type Accounts struct {
	Program ed25519.PublicKey

	User                  ed25519.PublicKey
	OriginalMint          ed25519.PublicKey
	WrapperConfig         ed25519.PublicKey
	WrapperStats          ed25519.PublicKey
	WrappedMint           ed25519.PublicKey
	Vault                 ed25519.PublicKey
	UserOriginalAccount   ed25519.PublicKey
	UserWrappedAccount    ed25519.PublicKey
	AuthorityTokenAccount ed25519.PublicKey
	TargetAccount         ed25519.PublicKey
}

// Args are the typed instruction arguments of an operation
type Args struct {
	Amount uint64

	WrapFeeBps   uint16
	UnwrapFeeBps uint16
	Auditor      []byte // optional

	NewAuthority ed25519.PublicKey

	ElGamalPubkey         []byte
	ExpectedCounter       uint64
	NewDecryptableBalance []byte
}

// Encode builds the single instruction for op. Arguments are checked before
// any bytes are packed.
func Encode(op Operation, accounts *Accounts, args *Args) (solana.Instruction, error) {
	if !op.IsSupported() {
		return solana.Instruction{}, errors.Wrapf(ErrUnsupportedOperation, "operation %q", op)
	}
	if accounts == nil {
		return solana.Instruction{}, errors.Wrap(ErrInvalidArgument, "accounts are missing")
	}
	if args == nil {
		args = &Args{}
	}

	if layout, ok := bespokeLayouts[op]; ok {
		return encodeBespoke(op, layout, accounts, args)
	}
	return encodeGeneric(op, accounts, args)
}

func encodeBespoke(op Operation, layout *bespokeLayout, accounts *Accounts, args *Args) (solana.Instruction, error) {
	var values map[string]interface{}
	switch op {
	case OperationConfigureConfidentialAccount:
		values = map[string]interface{}{
			argElGamalPubkey: args.ElGamalPubkey,
		}
	case OperationApplyPendingBalance:
		values = map[string]interface{}{
			argExpectedCounter:       args.ExpectedCounter,
			argNewDecryptableBalance: args.NewDecryptableBalance,
		}
	}

	metas, err := layout.accountMetas(map[string]ed25519.PublicKey{
		slotUser:               accounts.User,
		slotWrappedMint:        accounts.WrappedMint,
		slotOriginalMint:       accounts.OriginalMint,
		slotUserWrappedAccount: accounts.UserWrappedAccount,
	})
	if err != nil {
		return solana.Instruction{}, err
	}

	data, err := layout.pack(values)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(programOrDefault(accounts.Program), data, metas...), nil
}

func encodeGeneric(op Operation, accounts *Accounts, args *Args) (solana.Instruction, error) {
	switch op {
	case OperationInitialize:
		if err := requireAccounts(accounts.User, accounts.OriginalMint, accounts.WrapperConfig, accounts.WrapperStats, accounts.WrappedMint, accounts.Vault); err != nil {
			return solana.Instruction{}, err
		}
		if err := checkFees(args.WrapFeeBps, args.UnwrapFeeBps); err != nil {
			return solana.Instruction{}, err
		}
		if len(args.Auditor) != 0 && len(args.Auditor) != ed25519.PublicKeySize {
			return solana.Instruction{}, errors.Wrap(ErrInvalidArgument, "auditor must be 32 bytes")
		}

		return splwrapper.NewInitializeInstruction(
			&splwrapper.InitializeInstructionAccounts{
				Program:       accounts.Program,
				User:          accounts.User,
				OriginalMint:  accounts.OriginalMint,
				WrapperConfig: accounts.WrapperConfig,
				WrapperStats:  accounts.WrapperStats,
				WrappedMint:   accounts.WrappedMint,
				Vault:         accounts.Vault,
			},
			&splwrapper.InitializeInstructionArgs{
				WrapFeeBps:   args.WrapFeeBps,
				UnwrapFeeBps: args.UnwrapFeeBps,
				Auditor:      args.Auditor,
			},
		), nil

	case OperationWrap, OperationUnwrap:
		if err := requireAccounts(accounts.User, accounts.OriginalMint, accounts.WrapperConfig, accounts.WrapperStats, accounts.WrappedMint, accounts.UserOriginalAccount, accounts.Vault, accounts.UserWrappedAccount); err != nil {
			return solana.Instruction{}, err
		}
		if args.Amount == 0 {
			return solana.Instruction{}, errors.Wrap(ErrInvalidArgument, "amount must be positive")
		}

		wrapAccounts := &splwrapper.WrapInstructionAccounts{
			Program:             accounts.Program,
			User:                accounts.User,
			OriginalMint:        accounts.OriginalMint,
			WrapperConfig:       accounts.WrapperConfig,
			WrapperStats:        accounts.WrapperStats,
			WrappedMint:         accounts.WrappedMint,
			UserOriginalAccount: accounts.UserOriginalAccount,
			Vault:               accounts.Vault,
			UserWrappedAccount:  accounts.UserWrappedAccount,
		}
		wrapArgs := &splwrapper.WrapInstructionArgs{Amount: args.Amount}

		if op == OperationWrap {
			return splwrapper.NewWrapInstruction(wrapAccounts, wrapArgs), nil
		}
		return splwrapper.NewUnwrapInstruction(wrapAccounts, wrapArgs), nil

	case OperationPause, OperationUnpause, OperationSetFees, OperationSetAuthority:
		if err := requireAccounts(accounts.WrapperConfig, accounts.User); err != nil {
			return solana.Instruction{}, err
		}

		adminAccounts := &splwrapper.AdminInstructionAccounts{
			Program:       accounts.Program,
			WrapperConfig: accounts.WrapperConfig,
			Authority:     accounts.User,
		}

		switch op {
		case OperationPause:
			return splwrapper.NewPauseInstruction(adminAccounts), nil
		case OperationUnpause:
			return splwrapper.NewUnpauseInstruction(adminAccounts), nil
		case OperationSetFees:
			if err := checkFees(args.WrapFeeBps, args.UnwrapFeeBps); err != nil {
				return solana.Instruction{}, err
			}
			return splwrapper.NewSetFeesInstruction(adminAccounts, &splwrapper.SetFeesInstructionArgs{
				WrapFeeBps:   args.WrapFeeBps,
				UnwrapFeeBps: args.UnwrapFeeBps,
			}), nil
		default:
			if err := requireAccounts(args.NewAuthority); err != nil {
				return solana.Instruction{}, err
			}
			return splwrapper.NewSetAuthorityInstruction(adminAccounts, &splwrapper.SetAuthorityInstructionArgs{
				NewAuthority: args.NewAuthority,
			}), nil
		}

	case OperationWithdrawFees:
		if err := requireAccounts(accounts.OriginalMint, accounts.WrapperConfig, accounts.WrapperStats, accounts.Vault, accounts.User, accounts.AuthorityTokenAccount); err != nil {
			return solana.Instruction{}, err
		}

		return splwrapper.NewWithdrawFeesInstruction(&splwrapper.WithdrawFeesInstructionAccounts{
			Program:               accounts.Program,
			OriginalMint:          accounts.OriginalMint,
			WrapperConfig:         accounts.WrapperConfig,
			WrapperStats:          accounts.WrapperStats,
			Vault:                 accounts.Vault,
			Authority:             accounts.User,
			AuthorityTokenAccount: accounts.AuthorityTokenAccount,
		}), nil

	case OperationFreezeAccount, OperationThawAccount:
		if err := requireAccounts(accounts.OriginalMint, accounts.WrapperConfig, accounts.WrappedMint, accounts.TargetAccount, accounts.User); err != nil {
			return solana.Instruction{}, err
		}

		freezeAccounts := &splwrapper.FreezeAccountInstructionAccounts{
			Program:       accounts.Program,
			OriginalMint:  accounts.OriginalMint,
			WrapperConfig: accounts.WrapperConfig,
			WrappedMint:   accounts.WrappedMint,
			TargetAccount: accounts.TargetAccount,
			Authority:     accounts.User,
		}

		if op == OperationFreezeAccount {
			return splwrapper.NewFreezeAccountInstruction(freezeAccounts), nil
		}
		return splwrapper.NewThawAccountInstruction(freezeAccounts), nil
	}

	return solana.Instruction{}, errors.Wrapf(ErrUnsupportedOperation, "operation %q", op)
}

// DecodedInstruction is a human readable view of an instruction built by Encode
type DecodedInstruction struct {
	Name string
	Args map[string]interface{}
}

// Decode identifies a wrapper program instruction from its data and, where
// the layout is known, decodes its arguments.
func Decode(data []byte) (*DecodedInstruction, error) {
	name, ok := splwrapper.InstructionName(data)
	if !ok {
		return nil, errors.Wrap(ErrUnsupportedOperation, "unknown discriminator")
	}

	decoded := &DecodedInstruction{
		Name: name,
		Args: make(map[string]interface{}),
	}

	var err error
	switch name {
	case "configure_confidential_account":
		decoded.Args, err = bespokeLayouts[OperationConfigureConfidentialAccount].unpack(data)
	case "apply_pending_balance":
		decoded.Args, err = bespokeLayouts[OperationApplyPendingBalance].unpack(data)
	case "initialize":
		var args *splwrapper.InitializeInstructionArgs
		if args, err = splwrapper.DecodeInitializeInstructionArgs(data); err == nil {
			decoded.Args["wrapFeeBps"] = args.WrapFeeBps
			decoded.Args["unwrapFeeBps"] = args.UnwrapFeeBps
			if len(args.Auditor) > 0 {
				decoded.Args["auditor"] = []byte(args.Auditor)
			}
		}
	case "wrap", "unwrap":
		var args *splwrapper.WrapInstructionArgs
		if name == "wrap" {
			args, err = splwrapper.DecodeWrapInstructionArgs(data)
		} else {
			args, err = splwrapper.DecodeUnwrapInstructionArgs(data)
		}
		if err == nil {
			decoded.Args["amount"] = args.Amount
		}
	case "set_fees":
		var args *splwrapper.SetFeesInstructionArgs
		if args, err = splwrapper.DecodeSetFeesInstructionArgs(data); err == nil {
			decoded.Args["wrapFeeBps"] = args.WrapFeeBps
			decoded.Args["unwrapFeeBps"] = args.UnwrapFeeBps
		}
	case "set_authority":
		var args *splwrapper.SetAuthorityInstructionArgs
		if args, err = splwrapper.DecodeSetAuthorityInstructionArgs(data); err == nil {
			decoded.Args["newAuthority"] = []byte(args.NewAuthority)
		}
	}
	if err != nil {
		return nil, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	return decoded, nil
}

func checkFees(fees ...uint16) error {
	for _, fee := range fees {
		if fee > splwrapper.MaxFeeBps {
			return errors.Wrapf(ErrInvalidArgument, "fee of %d bps exceeds %d", fee, splwrapper.MaxFeeBps)
		}
	}
	return nil
}

func requireAccounts(keys ...ed25519.PublicKey) error {
	for _, key := range keys {
		if len(key) != ed25519.PublicKeySize {
			return errors.Wrap(ErrInvalidArgument, "required account is missing")
		}
	}
	return nil
}

func programOrDefault(program ed25519.PublicKey) ed25519.PublicKey {
	if len(program) == 0 {
		return splwrapper.PROGRAM_ID
	}
	return program
}
