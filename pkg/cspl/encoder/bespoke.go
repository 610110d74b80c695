package encoder

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/solana/binary"
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
	"github.com/invoix/wrapper-server/pkg/solana/system"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

const discriminatorSize = 8

type argKind uint8

const (
	argKindUint64 argKind = iota
	argKindFixedBytes
)

type argSpec struct {
	name   string
	offset int
	width  int
	kind   argKind
}

// accountSlot is a positional account in a bespoke instruction. Slots with a
// fixed key are program or sysvar accounts that never vary per request.
type accountSlot struct {
	name  string
	role  solana.AccountRole
	fixed ed25519.PublicKey
}

type bespokeLayout struct {
	discriminator []byte
	args          []argSpec
	accounts      []accountSlot
	size          int
}

// Bespoke argument and account slot names
const (
	argElGamalPubkey         = "elgamalPubkey"
	argExpectedCounter       = "expectedPendingBalanceCreditCounter"
	argNewDecryptableBalance = "newDecryptableAvailableBalance"

	slotUser               = "user"
	slotWrappedMint        = "wrappedMint"
	slotOriginalMint       = "originalMint"
	slotUserWrappedAccount = "userWrappedAccount"
	slotToken2022Program   = "token2022Program"
	slotInstructionsSysvar = "instructionsSysvar"
)

const (
	ElGamalPubkeySize         = 32
	DecryptableBalanceSize    = 36
	configureConfidentialSize = discriminatorSize + ElGamalPubkeySize
	applyPendingBalanceSize   = discriminatorSize + 8 + DecryptableBalanceSize
)

var bespokeLayouts = map[Operation]*bespokeLayout{
	OperationConfigureConfidentialAccount: {
		discriminator: splwrapper.ConfigureConfidentialAccountDiscriminator,
		args: []argSpec{
			{name: argElGamalPubkey, offset: 8, width: ElGamalPubkeySize, kind: argKindFixedBytes},
		},
		accounts: []accountSlot{
			{name: slotUser, role: solana.RoleWritableSigner},
			{name: slotWrappedMint, role: solana.RoleReadonly},
			{name: slotOriginalMint, role: solana.RoleReadonly},
			{name: slotUserWrappedAccount, role: solana.RoleWritable},
			{name: slotToken2022Program, role: solana.RoleReadonly, fixed: token.Token2022ProgramKey},
			{name: slotInstructionsSysvar, role: solana.RoleReadonly, fixed: system.InstructionsSysVar},
		},
		size: configureConfidentialSize,
	},
	OperationApplyPendingBalance: {
		discriminator: splwrapper.ApplyPendingBalanceDiscriminator,
		args: []argSpec{
			{name: argExpectedCounter, offset: 8, width: 8, kind: argKindUint64},
			{name: argNewDecryptableBalance, offset: 16, width: DecryptableBalanceSize, kind: argKindFixedBytes},
		},
		accounts: []accountSlot{
			{name: slotUser, role: solana.RoleWritableSigner},
			{name: slotUserWrappedAccount, role: solana.RoleWritable},
			{name: slotToken2022Program, role: solana.RoleReadonly, fixed: token.Token2022ProgramKey},
		},
		size: applyPendingBalanceSize,
	},
}

// bespokeSchemaLengths is the number of accounts each program instruction
// declares.
var bespokeSchemaLengths = map[Operation]int{
	OperationConfigureConfidentialAccount: 6,
	OperationApplyPendingBalance:          3,
}

func init() {
	for op, layout := range bespokeLayouts {
		if err := layout.check(bespokeSchemaLengths[op]); err != nil {
			panic(fmt.Sprintf("invalid %s layout: %v", op, err))
		}
	}
}

// check verifies arguments tile the payload after the discriminator with no
// gaps or overlaps, and that the account list matches the schema length.
func (l *bespokeLayout) check(schemaLength int) error {
	if len(l.discriminator) != discriminatorSize {
		return errors.New("discriminator must be 8 bytes")
	}

	next := discriminatorSize
	for _, arg := range l.args {
		if arg.offset != next {
			return errors.Errorf("argument %s at offset %d, expected %d", arg.name, arg.offset, next)
		}
		if arg.kind == argKindUint64 && arg.width != 8 {
			return errors.Errorf("argument %s has invalid width %d", arg.name, arg.width)
		}
		next += arg.width
	}
	if next != l.size {
		return errors.Errorf("arguments end at %d, expected %d", next, l.size)
	}

	if len(l.accounts) != schemaLength {
		return errors.Errorf("%d accounts, expected %d", len(l.accounts), schemaLength)
	}
	return nil
}

// pack validates every argument before writing any bytes
func (l *bespokeLayout) pack(values map[string]interface{}) ([]byte, error) {
	for _, arg := range l.args {
		value, ok := values[arg.name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "%s is missing", arg.name)
		}

		switch arg.kind {
		case argKindUint64:
			if _, ok := value.(uint64); !ok {
				return nil, errors.Wrapf(ErrInvalidArgument, "%s must be an unsigned 64-bit integer", arg.name)
			}
		case argKindFixedBytes:
			b, ok := value.([]byte)
			if !ok || len(b) != arg.width {
				return nil, errors.Wrapf(ErrInvalidArgument, "%s must be exactly %d bytes", arg.name, arg.width)
			}
		}
	}

	data := make([]byte, l.size)
	copy(data, l.discriminator)

	for _, arg := range l.args {
		offset := arg.offset
		switch arg.kind {
		case argKindUint64:
			binary.PutUint64(data[offset:], values[arg.name].(uint64), &offset)
		case argKindFixedBytes:
			binary.PutFixedBytes(data[offset:], values[arg.name].([]byte), arg.width, &offset)
		}
	}

	return data, nil
}

// unpack is the inverse of pack
func (l *bespokeLayout) unpack(data []byte) (map[string]interface{}, error) {
	if len(data) != l.size {
		return nil, errors.Wrapf(ErrInvalidArgument, "payload is %d bytes, expected %d", len(data), l.size)
	}

	values := make(map[string]interface{})
	for _, arg := range l.args {
		offset := arg.offset
		switch arg.kind {
		case argKindUint64:
			var v uint64
			binary.GetUint64(data[offset:], &v, &offset)
			values[arg.name] = v
		case argKindFixedBytes:
			var v []byte
			binary.GetFixedBytes(data[offset:], &v, arg.width, &offset)
			values[arg.name] = v
		}
	}
	return values, nil
}

func (l *bespokeLayout) accountMetas(slots map[string]ed25519.PublicKey) ([]solana.AccountMeta, error) {
	metas := make([]solana.AccountMeta, len(l.accounts))
	for i, slot := range l.accounts {
		key := slot.fixed
		if key == nil {
			key = slots[slot.name]
		}
		if len(key) != ed25519.PublicKeySize {
			return nil, errors.Wrapf(ErrInvalidArgument, "account %s is missing", slot.name)
		}

		metas[i] = solana.NewAccountMetaWithRole(key, slot.role)
	}
	return metas, nil
}
