package splwrapper

import (
	"crypto/ed25519"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"

	"github.com/invoix/wrapper-server/pkg/solana"
)

const (
	InitializeInstructionArgsSize = (2 + // wrap_fee_bps
		2 + // unwrap_fee_bps
		1 + 32) // auditor
)

type InitializeInstructionArgs struct {
	WrapFeeBps   uint16
	UnwrapFeeBps uint16
	Auditor      ed25519.PublicKey // optional
}

func (obj InitializeInstructionArgs) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint16(obj.WrapFeeBps, binary.LittleEndian); err != nil {
		return err
	}
	if err := encoder.WriteUint16(obj.UnwrapFeeBps, binary.LittleEndian); err != nil {
		return err
	}
	return writeOptionalKey(encoder, obj.Auditor)
}

func (obj *InitializeInstructionArgs) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if obj.WrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian); err != nil {
		return err
	}
	if obj.UnwrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian); err != nil {
		return err
	}
	obj.Auditor, err = readOptionalKey(decoder)
	return err
}

type InitializeInstructionAccounts struct {
	Program ed25519.PublicKey // optional, defaults to PROGRAM_ID

	User          ed25519.PublicKey
	OriginalMint  ed25519.PublicKey
	WrapperConfig ed25519.PublicKey
	WrapperStats  ed25519.PublicKey
	WrappedMint   ed25519.PublicKey
	Vault         ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
	args *InitializeInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: programOrDefault(accounts.Program),

		// Instruction args
		Data: encodeInstructionData(InitializeInstructionDiscriminator, args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.User,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.OriginalMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.WrapperConfig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.WrapperStats,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.WrappedMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_2022_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSVAR_RENT_PUBKEY,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func DecodeInitializeInstructionArgs(data []byte) (*InitializeInstructionArgs, error) {
	var args InitializeInstructionArgs
	if err := decodeInstructionData(data, InitializeInstructionDiscriminator, &args); err != nil {
		return nil, err
	}
	return &args, nil
}
