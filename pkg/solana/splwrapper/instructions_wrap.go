package splwrapper

import (
	"crypto/ed25519"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"

	"github.com/invoix/wrapper-server/pkg/solana"
)

const (
	WrapInstructionArgsSize = 8 // amount
)

// WrapInstructionArgs is shared by wrap and unwrap
type WrapInstructionArgs struct {
	Amount uint64
}

func (obj WrapInstructionArgs) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteUint64(obj.Amount, binary.LittleEndian)
}

func (obj *WrapInstructionArgs) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	obj.Amount, err = decoder.ReadUint64(binary.LittleEndian)
	return err
}

// WrapInstructionAccounts is shared by wrap and unwrap, which declare the same
// account schema.
type WrapInstructionAccounts struct {
	Program ed25519.PublicKey // optional, defaults to PROGRAM_ID

	User                ed25519.PublicKey
	OriginalMint        ed25519.PublicKey
	WrapperConfig       ed25519.PublicKey
	WrapperStats        ed25519.PublicKey
	WrappedMint         ed25519.PublicKey
	UserOriginalAccount ed25519.PublicKey
	Vault               ed25519.PublicKey
	UserWrappedAccount  ed25519.PublicKey
}

func NewWrapInstruction(
	accounts *WrapInstructionAccounts,
	args *WrapInstructionArgs,
) solana.Instruction {
	return newWrapOrUnwrapInstruction(WrapInstructionDiscriminator, accounts, args)
}

func NewUnwrapInstruction(
	accounts *WrapInstructionAccounts,
	args *WrapInstructionArgs,
) solana.Instruction {
	return newWrapOrUnwrapInstruction(UnwrapInstructionDiscriminator, accounts, args)
}

func newWrapOrUnwrapInstruction(
	discriminator []byte,
	accounts *WrapInstructionAccounts,
	args *WrapInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: programOrDefault(accounts.Program),

		// Instruction args
		Data: encodeInstructionData(discriminator, args),

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
				IsWritable: false,
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
				PublicKey:  accounts.UserOriginalAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserWrappedAccount,
				IsWritable: true,
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
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  ASSOCIATED_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func DecodeWrapInstructionArgs(data []byte) (*WrapInstructionArgs, error) {
	var args WrapInstructionArgs
	if err := decodeInstructionData(data, WrapInstructionDiscriminator, &args); err != nil {
		return nil, err
	}
	return &args, nil
}

func DecodeUnwrapInstructionArgs(data []byte) (*WrapInstructionArgs, error) {
	var args WrapInstructionArgs
	if err := decodeInstructionData(data, UnwrapInstructionDiscriminator, &args); err != nil {
		return nil, err
	}
	return &args, nil
}
