package splwrapper

import (
	"crypto/ed25519"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"

	"github.com/invoix/wrapper-server/pkg/solana"
)

// AdminInstructionAccounts is the account schema shared by pause, unpause,
// set_fees and set_authority.
type AdminInstructionAccounts struct {
	Program ed25519.PublicKey // optional, defaults to PROGRAM_ID

	WrapperConfig ed25519.PublicKey
	Authority     ed25519.PublicKey
}

const (
	SetFeesInstructionArgsSize = (2 + // wrap_fee_bps
		2) // unwrap_fee_bps

	SetAuthorityInstructionArgsSize = 32 // new_authority
)

type SetFeesInstructionArgs struct {
	WrapFeeBps   uint16
	UnwrapFeeBps uint16
}

func (obj SetFeesInstructionArgs) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint16(obj.WrapFeeBps, binary.LittleEndian); err != nil {
		return err
	}
	return encoder.WriteUint16(obj.UnwrapFeeBps, binary.LittleEndian)
}

func (obj *SetFeesInstructionArgs) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if obj.WrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian); err != nil {
		return err
	}
	obj.UnwrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian)
	return err
}

type SetAuthorityInstructionArgs struct {
	NewAuthority ed25519.PublicKey
}

func (obj SetAuthorityInstructionArgs) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(obj.NewAuthority, false)
}

func (obj *SetAuthorityInstructionArgs) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	key, err := decoder.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		return err
	}
	obj.NewAuthority = key
	return nil
}

func NewPauseInstruction(accounts *AdminInstructionAccounts) solana.Instruction {
	return newAdminInstruction(PauseInstructionDiscriminator, accounts, nil)
}

func NewUnpauseInstruction(accounts *AdminInstructionAccounts) solana.Instruction {
	return newAdminInstruction(UnpauseInstructionDiscriminator, accounts, nil)
}

func NewSetFeesInstruction(accounts *AdminInstructionAccounts, args *SetFeesInstructionArgs) solana.Instruction {
	return newAdminInstruction(SetFeesInstructionDiscriminator, accounts, args)
}

func NewSetAuthorityInstruction(accounts *AdminInstructionAccounts, args *SetAuthorityInstructionArgs) solana.Instruction {
	return newAdminInstruction(SetAuthorityInstructionDiscriminator, accounts, args)
}

func newAdminInstruction(discriminator []byte, accounts *AdminInstructionAccounts, args interface{}) solana.Instruction {
	return solana.Instruction{
		Program: programOrDefault(accounts.Program),

		// Instruction args
		Data: encodeInstructionData(discriminator, args),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.WrapperConfig,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
		},
	}
}

func DecodeSetFeesInstructionArgs(data []byte) (*SetFeesInstructionArgs, error) {
	var args SetFeesInstructionArgs
	if err := decodeInstructionData(data, SetFeesInstructionDiscriminator, &args); err != nil {
		return nil, err
	}
	return &args, nil
}

func DecodeSetAuthorityInstructionArgs(data []byte) (*SetAuthorityInstructionArgs, error) {
	var args SetAuthorityInstructionArgs
	if err := decodeInstructionData(data, SetAuthorityInstructionDiscriminator, &args); err != nil {
		return nil, err
	}
	return &args, nil
}
