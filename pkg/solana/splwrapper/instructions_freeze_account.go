package splwrapper

import (
	"crypto/ed25519"

	"github.com/invoix/wrapper-server/pkg/solana"
)

// FreezeAccountInstructionAccounts is shared by freeze_account and thaw_account
type FreezeAccountInstructionAccounts struct {
	Program ed25519.PublicKey // optional, defaults to PROGRAM_ID

	OriginalMint  ed25519.PublicKey
	WrapperConfig ed25519.PublicKey
	WrappedMint   ed25519.PublicKey
	TargetAccount ed25519.PublicKey
	Authority     ed25519.PublicKey
}

func NewFreezeAccountInstruction(accounts *FreezeAccountInstructionAccounts) solana.Instruction {
	return newFreezeOrThawInstruction(FreezeAccountInstructionDiscriminator, accounts)
}

func NewThawAccountInstruction(accounts *FreezeAccountInstructionAccounts) solana.Instruction {
	return newFreezeOrThawInstruction(ThawAccountInstructionDiscriminator, accounts)
}

func newFreezeOrThawInstruction(discriminator []byte, accounts *FreezeAccountInstructionAccounts) solana.Instruction {
	return solana.Instruction{
		Program: programOrDefault(accounts.Program),

		// Instruction args
		Data: encodeInstructionData(discriminator, nil),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
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
				PublicKey:  accounts.WrappedMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TargetAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  SPL_TOKEN_2022_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
