package splwrapper

import (
	"crypto/ed25519"

	"github.com/invoix/wrapper-server/pkg/solana"
)

type WithdrawFeesInstructionAccounts struct {
	Program ed25519.PublicKey // optional, defaults to PROGRAM_ID

	OriginalMint          ed25519.PublicKey
	WrapperConfig         ed25519.PublicKey
	WrapperStats          ed25519.PublicKey
	Vault                 ed25519.PublicKey
	Authority             ed25519.PublicKey
	AuthorityTokenAccount ed25519.PublicKey
}

func NewWithdrawFeesInstruction(accounts *WithdrawFeesInstructionAccounts) solana.Instruction {
	return solana.Instruction{
		Program: programOrDefault(accounts.Program),

		// Instruction args
		Data: encodeInstructionData(WithdrawFeesInstructionDiscriminator, nil),

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
				PublicKey:  accounts.WrapperStats,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.AuthorityTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
