package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/solana"
)

// AssociatedTokenAccountProgramKey  is the address of the associated token account program that should be used.
//
// Current key: ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

var ErrUnknownTokenProgram = errors.New("unknown token program")

// GetAssociatedAccount returns the associated account address of wallet for
// mint under the provided token program. The token program is part of the
// seeds, so the legacy and Token-2022 addresses differ for the same pair.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint, tokenProgram ed25519.PublicKey) (ed25519.PublicKey, error) {
	if !IsTokenProgram(tokenProgram) {
		return nil, ErrUnknownTokenProgram
	}

	return solana.FindProgramAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		tokenProgram,
		mint,
	)
}
