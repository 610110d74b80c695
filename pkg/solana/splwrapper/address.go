package splwrapper

import (
	"crypto/ed25519"

	"github.com/invoix/wrapper-server/pkg/solana"
)

var (
	ConfigPrefix      = []byte("config")
	StatsPrefix       = []byte("stats")
	VaultPrefix       = []byte("vault")
	WrappedMintPrefix = []byte("mint")
)

// GetAddressArgs identifies a wrapper instance. A nil Program falls back to
// PROGRAM_ID.
type GetAddressArgs struct {
	Program      ed25519.PublicKey
	OriginalMint ed25519.PublicKey
}

func (args *GetAddressArgs) program() ed25519.PublicKey {
	if len(args.Program) == 0 {
		return PROGRAM_ID
	}
	return args.Program
}

func GetConfigAddress(args *GetAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		ConfigPrefix,
		args.OriginalMint,
	)
}

func GetStatsAddress(args *GetAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		StatsPrefix,
		args.OriginalMint,
	)
}

func GetVaultAddress(args *GetAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		VaultPrefix,
		args.OriginalMint,
	)
}

func GetWrappedMintAddress(args *GetAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		args.program(),
		WrappedMintPrefix,
		args.OriginalMint,
	)
}
