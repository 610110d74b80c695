package common

import (
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

var (
	// DefaultProgramAccount is the deployed confidential SPL wrapper program
	DefaultProgramAccount, _ = NewAccountFromPublicKeyBytes(splwrapper.PROGRAM_ID)

	TokenProgramAccount, _     = NewAccountFromPublicKeyBytes(token.ProgramKey)
	Token2022ProgramAccount, _ = NewAccountFromPublicKeyBytes(token.Token2022ProgramKey)
)
