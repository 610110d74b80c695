package system

import (
	"crypto/ed25519"
)

// ProgramKey is the address of the native system program. It is referenced by
// instructions that create accounts, such as PDA initialization and
// associated token account creation.
//
// Reference: https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramKey = ed25519.PublicKey(make([]byte, ed25519.PublicKeySize))
