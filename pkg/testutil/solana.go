package testutil

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// NewRandomAccount returns a wallet account, which is always on the curve
func NewRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)

	return account
}

// NewRandomOffCurveAccount returns an address that no private key can sign
// for, like the program derived addresses of mints and wrapper state.
func NewRandomOffCurveAccount(t *testing.T) *common.Account {
	seed := GenerateSolanaKeys(t, 1)[0]
	for {
		hashed := sha256.Sum256(seed)
		account, err := common.NewAccountFromPublicKeyBytes(hashed[:])
		require.NoError(t, err)

		if !account.IsOnCurve() {
			return account
		}
		seed = hashed[:]
	}
}
