package token

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAssociatedAccount(t *testing.T) {
	// Values generated from taken from spl code.
	wallet, err := base58.Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	require.NoError(t, err)
	mint, err := base58.Decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")
	require.NoError(t, err)

	for _, tc := range []struct {
		program  ed25519.PublicKey
		expected string
	}{
		{ProgramKey, "H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ"},
		{Token2022ProgramKey, "GgE1rq4ADpizGra5cPqLaHe79udKuKXK1cWD7qg7uV8w"},
	} {
		actual, err := GetAssociatedAccount(wallet, mint, tc.program)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(actual))
	}
}

func TestGetAssociatedAccount_UnknownProgram(t *testing.T) {
	keys := generateKeys(t, 3)

	_, err := GetAssociatedAccount(keys[0], keys[1], keys[2])
	assert.Equal(t, ErrUnknownTokenProgram, err)
}

func TestProgramKeys(t *testing.T) {
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", base58.Encode(ProgramKey))
	assert.Equal(t, "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb", base58.Encode(Token2022ProgramKey))
	assert.Equal(t, "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL", base58.Encode(AssociatedTokenAccountProgramKey))

	assert.True(t, IsTokenProgram(ProgramKey))
	assert.True(t, IsTokenProgram(Token2022ProgramKey))
	assert.False(t, IsTokenProgram(AssociatedTokenAccountProgramKey))
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
