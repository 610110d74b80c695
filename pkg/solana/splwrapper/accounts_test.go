package splwrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapperConfigAccount_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 5)

	for _, auditor := range [][]byte{nil, keys[4]} {
		expected := WrapperConfigAccount{
			Authority:    keys[0],
			OriginalMint: keys[1],
			WrappedMint:  keys[2],
			Vault:        keys[3],
			Auditor:      auditor,
			WrapFeeBps:   25,
			UnwrapFeeBps: 50,
			IsPaused:     true,
			Bump:         255,
		}

		marshalled := expected.Marshal()
		if auditor == nil {
			assert.Len(t, marshalled, MinWrapperConfigAccountSize)
		} else {
			assert.Len(t, marshalled, MaxWrapperConfigAccountSize)
		}

		var actual WrapperConfigAccount
		require.NoError(t, actual.Unmarshal(marshalled))
		assert.EqualValues(t, expected.Authority, actual.Authority)
		assert.EqualValues(t, expected.OriginalMint, actual.OriginalMint)
		assert.EqualValues(t, expected.WrappedMint, actual.WrappedMint)
		assert.EqualValues(t, expected.Vault, actual.Vault)
		assert.EqualValues(t, expected.Auditor, actual.Auditor)
		assert.EqualValues(t, 25, actual.WrapFeeBps)
		assert.EqualValues(t, 50, actual.UnwrapFeeBps)
		assert.True(t, actual.IsPaused)
		assert.EqualValues(t, 255, actual.Bump)
		assert.Contains(t, actual.String(), "wrap_fee_bps=25")
	}
}

func TestWrapperConfigAccount_InvalidData(t *testing.T) {
	keys := generateKeys(t, 4)

	valid := (&WrapperConfigAccount{
		Authority:    keys[0],
		OriginalMint: keys[1],
		WrappedMint:  keys[2],
		Vault:        keys[3],
	}).Marshal()

	var actual WrapperConfigAccount
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(valid[:len(valid)-1]))

	wrongDiscriminator := append([]byte{}, valid...)
	wrongDiscriminator[0]++
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(wrongDiscriminator))

	// Stats data is not a config
	stats := (&WrapperStatsAccount{}).Marshal()
	padded := append(stats, make([]byte, MinWrapperConfigAccountSize)...)
	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(padded))
}

func TestWrapperStatsAccount_RoundTrip(t *testing.T) {
	expected := WrapperStatsAccount{
		TotalWrapped:       1000,
		TotalUnwrapped:     400,
		TotalDeposited:     1010,
		TotalFeesCollected: 10,
		Bump:               254,
	}

	marshalled := expected.Marshal()
	require.Len(t, marshalled, WrapperStatsAccountSize)

	var actual WrapperStatsAccount
	require.NoError(t, actual.Unmarshal(marshalled))
	assert.Equal(t, expected, actual)

	assert.Equal(t, ErrInvalidAccountData, actual.Unmarshal(marshalled[:WrapperStatsAccountSize-1]))
}
