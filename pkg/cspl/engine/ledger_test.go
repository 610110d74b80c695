package engine

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/solana/token"
	"github.com/invoix/wrapper-server/pkg/testutil"
)

type stubSolanaClient struct {
	blockhash solana.Blockhash
	accounts  map[string]solana.AccountInfo
	err       error
}

func (c *stubSolanaClient) GetAccountInfo(_ context.Context, account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	if c.err != nil {
		return solana.AccountInfo{}, c.err
	}

	info, ok := c.accounts[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (c *stubSolanaClient) GetLatestBlockhash(_ context.Context, _ solana.Commitment) (solana.Blockhash, error) {
	if c.err != nil {
		return solana.Blockhash{}, c.err
	}
	return c.blockhash, nil
}

func TestLedger_RPCBacked(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	mint, holding, missing := keys[0], keys[1], keys[2]

	tokenAccount := &token.Account{
		Mint:   mint,
		Owner:  keys[2],
		Amount: 12,
		State:  token.AccountStateInitialized,
	}

	sc := &stubSolanaClient{
		accounts: map[string]solana.AccountInfo{
			base58.Encode(holding): {
				Owner: token.ProgramKey,
				Data:  tokenAccount.Marshal(),
			},
		},
	}
	sc.blockhash[0] = 9

	ledger := NewLedger(sc, solana.CommitmentConfirmed)

	bh, err := ledger.GetCurrentLifetimeToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sc.blockhash, bh)

	exists, err := ledger.GetAccountExistence(context.Background(), holding)
	require.NoError(t, err)
	require.NotNil(t, exists)
	assert.True(t, *exists)

	exists, err = ledger.GetAccountExistence(context.Background(), missing)
	require.NoError(t, err)
	require.NotNil(t, exists)
	assert.False(t, *exists)

	data, err := ledger.GetAccountData(context.Background(), holding)
	require.NoError(t, err)
	assert.Equal(t, tokenAccount.Marshal(), data)

	_, err = ledger.GetAccountData(context.Background(), missing)
	assert.Equal(t, ErrAccountNotFound, err)

	decoded, err := ledger.GetTokenAccount(context.Background(), mint, holding)
	require.NoError(t, err)
	assert.EqualValues(t, 12, decoded.Amount)

	_, err = ledger.GetTokenAccount(context.Background(), mint, missing)
	assert.Equal(t, ErrAccountNotFound, err)

	_, err = ledger.GetTokenAccount(context.Background(), missing, holding)
	assert.Equal(t, token.ErrInvalidTokenAccount, err)

	sc.err = solana.ErrServiceError

	exists, err = ledger.GetAccountExistence(context.Background(), holding)
	assert.Error(t, err)
	assert.Nil(t, exists)

	_, err = ledger.GetCurrentLifetimeToken(context.Background())
	assert.Equal(t, solana.ErrServiceError, err)
}
