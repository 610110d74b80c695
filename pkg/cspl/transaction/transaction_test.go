package transaction

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/solana"
)

type stubLifetimeTokenSource struct {
	calls int
	bh    solana.Blockhash
	err   error
}

func (s *stubLifetimeTokenSource) GetCurrentLifetimeToken(_ context.Context) (solana.Blockhash, error) {
	s.calls++
	return s.bh, s.err
}

func TestMakeUnsignedTransaction(t *testing.T) {
	payer := newRandomAccount(t)
	program := newRandomAccount(t)
	other := newRandomAccount(t)

	source := &stubLifetimeTokenSource{}
	source.bh[0] = 42

	ixn := solana.NewInstruction(
		program.PublicKey().ToBytes(),
		[]byte{1, 2, 3},
		solana.NewAccountMeta(payer.PublicKey().ToBytes(), true),
		solana.NewReadonlyAccountMeta(other.PublicKey().ToBytes(), false),
	)

	txn, err := MakeUnsignedTransaction(context.Background(), source, payer, nil, ixn)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	assert.Equal(t, source.bh, txn.Message.RecentBlockhash)
	assert.EqualValues(t, payer.PublicKey().ToBytes(), txn.Message.Accounts[0])
	assert.EqualValues(t, 1, txn.Message.Header.NumSignatures)
	assert.EqualValues(t, 0, txn.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, txn.Message.Header.NumReadOnly)
	require.Len(t, txn.Signatures, 1)
	assert.Equal(t, solana.Signature{}, txn.Signatures[0])
	require.NoError(t, txn.Validate())
}

func TestMakeUnsignedTransaction_WithLifetimeToken(t *testing.T) {
	payer := newRandomAccount(t)
	program := newRandomAccount(t)

	source := &stubLifetimeTokenSource{err: errors.New("unreachable")}

	var bh solana.Blockhash
	bh[31] = 9

	txn, err := MakeUnsignedTransaction(
		context.Background(),
		source,
		payer,
		[]Option{WithLifetimeToken(bh)},
		solana.NewInstruction(program.PublicKey().ToBytes(), nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, source.calls)
	assert.Equal(t, bh, txn.Message.RecentBlockhash)
}

func TestMakeUnsignedTransaction_Errors(t *testing.T) {
	payer := newRandomAccount(t)
	program := newRandomAccount(t)
	ixn := solana.NewInstruction(program.PublicKey().ToBytes(), []byte{1})

	source := &stubLifetimeTokenSource{}

	_, err := MakeUnsignedTransaction(context.Background(), source, payer, nil)
	assert.Equal(t, ErrNoInstructions, err)
	assert.Equal(t, 0, source.calls)

	source.err = errors.New("connection refused")
	_, err = MakeUnsignedTransaction(context.Background(), source, payer, nil, ixn)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, 1, source.calls)

	_, err = MakeUnsignedTransaction(context.Background(), nil, payer, nil, ixn)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	_, err = MakeUnsignedTransaction(context.Background(), source, nil, nil, ixn)
	assert.Error(t, err)
}

func newRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)
	return account
}
