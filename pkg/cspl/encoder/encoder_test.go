package encoder

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/solana"
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
	"github.com/invoix/wrapper-server/pkg/solana/system"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

func TestBespokeLayouts(t *testing.T) {
	for op, layout := range bespokeLayouts {
		assert.NoError(t, layout.check(bespokeSchemaLengths[op]), op)
	}

	for op, name := range map[Operation]string{
		OperationConfigureConfidentialAccount: "configure_confidential_account",
		OperationApplyPendingBalance:          "apply_pending_balance",
	} {
		h := sha256.Sum256([]byte("global:" + name))
		assert.Equal(t, h[:8], bespokeLayouts[op].discriminator)
	}

	broken := &bespokeLayout{
		discriminator: splwrapper.ApplyPendingBalanceDiscriminator,
		args: []argSpec{
			{name: argExpectedCounter, offset: 8, width: 8, kind: argKindUint64},
			{name: argNewDecryptableBalance, offset: 17, width: DecryptableBalanceSize, kind: argKindFixedBytes},
		},
		size: applyPendingBalanceSize,
	}
	assert.Error(t, broken.check(0))

	assert.Error(t, bespokeLayouts[OperationApplyPendingBalance].check(4))
}

func TestEncode_ApplyPendingBalance(t *testing.T) {
	accounts := newTestAccounts(t)
	balance := make([]byte, DecryptableBalanceSize)

	ixn, err := Encode(OperationApplyPendingBalance, accounts, &Args{
		ExpectedCounter:       7,
		NewDecryptableBalance: balance,
	})
	require.NoError(t, err)

	assert.EqualValues(t, splwrapper.PROGRAM_ID, ixn.Program)
	require.Len(t, ixn.Data, 52)
	assert.Equal(t, splwrapper.ApplyPendingBalanceDiscriminator, ixn.Data[:8])
	assert.EqualValues(t, 7, binary.LittleEndian.Uint64(ixn.Data[8:16]))
	assert.Equal(t, balance, ixn.Data[16:])

	require.Len(t, ixn.Accounts, 3)
	assert.EqualValues(t, accounts.User, ixn.Accounts[0].PublicKey)
	assert.EqualValues(t, accounts.UserWrappedAccount, ixn.Accounts[1].PublicKey)
	assert.EqualValues(t, token.Token2022ProgramKey, ixn.Accounts[2].PublicKey)
	assert.Equal(t, []solana.AccountRole{solana.RoleWritableSigner, solana.RoleWritable, solana.RoleReadonly}, ixn.Roles())

	decoded, err := Decode(ixn.Data)
	require.NoError(t, err)
	assert.Equal(t, "apply_pending_balance", decoded.Name)
	assert.EqualValues(t, 7, decoded.Args[argExpectedCounter])
	assert.Equal(t, balance, decoded.Args[argNewDecryptableBalance])
}

func TestEncode_ConfigureConfidentialAccount(t *testing.T) {
	accounts := newTestAccounts(t)

	ixn, err := Encode(OperationConfigureConfidentialAccount, accounts, &Args{
		ElGamalPubkey: make([]byte, ElGamalPubkeySize),
	})
	require.NoError(t, err)

	require.Len(t, ixn.Data, 40)
	assert.Equal(t, splwrapper.ConfigureConfidentialAccountDiscriminator, ixn.Data[:8])
	assert.Equal(t, make([]byte, 32), ixn.Data[8:])

	expectedKeys := []ed25519.PublicKey{
		accounts.User,
		accounts.WrappedMint,
		accounts.OriginalMint,
		accounts.UserWrappedAccount,
		token.Token2022ProgramKey,
		system.InstructionsSysVar,
	}
	require.Len(t, ixn.Accounts, len(expectedKeys))
	for i, key := range expectedKeys {
		assert.EqualValues(t, key, ixn.Accounts[i].PublicKey)
	}
	assert.Equal(t, []solana.AccountRole{
		solana.RoleWritableSigner,
		solana.RoleReadonly,
		solana.RoleReadonly,
		solana.RoleWritable,
		solana.RoleReadonly,
		solana.RoleReadonly,
	}, ixn.Roles())
}

func TestEncode_Generic(t *testing.T) {
	accounts := newTestAccounts(t)

	wrap, err := Encode(OperationWrap, accounts, &Args{Amount: 1_000_000})
	require.NoError(t, err)
	assert.Equal(t, splwrapper.WrapInstructionDiscriminator, wrap.Data[:8])
	assert.Len(t, wrap.Accounts, 12)

	unwrap, err := Encode(OperationUnwrap, accounts, &Args{Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, splwrapper.UnwrapInstructionDiscriminator, unwrap.Data[:8])

	initialize, err := Encode(OperationInitialize, accounts, &Args{WrapFeeBps: 1000, UnwrapFeeBps: 0})
	require.NoError(t, err)
	assert.Len(t, initialize.Accounts, 10)

	for _, op := range []Operation{OperationPause, OperationUnpause, OperationSetFees, OperationSetAuthority} {
		ixn, err := Encode(op, accounts, &Args{NewAuthority: accounts.TargetAccount})
		require.NoError(t, err, op)
		assert.Len(t, ixn.Accounts, 2)
		assert.True(t, op.IsAdmin())
	}

	withdraw, err := Encode(OperationWithdrawFees, accounts, nil)
	require.NoError(t, err)
	assert.Len(t, withdraw.Accounts, 7)

	for _, op := range []Operation{OperationFreezeAccount, OperationThawAccount} {
		ixn, err := Encode(op, accounts, nil)
		require.NoError(t, err)
		assert.Len(t, ixn.Accounts, 6)
	}

	decoded, err := Decode(wrap.Data)
	require.NoError(t, err)
	assert.Equal(t, "wrap", decoded.Name)
	assert.EqualValues(t, 1_000_000, decoded.Args["amount"])
}

func TestEncode_ProgramOverride(t *testing.T) {
	accounts := newTestAccounts(t)
	accounts.Program = accounts.TargetAccount

	for _, op := range []Operation{OperationWrap, OperationApplyPendingBalance} {
		ixn, err := Encode(op, accounts, &Args{
			Amount:                1,
			NewDecryptableBalance: make([]byte, DecryptableBalanceSize),
		})
		require.NoError(t, err)
		assert.EqualValues(t, accounts.TargetAccount, ixn.Program)
	}
}

func TestEncode_Errors(t *testing.T) {
	accounts := newTestAccounts(t)

	_, err := Encode("transfer", accounts, nil)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	for _, tc := range []struct {
		name string
		op   Operation
		args *Args
	}{
		{"zero amount", OperationWrap, &Args{}},
		{"zero unwrap amount", OperationUnwrap, nil},
		{"wrap fee too high", OperationInitialize, &Args{WrapFeeBps: 1001}},
		{"unwrap fee too high", OperationSetFees, &Args{UnwrapFeeBps: 65535}},
		{"short auditor", OperationInitialize, &Args{Auditor: make([]byte, 31)}},
		{"missing new authority", OperationSetAuthority, &Args{}},
		{"short balance", OperationApplyPendingBalance, &Args{NewDecryptableBalance: make([]byte, 35)}},
		{"long balance", OperationApplyPendingBalance, &Args{NewDecryptableBalance: make([]byte, 37)}},
		{"missing elgamal key", OperationConfigureConfidentialAccount, &Args{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(tc.op, accounts, tc.args)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	missing := newTestAccounts(t)
	missing.UserWrappedAccount = nil
	_, err = Encode(OperationApplyPendingBalance, missing, &Args{NewDecryptableBalance: make([]byte, DecryptableBalanceSize)})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Encode(OperationWrap, missing, &Args{Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Encode(OperationWrap, nil, &Args{Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Decode([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = Decode(splwrapper.ApplyPendingBalanceDiscriminator)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOperations(t *testing.T) {
	for _, op := range AllOperations {
		assert.True(t, op.IsSupported())
	}
	assert.False(t, Operation("transfer").IsSupported())
	assert.False(t, OperationWrap.IsAdmin())
	assert.Equal(t, "apply-pending-balance", OperationApplyPendingBalance.String())
}

func newTestAccounts(t *testing.T) *Accounts {
	keys := make([]ed25519.PublicKey, 10)
	for i := range keys {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		keys[i] = pub
	}

	return &Accounts{
		User:                  keys[0],
		OriginalMint:          keys[1],
		WrapperConfig:         keys[2],
		WrapperStats:          keys[3],
		WrappedMint:           keys[4],
		Vault:                 keys[5],
		UserOriginalAccount:   keys[6],
		UserWrappedAccount:    keys[7],
		AuthorityTokenAccount: keys[8],
		TargetAccount:         keys[9],
	}
}
