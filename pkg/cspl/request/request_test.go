package request

import (
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/testutil"
)

func TestValidate_Wrap_HappyPath(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)

	intent, err := Validate(encoder.OperationWrap, map[string]string{
		FieldPayer:     payer.PublicKey().ToBase58(),
		FieldAssetMint: mint.PublicKey().ToBase58(),
		FieldAmount:    "1000000",
	})
	require.NoError(t, err)

	assert.Equal(t, encoder.OperationWrap, intent.Operation)
	assert.True(t, payer.PublicKey().Equals(intent.Payer.PublicKey()))
	assert.True(t, mint.PublicKey().Equals(intent.AssetMint.PublicKey()))
	assert.EqualValues(t, 1000000, intent.Amount)
	assert.Nil(t, intent.OriginalHoldingAccount)
	assert.Nil(t, intent.WrappedHoldingAccount)
}

func TestValidate_Amount(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)

	for _, amount := range []string{"0", "-5", "abc", "1.5", "18446744073709551616"} {
		t.Run(amount, func(t *testing.T) {
			_, err := Validate(encoder.OperationWrap, map[string]string{
				FieldPayer:     payer.PublicKey().ToBase58(),
				FieldAssetMint: mint.PublicKey().ToBase58(),
				FieldAmount:    amount,
			})

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, FieldAmount, validationErr.Field)
			assert.Nil(t, validationErr.Required)
		})
	}

	intent, err := Validate(encoder.OperationUnwrap, map[string]string{
		FieldPayer:     payer.PublicKey().ToBase58(),
		FieldAssetMint: mint.PublicKey().ToBase58(),
		FieldAmount:    "18446744073709551615",
	})
	require.NoError(t, err)
	assert.EqualValues(t, uint64(18446744073709551615), intent.Amount)
}

func TestValidate_MissingFields(t *testing.T) {
	payer := testutil.NewRandomAccount(t)

	_, err := Validate(encoder.OperationWrap, map[string]string{
		FieldPayer:  payer.PublicKey().ToBase58(),
		FieldAmount: "",
	})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, FieldAssetMint, validationErr.Field)
	assert.Equal(t, []string{FieldAssetMint, FieldAmount}, validationErr.Required)

	_, err = Validate(encoder.OperationApplyPendingBalance, map[string]string{})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, FieldPayer, validationErr.Field)
	assert.Equal(t, []string{FieldPayer, FieldAssetMint, FieldExpectedCounter, FieldNewEncryptedBalance}, validationErr.Required)

	// Only absent fields are reported, in schema order
	_, err = Validate(encoder.OperationApplyPendingBalance, map[string]string{
		FieldNewEncryptedBalance: "AAAA",
		FieldPayer:               payer.PublicKey().ToBase58(),
	})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, FieldAssetMint, validationErr.Field)
	assert.Equal(t, []string{FieldAssetMint, FieldExpectedCounter}, validationErr.Required)
}

func TestValidate_Addresses(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)

	for _, tc := range []struct {
		name  string
		body  map[string]string
		field string
	}{
		{
			name:  "malformed payer",
			body:  map[string]string{FieldPayer: "not-an-address", FieldAssetMint: mint.PublicKey().ToBase58(), FieldAmount: "1"},
			field: FieldPayer,
		},
		{
			name:  "short payer",
			body:  map[string]string{FieldPayer: "11111111", FieldAssetMint: mint.PublicKey().ToBase58(), FieldAmount: "1"},
			field: FieldPayer,
		},
		{
			name:  "off curve payer",
			body:  map[string]string{FieldPayer: mint.PublicKey().ToBase58(), FieldAssetMint: mint.PublicKey().ToBase58(), FieldAmount: "1"},
			field: FieldPayer,
		},
		{
			name:  "malformed mint",
			body:  map[string]string{FieldPayer: payer.PublicKey().ToBase58(), FieldAssetMint: "0OIl", FieldAmount: "1"},
			field: FieldAssetMint,
		},
		{
			name: "malformed holding account",
			body: map[string]string{
				FieldPayer:                payer.PublicKey().ToBase58(),
				FieldAssetMint:            mint.PublicKey().ToBase58(),
				FieldAmount:               "1",
				FieldSourceHoldingAccount: "abc",
			},
			field: FieldSourceHoldingAccount,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(encoder.OperationWrap, tc.body)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestValidate_Aliases(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)
	userOriginal := testutil.NewRandomOffCurveAccount(t)
	userWrapped := testutil.NewRandomOffCurveAccount(t)
	source := testutil.NewRandomOffCurveAccount(t)

	intent, err := Validate(encoder.OperationWrap, map[string]string{
		FieldPayer:               payer.PublicKey().ToBase58(),
		FieldOriginalMint:        mint.PublicKey().ToBase58(),
		FieldAmount:              "5",
		FieldUserOriginalAccount: userOriginal.PublicKey().ToBase58(),
		FieldUserWrappedAccount:  userWrapped.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.True(t, mint.PublicKey().Equals(intent.AssetMint.PublicKey()))
	assert.True(t, userOriginal.PublicKey().Equals(intent.OriginalHoldingAccount.PublicKey()))
	assert.True(t, userWrapped.PublicKey().Equals(intent.WrappedHoldingAccount.PublicKey()))

	// The canonical field wins over its alias
	intent, err = Validate(encoder.OperationWrap, map[string]string{
		FieldPayer:                payer.PublicKey().ToBase58(),
		FieldAssetMint:            mint.PublicKey().ToBase58(),
		FieldOriginalMint:         "garbage",
		FieldAmount:               "5",
		FieldUserOriginalAccount:  userOriginal.PublicKey().ToBase58(),
		FieldSourceHoldingAccount: source.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.True(t, mint.PublicKey().Equals(intent.AssetMint.PublicKey()))
	assert.True(t, source.PublicKey().Equals(intent.OriginalHoldingAccount.PublicKey()))

	intent, err = Validate(encoder.OperationUnwrap, map[string]string{
		FieldPayer:                payer.PublicKey().ToBase58(),
		FieldAssetMint:            mint.PublicKey().ToBase58(),
		FieldAmount:               "5",
		FieldSourceHoldingAccount: source.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.Nil(t, intent.OriginalHoldingAccount)
	assert.True(t, source.PublicKey().Equals(intent.WrappedHoldingAccount.PublicKey()))
}

func TestValidate_Initialize(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)
	auditor := testutil.GenerateSolanaKeys(t, 1)[0]

	intent, err := Validate(encoder.OperationInitialize, map[string]string{
		FieldPayer:     payer.PublicKey().ToBase58(),
		FieldAssetMint: mint.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, intent.WrapFeeBps)
	assert.EqualValues(t, 0, intent.UnwrapFeeBps)
	assert.Nil(t, intent.AuditorKey)

	intent, err = Validate(encoder.OperationInitialize, map[string]string{
		FieldPayer:        payer.PublicKey().ToBase58(),
		FieldAssetMint:    mint.PublicKey().ToBase58(),
		FieldWrapFeeBps:   "30",
		FieldUnwrapFeeBps: "1000",
		FieldAuditorKey:   base64.StdEncoding.EncodeToString(auditor),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 30, intent.WrapFeeBps)
	assert.EqualValues(t, 1000, intent.UnwrapFeeBps)
	assert.EqualValues(t, auditor, intent.AuditorKey)

	for _, tc := range []struct {
		field string
		value string
	}{
		{FieldWrapFeeBps, "1001"},
		{FieldWrapFeeBps, "-1"},
		{FieldUnwrapFeeBps, "70000"},
		{FieldAuditorKey, "!!!"},
		{FieldAuditorKey, base64.StdEncoding.EncodeToString(make([]byte, 31))},
	} {
		_, err := Validate(encoder.OperationInitialize, map[string]string{
			FieldPayer:     payer.PublicKey().ToBase58(),
			FieldAssetMint: mint.PublicKey().ToBase58(),
			tc.field:       tc.value,
		})

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr), "%s=%s", tc.field, tc.value)
		assert.Equal(t, tc.field, validationErr.Field)
	}
}

func TestValidate_ApplyPendingBalance(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)

	balance := make([]byte, EncryptedBalanceSize)
	balance[0] = 1

	intent, err := Validate(encoder.OperationApplyPendingBalance, map[string]string{
		FieldPayer:               payer.PublicKey().ToBase58(),
		FieldAssetMint:           mint.PublicKey().ToBase58(),
		FieldExpectedCounter:     "0",
		FieldNewEncryptedBalance: base64.StdEncoding.EncodeToString(balance),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, intent.ExpectedCounter)
	assert.Equal(t, balance, intent.NewEncryptedBalance)

	_, err = Validate(encoder.OperationApplyPendingBalance, map[string]string{
		FieldPayer:               payer.PublicKey().ToBase58(),
		FieldAssetMint:           mint.PublicKey().ToBase58(),
		FieldExpectedCounter:     "7",
		FieldNewEncryptedBalance: base64.StdEncoding.EncodeToString(balance[:35]),
	})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, FieldNewEncryptedBalance, validationErr.Field)
}

func TestValidate_AdminOperations(t *testing.T) {
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomOffCurveAccount(t)
	other := testutil.NewRandomAccount(t)

	intent, err := Validate(encoder.OperationSetAuthority, map[string]string{
		FieldPayer:        payer.PublicKey().ToBase58(),
		FieldAssetMint:    mint.PublicKey().ToBase58(),
		FieldNewAuthority: other.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.True(t, other.PublicKey().Equals(intent.NewAuthority.PublicKey()))

	intent, err = Validate(encoder.OperationFreezeAccount, map[string]string{
		FieldPayer:         payer.PublicKey().ToBase58(),
		FieldAssetMint:     mint.PublicKey().ToBase58(),
		FieldTargetAccount: other.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.True(t, other.PublicKey().Equals(intent.TargetAccount.PublicKey()))

	intent, err = Validate(encoder.OperationWithdrawFees, map[string]string{
		FieldPayer:     payer.PublicKey().ToBase58(),
		FieldAssetMint: mint.PublicKey().ToBase58(),
	})
	require.NoError(t, err)
	assert.Nil(t, intent.DestinationHoldingAccount)

	_, err = Validate(encoder.OperationSetFees, map[string]string{
		FieldPayer:      payer.PublicKey().ToBase58(),
		FieldAssetMint:  mint.PublicKey().ToBase58(),
		FieldWrapFeeBps: "10",
	})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, FieldUnwrapFeeBps, validationErr.Field)
}

func TestValidate_UnsupportedOperation(t *testing.T) {
	_, err := Validate(encoder.Operation("mint-everything"), map[string]string{})
	assert.True(t, errors.Is(err, encoder.ErrUnsupportedOperation))
	assert.Nil(t, RequiredFields(encoder.Operation("mint-everything")))
}

func TestSchemas_CoverEveryOperation(t *testing.T) {
	for _, op := range encoder.AllOperations {
		required := RequiredFields(op)
		require.True(t, len(required) >= 2, op.String())
		assert.Equal(t, FieldPayer, required[0])
		assert.Equal(t, FieldAssetMint, required[1])
	}
}
