package request

import (
	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
)

// Request field names
const (
	FieldPayer                     = "payer"
	FieldAssetMint                 = "assetMint"
	FieldAmount                    = "amount"
	FieldSourceHoldingAccount      = "sourceHoldingAccount"
	FieldWrapFeeBps                = "wrapFeeBps"
	FieldUnwrapFeeBps              = "unwrapFeeBps"
	FieldAuditorKey                = "auditorKey"
	FieldExpectedCounter           = "expectedCounter"
	FieldNewEncryptedBalance       = "newEncryptedBalance"
	FieldNewAuthority              = "newAuthority"
	FieldDestinationHoldingAccount = "destinationHoldingAccount"
	FieldTargetAccount             = "targetAccount"

	// Field names accepted from earlier API versions
	FieldOriginalMint        = "originalMint"
	FieldUserOriginalAccount = "userOriginalAccount"
	FieldUserWrappedAccount  = "userWrappedAccount"
)

type schema struct {
	required []string
	optional []string
}

var schemas = map[encoder.Operation]schema{
	encoder.OperationInitialize: {
		required: []string{FieldPayer, FieldAssetMint},
		optional: []string{FieldWrapFeeBps, FieldUnwrapFeeBps, FieldAuditorKey},
	},
	encoder.OperationWrap: {
		required: []string{FieldPayer, FieldAssetMint, FieldAmount},
		optional: []string{FieldSourceHoldingAccount, FieldUserOriginalAccount, FieldUserWrappedAccount},
	},
	encoder.OperationUnwrap: {
		required: []string{FieldPayer, FieldAssetMint, FieldAmount},
		optional: []string{FieldSourceHoldingAccount, FieldUserOriginalAccount, FieldUserWrappedAccount},
	},
	encoder.OperationConfigureConfidentialAccount: {
		required: []string{FieldPayer, FieldAssetMint},
	},
	encoder.OperationApplyPendingBalance: {
		required: []string{FieldPayer, FieldAssetMint, FieldExpectedCounter, FieldNewEncryptedBalance},
	},
	encoder.OperationPause: {
		required: []string{FieldPayer, FieldAssetMint},
	},
	encoder.OperationUnpause: {
		required: []string{FieldPayer, FieldAssetMint},
	},
	encoder.OperationSetFees: {
		required: []string{FieldPayer, FieldAssetMint, FieldWrapFeeBps, FieldUnwrapFeeBps},
	},
	encoder.OperationSetAuthority: {
		required: []string{FieldPayer, FieldAssetMint, FieldNewAuthority},
	},
	encoder.OperationWithdrawFees: {
		required: []string{FieldPayer, FieldAssetMint},
		optional: []string{FieldDestinationHoldingAccount},
	},
	encoder.OperationFreezeAccount: {
		required: []string{FieldPayer, FieldAssetMint, FieldTargetAccount},
	},
	encoder.OperationThawAccount: {
		required: []string{FieldPayer, FieldAssetMint, FieldTargetAccount},
	},
}

// RequiredFields returns the fields op cannot be built without
func RequiredFields(op encoder.Operation) []string {
	s, ok := schemas[op]
	if !ok {
		return nil
	}
	return append([]string(nil), s.required...)
}
