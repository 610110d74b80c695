package request

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
)

const (
	AuditorKeySize       = 32
	EncryptedBalanceSize = encoder.DecryptableBalanceSize
	maxFeeBps            = splwrapper.MaxFeeBps
)

// ValidationError describes the first request field that failed validation
type ValidationError struct {
	Field       string
	Description string

	// Required lists the absent required fields in schema order
	Required []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Description)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	}
}

// Intent is a validated request for a single operation. Optional fields are
// left at their zero value when absent.
type Intent struct {
	Operation encoder.Operation

	Payer     *common.Account
	AssetMint *common.Account

	Amount uint64

	// Holding account overrides for wrap and unwrap
	OriginalHoldingAccount *common.Account
	WrappedHoldingAccount  *common.Account

	WrapFeeBps   uint16
	UnwrapFeeBps uint16
	AuditorKey   []byte

	ExpectedCounter     uint64
	NewEncryptedBalance []byte

	NewAuthority              *common.Account
	DestinationHoldingAccount *common.Account
	TargetAccount             *common.Account
}

// Validate checks body against the schema of op and returns a typed Intent.
// Validation stops at the first failing field. A *ValidationError is returned
// for caller mistakes and encoder.ErrUnsupportedOperation for an unknown op.
func Validate(op encoder.Operation, body map[string]string) (*Intent, error) {
	s, ok := schemas[op]
	if !ok {
		return nil, errors.Wrapf(encoder.ErrUnsupportedOperation, "operation %q", op)
	}

	fields := normalize(body)

	var missing []string
	for _, field := range s.required {
		if len(fields[field]) == 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Field:       missing[0],
			Description: "field is required",
			Required:    missing,
		}
	}

	intent := &Intent{Operation: op}

	var err error
	if intent.Payer, err = parseWallet(FieldPayer, fields[FieldPayer]); err != nil {
		return nil, err
	}
	if intent.AssetMint, err = parseAddress(FieldAssetMint, fields[FieldAssetMint]); err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(s.required)+len(s.optional))
	remaining = append(remaining, s.required[2:]...)
	remaining = append(remaining, s.optional...)

	var source *common.Account
	for _, field := range remaining {
		value, ok := fields[field]
		if !ok || len(value) == 0 {
			continue
		}

		switch field {
		case FieldAmount:
			intent.Amount, err = parseAmount(field, value)
		case FieldSourceHoldingAccount:
			source, err = parseAddress(field, value)
		case FieldUserOriginalAccount:
			intent.OriginalHoldingAccount, err = parseAddress(field, value)
		case FieldUserWrappedAccount:
			intent.WrappedHoldingAccount, err = parseAddress(field, value)
		case FieldWrapFeeBps:
			intent.WrapFeeBps, err = parseFeeBps(field, value)
		case FieldUnwrapFeeBps:
			intent.UnwrapFeeBps, err = parseFeeBps(field, value)
		case FieldAuditorKey:
			intent.AuditorKey, err = parseFixedBase64(field, value, AuditorKeySize)
		case FieldExpectedCounter:
			intent.ExpectedCounter, err = parseUint64(field, value)
		case FieldNewEncryptedBalance:
			intent.NewEncryptedBalance, err = parseFixedBase64(field, value, EncryptedBalanceSize)
		case FieldNewAuthority:
			intent.NewAuthority, err = parseAddress(field, value)
		case FieldDestinationHoldingAccount:
			intent.DestinationHoldingAccount, err = parseAddress(field, value)
		case FieldTargetAccount:
			intent.TargetAccount, err = parseAddress(field, value)
		}
		if err != nil {
			return nil, err
		}
	}

	// The source holding account is the one tokens leave from
	if source != nil {
		switch op {
		case encoder.OperationWrap:
			intent.OriginalHoldingAccount = source
		case encoder.OperationUnwrap:
			intent.WrappedHoldingAccount = source
		}
	}

	return intent, nil
}

// ParseAddress validates a single standalone address field
func ParseAddress(field, value string) (*common.Account, error) {
	if len(value) == 0 {
		return nil, &ValidationError{
			Field:       field,
			Description: "field is required",
			Required:    []string{field},
		}
	}
	return parseAddress(field, value)
}

// normalize maps accepted aliases onto their canonical field names. A
// canonical field always takes precedence over its alias.
func normalize(body map[string]string) map[string]string {
	fields := make(map[string]string, len(body))
	for k, v := range body {
		fields[k] = v
	}

	if len(fields[FieldAssetMint]) == 0 && len(fields[FieldOriginalMint]) > 0 {
		fields[FieldAssetMint] = fields[FieldOriginalMint]
	}

	return fields
}

func parseAddress(field, value string) (*common.Account, error) {
	account, err := common.NewAccountFromPublicKeyString(value)
	if err != nil {
		return nil, newValidationError(field, "must be a base58 encoded 32 byte address")
	}
	if !account.PublicKey().IsPublic() {
		return nil, newValidationError(field, "must be a base58 encoded 32 byte address")
	}
	return account, nil
}

func parseWallet(field, value string) (*common.Account, error) {
	account, err := parseAddress(field, value)
	if err != nil {
		return nil, err
	}
	if !account.IsOnCurve() {
		return nil, newValidationError(field, "must be a wallet address")
	}
	return account, nil
}

func parseAmount(field, value string) (uint64, error) {
	amount, err := parseUint64(field, value)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, newValidationError(field, "must be a positive integer")
	}
	return amount, nil
}

func parseUint64(field, value string) (uint64, error) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, newValidationError(field, "exceeds the maximum unsigned 64-bit value")
		}
		return 0, newValidationError(field, "must be a non-negative decimal integer")
	}
	return parsed, nil
}

func parseFeeBps(field, value string) (uint16, error) {
	parsed, err := strconv.ParseUint(value, 10, 16)
	if err != nil || parsed > maxFeeBps {
		return 0, newValidationError(field, "must be an integer between 0 and %d", maxFeeBps)
	}
	return uint16(parsed), nil
}

func parseFixedBase64(field, value string, size int) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, newValidationError(field, "must be base64 encoded")
	}
	if len(decoded) != size {
		return nil, newValidationError(field, "must decode to exactly %d bytes", size)
	}
	return decoded, nil
}
