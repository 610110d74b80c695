package encoder

// Operation names a transaction the engine knows how to build
type Operation string

const (
	OperationInitialize                   Operation = "initialize"
	OperationWrap                         Operation = "wrap"
	OperationUnwrap                       Operation = "unwrap"
	OperationConfigureConfidentialAccount Operation = "configure-confidential-account"
	OperationApplyPendingBalance          Operation = "apply-pending-balance"

	OperationPause         Operation = "pause"
	OperationUnpause       Operation = "unpause"
	OperationSetFees       Operation = "set-fees"
	OperationSetAuthority  Operation = "set-authority"
	OperationWithdrawFees  Operation = "withdraw-fees"
	OperationFreezeAccount Operation = "freeze-account"
	OperationThawAccount   Operation = "thaw-account"
)

// AllOperations lists every supported operation in a stable order
var AllOperations = []Operation{
	OperationInitialize,
	OperationWrap,
	OperationUnwrap,
	OperationConfigureConfidentialAccount,
	OperationApplyPendingBalance,
	OperationPause,
	OperationUnpause,
	OperationSetFees,
	OperationSetAuthority,
	OperationWithdrawFees,
	OperationFreezeAccount,
	OperationThawAccount,
}

func (o Operation) String() string {
	return string(o)
}

// IsAdmin returns whether the operation is restricted to the wrapper authority
func (o Operation) IsAdmin() bool {
	switch o {
	case OperationPause, OperationUnpause, OperationSetFees, OperationSetAuthority,
		OperationWithdrawFees, OperationFreezeAccount, OperationThawAccount:
		return true
	}
	return false
}

// IsSupported returns whether the encoder can build the operation
func (o Operation) IsSupported() bool {
	for _, supported := range AllOperations {
		if o == supported {
			return true
		}
	}
	return false
}
