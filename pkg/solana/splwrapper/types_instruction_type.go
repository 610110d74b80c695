package splwrapper

import (
	"bytes"
)

// Instruction discriminators are the first 8 bytes of sha256("global:<name>")
var (
	InitializeInstructionDiscriminator        = []byte{175, 175, 109, 31, 13, 152, 155, 237}
	WrapInstructionDiscriminator              = []byte{178, 40, 10, 189, 228, 129, 186, 140}
	UnwrapInstructionDiscriminator            = []byte{126, 175, 198, 14, 212, 69, 50, 44}
	PauseInstructionDiscriminator             = []byte{211, 22, 221, 251, 74, 121, 193, 47}
	UnpauseInstructionDiscriminator           = []byte{169, 144, 4, 38, 10, 141, 188, 255}
	SetFeesInstructionDiscriminator           = []byte{137, 178, 49, 58, 0, 245, 242, 190}
	SetAuthorityInstructionDiscriminator      = []byte{133, 250, 37, 21, 110, 163, 26, 121}
	WithdrawFeesInstructionDiscriminator      = []byte{198, 212, 171, 109, 144, 215, 174, 89}
	FreezeAccountInstructionDiscriminator     = []byte{253, 75, 82, 133, 167, 238, 43, 130}
	ThawAccountInstructionDiscriminator       = []byte{115, 152, 79, 213, 213, 169, 184, 35}
	ConfigureConfidentialAccountDiscriminator = []byte{36, 212, 145, 231, 191, 23, 188, 119}
	ApplyPendingBalanceDiscriminator          = []byte{69, 71, 130, 63, 82, 162, 113, 185}
)

var instructionNames = []struct {
	name          string
	discriminator []byte
}{
	{"initialize", InitializeInstructionDiscriminator},
	{"wrap", WrapInstructionDiscriminator},
	{"unwrap", UnwrapInstructionDiscriminator},
	{"pause", PauseInstructionDiscriminator},
	{"unpause", UnpauseInstructionDiscriminator},
	{"set_fees", SetFeesInstructionDiscriminator},
	{"set_authority", SetAuthorityInstructionDiscriminator},
	{"withdraw_fees", WithdrawFeesInstructionDiscriminator},
	{"freeze_account", FreezeAccountInstructionDiscriminator},
	{"thaw_account", ThawAccountInstructionDiscriminator},
	{"configure_confidential_account", ConfigureConfidentialAccountDiscriminator},
	{"apply_pending_balance", ApplyPendingBalanceDiscriminator},
}

// InstructionName returns the program instruction name encoded in data's
// discriminator prefix.
func InstructionName(data []byte) (string, bool) {
	for _, instruction := range instructionNames {
		if bytes.HasPrefix(data, instruction.discriminator) {
			return instruction.name, true
		}
	}
	return "", false
}
