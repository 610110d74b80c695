package solana

import (
	"bytes"
	"crypto/ed25519"
	"errors"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// AccountRole is the combined signer/writable permission of an account within
// a message. The numeric order matches the static account ordering rules.
type AccountRole uint8

const (
	RoleWritableSigner AccountRole = iota
	RoleReadonlySigner
	RoleWritable
	RoleReadonly
)

// RoleOf maps a pair of signer/writable flags onto an AccountRole.
func RoleOf(isSigner, isWritable bool) AccountRole {
	switch {
	case isSigner && isWritable:
		return RoleWritableSigner
	case isSigner:
		return RoleReadonlySigner
	case isWritable:
		return RoleWritable
	default:
		return RoleReadonly
	}
}

func (r AccountRole) IsSigner() bool {
	return r == RoleWritableSigner || r == RoleReadonlySigner
}

func (r AccountRole) IsWritable() bool {
	return r == RoleWritableSigner || r == RoleWritable
}

func (r AccountRole) String() string {
	switch r {
	case RoleWritableSigner:
		return "WRITABLE_SIGNER"
	case RoleReadonlySigner:
		return "READONLY_SIGNER"
	case RoleWritable:
		return "WRITABLE"
	case RoleReadonly:
		return "READONLY"
	}
	return "UNKNOWN"
}

// AccountMeta represents the account information required
// for building transactions.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
	isPayer    bool
	isProgram  bool
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// NewAccountMetaWithRole creates a new AccountMeta from an AccountRole.
func NewAccountMetaWithRole(pub ed25519.PublicKey, role AccountRole) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   role.IsSigner(),
		IsWritable: role.IsWritable(),
	}
}

// Role returns the AccountRole implied by the meta's flags.
func (m AccountMeta) Role() AccountRole {
	return RoleOf(m.IsSigner, m.IsWritable)
}

// SortableAccountMeta is a sortable []AccountMeta based on the solana transaction
// account sorting rules.
//
// Reference: https://docs.solana.com/transaction#account-addresses-format
type SortableAccountMeta []AccountMeta

// Len is the number of elements in the collection.
func (s SortableAccountMeta) Len() int {
	return len(s)
}

// Less reports whether the element with
// index i should sort before the element with index j.
//
// The payer always comes first. Otherwise accounts are grouped by role, and
// programs are placed after every other account sharing their role.
func (s SortableAccountMeta) Less(i int, j int) bool {
	if s[i].isPayer != s[j].isPayer {
		return s[i].isPayer
	}

	iRole, jRole := s[i].Role(), s[j].Role()
	if iRole != jRole {
		return iRole < jRole
	}

	if s[i].isProgram != s[j].isProgram {
		return !s[i].isProgram
	}

	return bytes.Compare(s[i].PublicKey, s[j].PublicKey) < 0
}

// Swap swaps the elements with indexes i and j.
func (s SortableAccountMeta) Swap(i int, j int) {
	s[i], s[j] = s[j], s[i]
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// Roles returns the AccountRole of each instruction account, in order.
func (i Instruction) Roles() []AccountRole {
	roles := make([]AccountRole, len(i.Accounts))
	for idx, account := range i.Accounts {
		roles[idx] = account.Role()
	}
	return roles
}

// CompiledInstruction represents an instruction that has been compiled into a transaction.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}
