package solana

import (
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// This file is the only boundary between the compiled Transaction used across
// the codebase and the solana-go wire representation. No solanago type should
// be exposed outside of it.

var (
	ErrMalformedCompiledMessage = errors.New("malformed compiled message")
)

// Validate checks the structural invariants of a compiled transaction before
// it is converted to the wire format.
func (t *Transaction) Validate() error {
	m := t.Message

	if len(m.Instructions) == 0 {
		return errors.Wrap(ErrMalformedCompiledMessage, "no instructions")
	}

	if m.Header.NumSignatures == 0 {
		return errors.Wrap(ErrMalformedCompiledMessage, "no required signers")
	}
	if m.Header.NumReadonlySigned >= m.Header.NumSignatures {
		return errors.Wrap(ErrMalformedCompiledMessage, "fee payer must be a writable signer")
	}
	if int(m.Header.NumSignatures)+int(m.Header.NumReadOnly) > len(m.Accounts) {
		return errors.Wrap(ErrMalformedCompiledMessage, "header counts exceed static account list")
	}
	if len(t.Signatures) != int(m.Header.NumSignatures) {
		return errors.Wrapf(ErrMalformedCompiledMessage, "expected %d signature slots, got %d", m.Header.NumSignatures, len(t.Signatures))
	}

	for i, account := range m.Accounts {
		if len(account) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrMalformedCompiledMessage, "static account %d has invalid length", i)
		}
	}

	numAccounts := len(m.Accounts)
	for _, lookup := range m.AddressTableLookups {
		if len(lookup.PublicKey) != ed25519.PublicKeySize {
			return errors.Wrap(ErrMalformedCompiledMessage, "address table lookup has invalid key")
		}
		numAccounts += len(lookup.WritableIndexes) + len(lookup.ReadonlyIndexes)
	}

	for i, instruction := range m.Instructions {
		if int(instruction.ProgramIndex) >= numAccounts {
			return errors.Wrapf(ErrMalformedCompiledMessage, "instruction %d program index out of range", i)
		}
		for _, index := range instruction.Accounts {
			if int(index) >= numAccounts {
				return errors.Wrapf(ErrMalformedCompiledMessage, "instruction %d account index out of range", i)
			}
		}
	}

	return nil
}

// ToWire converts the transaction into its solana-go representation. Field
// values are carried over unchanged.
func (t *Transaction) ToWire() (*solanago.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	m := t.Message

	msg := solanago.Message{
		AccountKeys: make(solanago.PublicKeySlice, len(m.Accounts)),
		Header: solanago.MessageHeader{
			NumRequiredSignatures:       m.Header.NumSignatures,
			NumReadonlySignedAccounts:   m.Header.NumReadonlySigned,
			NumReadonlyUnsignedAccounts: m.Header.NumReadOnly,
		},
		RecentBlockhash: solanago.Hash(m.RecentBlockhash),
		Instructions:    make([]solanago.CompiledInstruction, len(m.Instructions)),
	}

	for i, account := range m.Accounts {
		msg.AccountKeys[i] = solanago.PublicKeyFromBytes(account)
	}

	for i, instruction := range m.Instructions {
		accounts := make([]uint16, len(instruction.Accounts))
		for j, index := range instruction.Accounts {
			accounts[j] = uint16(index)
		}

		msg.Instructions[i] = solanago.CompiledInstruction{
			ProgramIDIndex: uint16(instruction.ProgramIndex),
			Accounts:       accounts,
			Data:           solanago.Base58(instruction.Data),
		}
	}

	if len(m.AddressTableLookups) > 0 {
		lookups := make(solanago.MessageAddressTableLookupSlice, len(m.AddressTableLookups))
		for i, lookup := range m.AddressTableLookups {
			lookups[i] = solanago.MessageAddressTableLookup{
				AccountKey:      solanago.PublicKeyFromBytes(lookup.PublicKey),
				WritableIndexes: lookup.WritableIndexes,
				ReadonlyIndexes: lookup.ReadonlyIndexes,
			}
		}
		msg.AddressTableLookups = lookups
		msg.SetVersion(solanago.MessageVersionV0)
	} else {
		msg.SetVersion(solanago.MessageVersionLegacy)
	}

	wire := &solanago.Transaction{
		Signatures: make([]solanago.Signature, len(t.Signatures)),
		Message:    msg,
	}
	for i, sig := range t.Signatures {
		wire.Signatures[i] = solanago.Signature(sig)
	}

	return wire, nil
}

// MarshalWire validates and serializes the transaction into wire bytes
func (t *Transaction) MarshalWire() ([]byte, error) {
	wire, err := t.ToWire()
	if err != nil {
		return nil, err
	}

	b, err := wire.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling wire transaction")
	}
	return b, nil
}

// ToBase64 validates and serializes the transaction into base64 wire bytes
func (t *Transaction) ToBase64() (string, error) {
	wire, err := t.ToWire()
	if err != nil {
		return "", err
	}

	encoded, err := wire.ToBase64()
	if err != nil {
		return "", errors.Wrap(err, "error encoding wire transaction")
	}
	return encoded, nil
}

// FromWire converts a solana-go transaction back into a compiled Transaction
func FromWire(wire *solanago.Transaction) (*Transaction, error) {
	if wire == nil {
		return nil, errors.Wrap(ErrMalformedCompiledMessage, "nil transaction")
	}

	src := wire.Message

	var m Message
	m.Header = Header{
		NumSignatures:     src.Header.NumRequiredSignatures,
		NumReadonlySigned: src.Header.NumReadonlySignedAccounts,
		NumReadOnly:       src.Header.NumReadonlyUnsignedAccounts,
	}
	m.RecentBlockhash = Blockhash(src.RecentBlockhash)
	if src.IsVersioned() {
		m.Version = MessageVersion0
	}

	m.Accounts = make([]ed25519.PublicKey, len(src.AccountKeys))
	for i, account := range src.AccountKeys {
		m.Accounts[i] = account.Bytes()
	}

	m.Instructions = make([]CompiledInstruction, len(src.Instructions))
	for i, instruction := range src.Instructions {
		if instruction.ProgramIDIndex > 0xff {
			return nil, errors.Wrapf(ErrMalformedCompiledMessage, "instruction %d program index out of range", i)
		}

		accounts := make([]byte, len(instruction.Accounts))
		for j, index := range instruction.Accounts {
			if index > 0xff {
				return nil, errors.Wrapf(ErrMalformedCompiledMessage, "instruction %d account index out of range", i)
			}
			accounts[j] = byte(index)
		}

		m.Instructions[i] = CompiledInstruction{
			ProgramIndex: byte(instruction.ProgramIDIndex),
			Accounts:     accounts,
			Data:         []byte(instruction.Data),
		}
	}

	for _, lookup := range src.AddressTableLookups {
		m.AddressTableLookups = append(m.AddressTableLookups, MessageAddressTableLookup{
			PublicKey:       lookup.AccountKey.Bytes(),
			WritableIndexes: []byte(lookup.WritableIndexes),
			ReadonlyIndexes: []byte(lookup.ReadonlyIndexes),
		})
	}

	tx := &Transaction{
		Signatures: make([]Signature, len(wire.Signatures)),
		Message:    m,
	}
	for i, sig := range wire.Signatures {
		tx.Signatures[i] = Signature(sig)
	}

	return tx, nil
}

// UnmarshalWire decodes wire bytes into a compiled Transaction
func UnmarshalWire(b []byte) (*Transaction, error) {
	wire, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(b))
	if err != nil {
		return nil, errors.Wrap(err, "error decoding wire transaction")
	}
	return FromWire(wire)
}

// ParseBase64 decodes base64 wire bytes into a compiled Transaction
func ParseBase64(encoded string) (*Transaction, error) {
	wire, err := solanago.TransactionFromBase64(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding wire transaction")
	}
	return FromWire(wire)
}
