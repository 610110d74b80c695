package splwrapper

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
)

const (
	MinWrapperConfigAccountSize = (8 + // discriminator
		32 + // authority
		32 + // original_mint
		32 + // wrapped_mint
		32 + // vault
		1 + // auditor_elgamal_pubkey (none)
		2 + // wrap_fee_bps
		2 + // unwrap_fee_bps
		1 + // is_paused
		1) // bump

	MaxWrapperConfigAccountSize = MinWrapperConfigAccountSize + 32
)

var WrapperConfigAccountDiscriminator = []byte{83, 239, 35, 66, 9, 218, 15, 226}

type WrapperConfigAccount struct {
	Authority    ed25519.PublicKey
	OriginalMint ed25519.PublicKey
	WrappedMint  ed25519.PublicKey
	Vault        ed25519.PublicKey
	Auditor      []byte // optional ElGamal public key
	WrapFeeBps   uint16
	UnwrapFeeBps uint16
	IsPaused     bool
	Bump         uint8
}

func (obj *WrapperConfigAccount) Marshal() []byte {
	buf := new(bytes.Buffer)
	buf.Write(WrapperConfigAccountDiscriminator)

	encoder := bin.NewBorshEncoder(buf)
	encoder.WriteBytes(obj.Authority, false)
	encoder.WriteBytes(obj.OriginalMint, false)
	encoder.WriteBytes(obj.WrappedMint, false)
	encoder.WriteBytes(obj.Vault, false)
	writeOptionalKey(encoder, obj.Auditor)
	encoder.WriteUint16(obj.WrapFeeBps, binary.LittleEndian)
	encoder.WriteUint16(obj.UnwrapFeeBps, binary.LittleEndian)
	encoder.WriteBool(obj.IsPaused)
	encoder.WriteUint8(obj.Bump)

	return buf.Bytes()
}

func (obj *WrapperConfigAccount) Unmarshal(data []byte) error {
	if len(data) < MinWrapperConfigAccountSize {
		return ErrInvalidAccountData
	}
	if !bytes.Equal(data[:8], WrapperConfigAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	decoder := bin.NewBorshDecoder(data[8:])

	var err error
	for _, dst := range []*ed25519.PublicKey{&obj.Authority, &obj.OriginalMint, &obj.WrappedMint, &obj.Vault} {
		if *dst, err = decoder.ReadNBytes(ed25519.PublicKeySize); err != nil {
			return ErrInvalidAccountData
		}
	}

	auditor, err := readOptionalKey(decoder)
	if err != nil {
		return ErrInvalidAccountData
	}
	obj.Auditor = auditor

	if obj.WrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian); err != nil {
		return ErrInvalidAccountData
	}
	if obj.UnwrapFeeBps, err = decoder.ReadUint16(binary.LittleEndian); err != nil {
		return ErrInvalidAccountData
	}
	if obj.IsPaused, err = decoder.ReadBool(); err != nil {
		return ErrInvalidAccountData
	}
	if obj.Bump, err = decoder.ReadUint8(); err != nil {
		return ErrInvalidAccountData
	}

	return nil
}

func (obj *WrapperConfigAccount) String() string {
	auditor := "none"
	if len(obj.Auditor) > 0 {
		auditor = base58.Encode(obj.Auditor)
	}

	return fmt.Sprintf(
		"WrapperConfig{authority=%s,original_mint=%s,wrapped_mint=%s,vault=%s,auditor=%s,wrap_fee_bps=%d,unwrap_fee_bps=%d,is_paused=%v,bump=%d}",
		base58.Encode(obj.Authority),
		base58.Encode(obj.OriginalMint),
		base58.Encode(obj.WrappedMint),
		base58.Encode(obj.Vault),
		auditor,
		obj.WrapFeeBps,
		obj.UnwrapFeeBps,
		obj.IsPaused,
		obj.Bump,
	)
}
