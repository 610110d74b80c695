package splwrapper

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"
)

func programOrDefault(program ed25519.PublicKey) ed25519.PublicKey {
	if len(program) == 0 {
		return PROGRAM_ID
	}
	return program
}

// encodeInstructionData prefixes the Borsh encoding of args with the
// instruction discriminator. A nil args produces a discriminator-only payload.
func encodeInstructionData(discriminator []byte, args interface{}) []byte {
	buf := new(bytes.Buffer)
	buf.Write(discriminator)

	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			// Every argument type is fixed width
			panic(err)
		}
	}

	return buf.Bytes()
}

// decodeInstructionData checks the discriminator prefix of data and Borsh
// decodes the remainder into args.
func decodeInstructionData(data, discriminator []byte, args interface{}) error {
	if !bytes.HasPrefix(data, discriminator) {
		return ErrInvalidInstructionData
	}

	if err := bin.NewBorshDecoder(data[len(discriminator):]).Decode(args); err != nil {
		return ErrInvalidInstructionData
	}
	return nil
}

func writeOptionalKey(encoder *bin.Encoder, key ed25519.PublicKey) error {
	if len(key) == 0 {
		return encoder.WriteBool(false)
	}
	if err := encoder.WriteBool(true); err != nil {
		return err
	}
	return encoder.WriteBytes(key, false)
}

func readOptionalKey(decoder *bin.Decoder) (ed25519.PublicKey, error) {
	ok, err := decoder.ReadBool()
	if err != nil || !ok {
		return nil, err
	}

	key, err := decoder.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(key), nil
}
