package common

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	ErrInvalidKey = errors.New("invalid key")
)

// Key is an ed25519 key with its cached base58 text form
type Key struct {
	bytesValue  []byte
	stringValue string
}

func NewKeyFromBytes(value []byte) (*Key, error) {
	k := &Key{
		bytesValue:  value,
		stringValue: base58.Encode(value),
	}

	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func NewKeyFromString(value string) (*Key, error) {
	bytesValue, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, "value is not base58 encoded")
	}

	k := &Key{
		bytesValue:  bytesValue,
		stringValue: value,
	}

	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func NewRandomKey() (*Key, error) {
	_, privateKeyBytes, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error generating private key")
	}

	return NewKeyFromBytes(privateKeyBytes)
}

func (k *Key) ToBytes() []byte {
	return k.bytesValue
}

func (k *Key) ToBase58() string {
	return k.stringValue
}

func (k *Key) IsPublic() bool {
	return len(k.bytesValue) != ed25519.PrivateKeySize
}

func (k *Key) Equals(other *Key) bool {
	return other != nil && bytes.Equal(k.bytesValue, other.bytesValue)
}

func (k *Key) Validate() error {
	if k == nil {
		return errors.Wrap(ErrInvalidKey, "key is nil")
	}

	if len(k.bytesValue) != ed25519.PublicKeySize && len(k.bytesValue) != ed25519.PrivateKeySize {
		return errors.Wrap(ErrInvalidKey, "key must be an ed25519 public or private key")
	}

	// Non-canonical text forms, like leading zero padding, are rejected
	if base58.Encode(k.bytesValue) != k.stringValue {
		return errors.Wrap(ErrInvalidKey, "bytes and string representation don't match")
	}

	return nil
}
