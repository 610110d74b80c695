package common

import (
	"bytes"
	"crypto/ed25519"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/solana/splwrapper"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

type Account struct {
	publicKey  *Key
	privateKey *Key // Optional
}

// WrapperAccounts are the program derived accounts of a wrapper instance,
// keyed by the original asset's mint.
type WrapperAccounts struct {
	Program      *Account
	OriginalMint *Account

	Config     *Account
	ConfigBump uint8

	Stats     *Account
	StatsBump uint8

	Vault     *Account
	VaultBump uint8

	WrappedMint     *Account
	WrappedMintBump uint8
}

func NewAccountFromPublicKey(publicKey *Key) (*Account, error) {
	account := &Account{
		publicKey: publicKey,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewAccountFromPublicKeyBytes(publicKey []byte) (*Account, error) {
	key, err := NewKeyFromBytes(publicKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKey(key)
}

func NewAccountFromPublicKeyString(publicKey string) (*Account, error) {
	key, err := NewKeyFromString(publicKey)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKey(key)
}

func NewAccountFromPrivateKey(privateKey *Key) (*Account, error) {
	publicKeyBytes := ed25519.PrivateKey(privateKey.ToBytes()).Public().(ed25519.PublicKey)
	publicKey, err := NewKeyFromBytes(publicKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "error creating public key from private key")
	}

	account := &Account{
		publicKey:  publicKey,
		privateKey: privateKey,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

func NewRandomAccount() (*Account, error) {
	key, err := NewRandomKey()
	if err != nil {
		return nil, err
	}

	account, err := NewAccountFromPrivateKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account")
	}

	return account, nil
}

func (a *Account) PublicKey() *Key {
	return a.publicKey
}

func (a *Account) PrivateKey() *Key {
	return a.privateKey
}

// ToAssociatedTokenAccount returns the canonical holding account of a for
// mint under tokenProgram.
func (a *Account) ToAssociatedTokenAccount(mint *Account, tokenProgram ed25519.PublicKey) (*Account, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating owner account")
	}

	ata, err := token.GetAssociatedAccount(a.PublicKey().ToBytes(), mint.PublicKey().ToBytes(), tokenProgram)
	if err != nil {
		return nil, err
	}

	return NewAccountFromPublicKeyBytes(ata)
}

// GetWrapperAccounts derives the wrapper accounts for a as the original mint
func (a *Account) GetWrapperAccounts(program *Account) (*WrapperAccounts, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "error validating mint account")
	}

	args := &splwrapper.GetAddressArgs{
		Program:      program.PublicKey().ToBytes(),
		OriginalMint: a.PublicKey().ToBytes(),
	}

	configAddress, configBump, err := splwrapper.GetConfigAddress(args)
	if err != nil {
		return nil, errors.Wrap(err, "error getting config address")
	}

	statsAddress, statsBump, err := splwrapper.GetStatsAddress(args)
	if err != nil {
		return nil, errors.Wrap(err, "error getting stats address")
	}

	vaultAddress, vaultBump, err := splwrapper.GetVaultAddress(args)
	if err != nil {
		return nil, errors.Wrap(err, "error getting vault address")
	}

	wrappedMintAddress, wrappedMintBump, err := splwrapper.GetWrappedMintAddress(args)
	if err != nil {
		return nil, errors.Wrap(err, "error getting wrapped mint address")
	}

	configAccount, err := NewAccountFromPublicKeyBytes(configAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config address")
	}

	statsAccount, err := NewAccountFromPublicKeyBytes(statsAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stats address")
	}

	vaultAccount, err := NewAccountFromPublicKeyBytes(vaultAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid vault address")
	}

	wrappedMintAccount, err := NewAccountFromPublicKeyBytes(wrappedMintAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid wrapped mint address")
	}

	return &WrapperAccounts{
		Program:      program,
		OriginalMint: a,

		Config:     configAccount,
		ConfigBump: configBump,

		Stats:     statsAccount,
		StatsBump: statsBump,

		Vault:     vaultAccount,
		VaultBump: vaultBump,

		WrappedMint:     wrappedMintAccount,
		WrappedMintBump: wrappedMintBump,
	}, nil
}

func (a *Account) IsOnCurve() bool {
	return isOnCurve(a.PublicKey().ToBytes())
}

func (a *Account) Validate() error {
	if a == nil {
		return errors.New("account is nil")
	}

	if err := a.PublicKey().Validate(); err != nil {
		return errors.Wrap(err, "error validating public key")
	}

	if !a.PublicKey().IsPublic() {
		return errors.New("public key isn't public")
	}

	// Private keys are optional
	if a.privateKey == nil {
		return nil
	}

	if err := a.privateKey.Validate(); err != nil {
		return errors.Wrap(err, "error validating private key")
	}

	if a.privateKey.IsPublic() {
		return errors.New("private key isn't private")
	}

	expectedPublicKey := ed25519.PrivateKey(a.privateKey.ToBytes()).Public().(ed25519.PublicKey)
	if !bytes.Equal(a.PublicKey().ToBytes(), expectedPublicKey) {
		return errors.New("private key doesn't map to public key")
	}

	return nil
}

func (a *Account) String() string {
	return a.PublicKey().ToBase58()
}

func isOnCurve(pubKey ed25519.PublicKey) bool {
	if len(pubKey) != ed25519.PublicKeySize {
		return false
	}

	// Try to parse the public key as a point
	_, err := new(edwards25519.Point).SetBytes(pubKey)
	return err == nil
}
