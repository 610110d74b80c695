package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/request"
	"github.com/invoix/wrapper-server/pkg/solana/token"
)

type derivedAccount struct {
	Address string `json:"address"`
	Bump    *uint8 `json:"bump,omitempty"`
}

type deriveOutput struct {
	Program     string          `json:"program"`
	AssetMint   string          `json:"assetMint"`
	Config      *derivedAccount `json:"config"`
	Stats       *derivedAccount `json:"stats"`
	Vault       *derivedAccount `json:"vault"`
	WrappedMint *derivedAccount `json:"wrappedMint"`

	Owner                  string `json:"owner,omitempty"`
	OriginalHoldingAccount string `json:"originalHoldingAccount,omitempty"`
	WrappedHoldingAccount  string `json:"wrappedHoldingAccount,omitempty"`
}

func deriveCmd(flags *globalFlags) *cobra.Command {
	var mint, owner string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the wrapper addresses of a mint, and optionally an owner's holding accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := flags.program()
			if err != nil {
				return errors.Wrap(err, "invalid program id")
			}
			return runDerive(cmd.OutOrStdout(), program, mint, owner)
		},
	}

	cmd.Flags().StringVar(&mint, "mint", "", "original asset mint")
	cmd.Flags().StringVar(&owner, "owner", "", "wallet whose holding accounts are derived")
	_ = cmd.MarkFlagRequired("mint")

	return cmd
}

func runDerive(out io.Writer, program *common.Account, mint, owner string) error {
	mintAccount, err := request.ParseAddress(request.FieldAssetMint, mint)
	if err != nil {
		return err
	}

	wrapper, err := mintAccount.GetWrapperAccounts(program)
	if err != nil {
		return err
	}

	output := &deriveOutput{
		Program:     program.PublicKey().ToBase58(),
		AssetMint:   mintAccount.PublicKey().ToBase58(),
		Config:      newDerivedAccount(wrapper.Config, wrapper.ConfigBump),
		Stats:       newDerivedAccount(wrapper.Stats, wrapper.StatsBump),
		Vault:       newDerivedAccount(wrapper.Vault, wrapper.VaultBump),
		WrappedMint: newDerivedAccount(wrapper.WrappedMint, wrapper.WrappedMintBump),
	}

	if len(owner) > 0 {
		ownerAccount, err := request.ParseAddress("owner", owner)
		if err != nil {
			return err
		}

		original, err := ownerAccount.ToAssociatedTokenAccount(mintAccount, token.ProgramKey)
		if err != nil {
			return err
		}

		wrapped, err := ownerAccount.ToAssociatedTokenAccount(wrapper.WrappedMint, token.Token2022ProgramKey)
		if err != nil {
			return err
		}

		output.Owner = ownerAccount.PublicKey().ToBase58()
		output.OriginalHoldingAccount = original.PublicKey().ToBase58()
		output.WrappedHoldingAccount = wrapped.PublicKey().ToBase58()
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func newDerivedAccount(account *common.Account, bump uint8) *derivedAccount {
	return &derivedAccount{
		Address: account.PublicKey().ToBase58(),
		Bump:    &bump,
	}
}
