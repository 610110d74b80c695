package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/solana"
)

const (
	rpcUrlEnvName     = "RPC_URL"
	programIdEnvName  = "PROGRAM_ID"
	commitmentEnvName = "RPC_COMMITMENT"
)

type globalFlags struct {
	rpcUrl     string
	programId  string
	commitment string
}

func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "wrapper-server",
		Short:         "Builds unsigned transactions for the confidential token wrapper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.rpcUrl, "rpc-url", envOrDefault(rpcUrlEnvName, string(solana.EnvironmentDev)), "Solana JSON-RPC endpoint")
	rootCmd.PersistentFlags().StringVar(&flags.programId, "program-id", os.Getenv(programIdEnvName), "wrapper program address (defaults to the deployed program)")
	rootCmd.PersistentFlags().StringVar(&flags.commitment, "commitment", envOrDefault(commitmentEnvName, "confirmed"), "commitment used for RPC reads")

	rootCmd.AddCommand(
		serveCmd(),
		buildCmd(flags),
		deriveCmd(flags),
		inspectCmd(),
	)

	return rootCmd
}

func (f *globalFlags) program() (*common.Account, error) {
	if len(f.programId) == 0 {
		return common.DefaultProgramAccount, nil
	}
	return common.NewAccountFromPublicKeyString(f.programId)
}

func envOrDefault(name, defaultValue string) string {
	if value := os.Getenv(name); len(value) > 0 {
		return value
	}
	return defaultValue
}
