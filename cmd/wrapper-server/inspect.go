package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/invoix/wrapper-server/pkg/cspl/common"
	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/solana"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <base64 transaction>",
		Short: "Decode a wire transaction and describe its wrapper instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), strings.TrimSpace(args[0]))
		},
	}
}

func runInspect(out io.Writer, encoded string) error {
	txn, err := solana.ParseBase64(encoded)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(txn.String())

	payer := "<none>"
	if len(txn.Message.Accounts) > 0 {
		payer = base58.Encode(txn.Message.Accounts[0])
	}
	sb.WriteString(fmt.Sprintf("Fee Payer: %s\n", payer))

	sb.WriteString("Decoded Instructions:\n")
	for i, ixn := range txn.Message.Instructions {
		if int(ixn.ProgramIndex) >= len(txn.Message.Accounts) {
			sb.WriteString(fmt.Sprintf("  %d: invalid program index %d\n", i, ixn.ProgramIndex))
			continue
		}

		program := txn.Message.Accounts[ixn.ProgramIndex]
		decoded, err := encoder.Decode(ixn.Data)
		if err != nil {
			sb.WriteString(fmt.Sprintf("  %d: %s (undecoded: %v)\n", i, base58.Encode(program), err))
			continue
		}

		name := decoded.Name
		if !bytes.Equal(program, common.DefaultProgramAccount.PublicKey().ToBytes()) {
			name += " (non-default program " + base58.Encode(program) + ")"
		}
		sb.WriteString(fmt.Sprintf("  %d: %s\n", i, name))

		keys := make([]string, 0, len(decoded.Args))
		for key := range decoded.Args {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("      %s: %s\n", key, formatArg(decoded.Args[key])))
		}
	}

	_, err = io.WriteString(out, sb.String())
	return err
}

func formatArg(value interface{}) string {
	switch typed := value.(type) {
	case []byte:
		if len(typed) == 32 {
			return base58.Encode(typed)
		}
		return fmt.Sprintf("%x", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
