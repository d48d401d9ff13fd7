package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listerctl",
		Short: "Inspect and build list query hashes",
		Long: `listerctl works with the base64 JSON hashes produced by go-lister.

Encode and decode tokens, or build a coordinator from a config file,
LISTER_* environment variables and flags and print the committed
parameters with their hash.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		encodeCmd(),
		decodeCmd(),
		hashCmd(),
		versionCmd(),
	)
	return rootCmd
}
