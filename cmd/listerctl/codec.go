package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	lister "github.com/goliatone/go-lister"
)

func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [json]",
		Short: "Encode a JSON document as a hash token",
		Long:  `Encode compacts the JSON document given as argument, or read from stdin, and prints its token. Key order is kept.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var document []byte
			if len(args) == 1 {
				document = []byte(args[0])
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				document = raw
			}

			token, err := lister.EncodeJSON(bytes.TrimSpace(document))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func decodeCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the JSON document carried by a hash token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := lister.DecodeJSON(args[0])
			if err != nil {
				return err
			}
			if pretty {
				var out bytes.Buffer
				if err := json.Indent(&out, document, "", "  "); err != nil {
					return err
				}
				document = out.Bytes()
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(document))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the decoded document")

	return cmd
}
