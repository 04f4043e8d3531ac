package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pindora-shield/internal/normalize"
)

func newNormalizeCmd(_ *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize raw report text into structured markdown",
		Long:  `Read raw report text from a file (or stdin) and print the normalized document.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			var raw []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read report text: %w", err)
			}

			return writeDocument(cmd.OutOrStdout(), normalize.Normalize(string(raw)), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "Output format: markdown, html or json")
	return cmd
}
