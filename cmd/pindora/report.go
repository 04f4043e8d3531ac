package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pindora-shield/internal/fetch"
	"github.com/jonathan/pindora-shield/internal/observability"
	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/types"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "report <smiles>",
		Short: "Fetch and normalize the report for one molecule",
		Long: `Request the report for a SMILES string from the compute backend and print
it as normalized markdown, a standalone HTML page or JSON.`,
		Example: `  pindora report "CC(=O)OC1=CC=CC=C1C(=O)O"
  pindora report --format json CCO`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			req := types.ReportRequest{MoleculeIdentifier: args[0]}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("SMILES string is required")
			}

			fetcher := fetch.NewClient(a.cfg.ReportEndpoint(), a.cfg.FetchOptions())
			view := pipeline.ViewReport(cmd.Context(), fetcher, req)

			if verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintReport(view)
			}
			if err := writeView(cmd.OutOrStdout(), view, format); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			if !view.Response.OK() {
				return fmt.Errorf("report failed: %s", view.Response.ErrorMessage())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "Output format: markdown, html or json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a report summary to stderr")
	return cmd
}
