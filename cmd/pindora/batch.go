package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/pindora-shield/internal/fetch"
	"github.com/jonathan/pindora-shield/internal/observability"
	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/types"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		inputFile   string
		concurrency int
		verbose     bool
		raw         bool
	)

	cmd := &cobra.Command{
		Use:   "batch [smiles...]",
		Short: "Fetch reports for several molecules concurrently",
		Long: `Request reports for every SMILES string given as an argument or listed one
per line in --file ("-" reads stdin). Each report is written as one JSON line,
in input order. With --raw the backend responses are written as fetched,
without normalization.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			identifiers := args
			if inputFile != "" {
				fromFile, err := readIdentifiers(cmd.InOrStdin(), inputFile)
				if err != nil {
					return err
				}
				identifiers = append(identifiers, fromFile...)
			}

			batch := types.BatchReportRequest{MoleculeIdentifiers: identifiers}
			if err := batch.Validate(); err != nil {
				return fmt.Errorf("invalid batch: %w", err)
			}
			if concurrency <= 0 {
				concurrency = a.cfg.MaxConcurrent
			}

			fetcher := fetch.NewClient(a.cfg.ReportEndpoint(), a.cfg.FetchOptions())
			if raw {
				return writeRaw(cmd.OutOrStdout(), fetcher.FetchAll(cmd.Context(), batch.Requests(), concurrency))
			}
			views := pipeline.ViewMany(cmd.Context(), fetcher, batch.Requests(), concurrency, nil)

			enc := json.NewEncoder(cmd.OutOrStdout())
			failed := 0
			for _, view := range views {
				if !view.Response.OK() {
					failed++
				}
				if err := enc.Encode(view.Report()); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}
			if verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintBatchSummary(views)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(views))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "file", "", `File with one SMILES string per line ("-" for stdin)`)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent requests (default MAX_CONCURRENT)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print a batch summary to stderr")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write fetch responses without normalizing them")
	return cmd
}

func writeRaw(w io.Writer, responses []types.ReportResponse) error {
	enc := json.NewEncoder(w)
	failed := 0
	for _, resp := range responses {
		if !resp.OK() {
			failed++
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(responses))
	}
	return nil
}

// readIdentifiers reads one identifier per line, skipping blank lines and
// lines starting with "#".
func readIdentifiers(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	return ids, nil
}
