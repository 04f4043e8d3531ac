// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintReport outputs a human-readable summary of one report view.
func (p *Printer) PrintReport(view *pipeline.View) {
	if view == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SMILES:   %s\n", view.Request.MoleculeIdentifier))
	sb.WriteString(fmt.Sprintf("Outcome:  %s\n", view.Response.Outcome))
	if view.Response.Status != "" {
		sb.WriteString(fmt.Sprintf("Status:   %s\n", view.Response.Status))
	}
	if view.Response.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf("HTTP:     %d\n", view.Response.StatusCode))
	}

	switch view.Response.Outcome {
	case types.OutcomeFailure:
		sb.WriteString(fmt.Sprintf("\n✗ %s (%s)\n", view.Response.ErrorMessage(), view.Response.Failure.Kind))
	case types.OutcomeEmpty:
		sb.WriteString("\n(empty report)\n")
	default:
		sb.WriteString(fmt.Sprintf("\nTitle:    %s\n", view.Document.Title()))
		if subtitle := view.Document.Subtitle(); subtitle != "" {
			sb.WriteString(fmt.Sprintf("Subtitle: %s\n", subtitle))
		}

		sections := view.Document.Sections()
		if len(sections) > 0 {
			sb.WriteString(fmt.Sprintf("\nSections (%d):\n", len(sections)))
			count := min(len(sections), maxItemsToShow)
			for i := 0; i < count; i++ {
				line := "  • " + sections[i].Heading
				if body := strings.ReplaceAll(sections[i].Body, "\n", " "); body != "" {
					line += ": " + body
				}
				sb.WriteString(line + "\n")
			}
			if len(sections) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(sections)-maxItemsToShow))
			}
		}
	}

	p.printBox("MOLECULE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchSummary outputs one line per view followed by totals.
func (p *Printer) PrintBatchSummary(views []*pipeline.View) {
	if len(views) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, view := range views {
		mark := "✓"
		detail := view.Document.Title()
		switch view.Response.Outcome {
		case types.OutcomeFailure:
			mark = "✗"
			detail = view.Response.ErrorMessage()
			failed++
		case types.OutcomeEmpty:
			mark = "∅"
			detail = "(empty report)"
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n", mark, view.Request.MoleculeIdentifier, detail))
	}
	sb.WriteString(fmt.Sprintf("\n%d reports, %d succeeded, %d failed", len(views), len(views)-failed, failed))

	p.printBox("BATCH SUMMARY", sb.String())
}
