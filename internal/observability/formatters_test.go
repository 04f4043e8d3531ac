package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/pindora-shield/internal/normalize"
	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/types"
)

func contentView(smiles, raw string) *pipeline.View {
	return &pipeline.View{
		Request:  types.ReportRequest{MoleculeIdentifier: smiles},
		Response: types.NewReportSuccess(raw, "success"),
		Document: normalize.Normalize(raw),
	}
}

func failureView(smiles, message string) *pipeline.View {
	return &pipeline.View{
		Request:  types.ReportRequest{MoleculeIdentifier: smiles},
		Response: types.NewReportFailure(types.FailureBackend, message),
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(contentView("CCO", "Ethanol\nLow risk\nADME: low\nPotency weak"))
	output := buf.String()

	assert.Contains(t, output, "MOLECULE REPORT")
	assert.Contains(t, output, "SMILES:   CCO")
	assert.Contains(t, output, "Outcome:  content")
	assert.Contains(t, output, "Title:    Ethanol")
	assert.Contains(t, output, "Subtitle: Low risk")
	assert.Contains(t, output, "Sections (2):")
	assert.Contains(t, output, "• ADME: low")
	assert.Contains(t, output, "• Potency: weak")
}

func TestPrintReport_Failure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(failureView("bad", "Invalid SMILES"))
	output := buf.String()

	assert.Contains(t, output, "Outcome:  failure")
	assert.Contains(t, output, "✗ Invalid SMILES (backend)")
	assert.NotContains(t, output, "Title:")
}

func TestPrintReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(&pipeline.View{
		Request:  types.ReportRequest{MoleculeIdentifier: "C"},
		Response: types.NewReportSuccess("", ""),
	})

	assert.Contains(t, buf.String(), "(empty report)")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintReport_ManySections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	lines := []string{"Title", "Sub"}
	for _, name := range normalize.RecognizedSections[:7] {
		lines = append(lines, name+" x")
	}
	p.PrintReport(contentView("C", strings.Join(lines, "\n")))

	assert.Contains(t, buf.String(), "Sections (7):")
	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary([]*pipeline.View{
		contentView("CCO", "Ethanol"),
		failureView("bad", "HTTP 500"),
	})
	output := buf.String()

	assert.Contains(t, output, "BATCH SUMMARY")
	assert.Contains(t, output, "✓ CCO  Ethanol")
	assert.Contains(t, output, "✗ bad  HTTP 500")
	assert.Contains(t, output, "2 reports, 1 succeeded, 1 failed")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	longLine := strings.Repeat("α", 100)
	p.printBox("TEST", longLine)

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), fmt.Sprintf("line %q", line))
	}
	assert.Contains(t, buf.String(), "...")
}
