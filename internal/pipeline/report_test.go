package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pindora-shield/internal/normalize"
	"github.com/jonathan/pindora-shield/internal/schemas"
	"github.com/jonathan/pindora-shield/internal/types"
	rootschemas "github.com/jonathan/pindora-shield/schemas"
)

func TestView_Report(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]types.ReportResponse{
		"CC(=O)OC1=CC=CC=C1C(=O)O": types.NewReportSuccess(
			"Aspirin Candidate\nHigh confidence\nBioactivity strong binder\nPotency IC50 12nM", "success"),
	}}

	view := ViewReport(context.Background(), fetcher, types.ReportRequest{MoleculeIdentifier: "CC(=O)OC1=CC=CC=C1C(=O)O"})
	report := view.Report()

	assert.Equal(t, view.ViewID.String(), report.ViewID)
	assert.Equal(t, "CC(=O)OC1=CC=CC=C1C(=O)O", report.Smiles)
	assert.Equal(t, types.OutcomeContent, report.Outcome)
	assert.Equal(t, "success", report.Status)
	assert.Equal(t, "Aspirin Candidate", report.Title)
	assert.Equal(t, "High confidence", report.Subtitle)
	assert.Equal(t, []normalize.Section{
		{Heading: "Bioactivity", Body: "strong binder"},
		{Heading: "Potency", Body: "IC50 12nM"},
	}, report.Sections)
	assert.Nil(t, report.Error)
	require.NoError(t, schemas.ValidateValue(rootschemas.ReportView, report))
}

func TestView_ReportFailure(t *testing.T) {
	view := ViewReport(context.Background(), &stubFetcher{}, types.ReportRequest{MoleculeIdentifier: "CCO"})
	report := view.Report()

	assert.Equal(t, types.OutcomeFailure, report.Outcome)
	assert.Empty(t, report.Report)
	assert.NotNil(t, report.Sections, "sections serialize as an empty array")
	require.NotNil(t, report.Error)
	assert.Equal(t, "HTTP 404", report.Error.Message)
	require.NoError(t, schemas.ValidateValue(rootschemas.ReportView, report))
}
