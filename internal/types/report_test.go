//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request ReportRequest
		wantErr bool
	}{
		{name: "aspirin", request: ReportRequest{MoleculeIdentifier: "CC(=O)OC1=CC=CC=C1C(=O)O"}},
		{name: "opaque text is accepted", request: ReportRequest{MoleculeIdentifier: "not really smiles"}},
		{name: "empty", request: ReportRequest{}, wantErr: true},
		{name: "whitespace only", request: ReportRequest{MoleculeIdentifier: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBatchReportRequest_Validation(t *testing.T) {
	valid := BatchReportRequest{MoleculeIdentifiers: []string{"CCO", "c1ccccc1"}}
	require.NoError(t, valid.Validate())

	reqs := valid.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "CCO", reqs[0].MoleculeIdentifier)
	assert.Equal(t, "c1ccccc1", reqs[1].MoleculeIdentifier)

	assert.Error(t, (&BatchReportRequest{}).Validate())
	assert.Error(t, (&BatchReportRequest{MoleculeIdentifiers: []string{"CCO", " "}}).Validate())
}

func TestNewReportSuccess(t *testing.T) {
	resp := NewReportSuccess("Aspirin\nBioactivity high", "")
	assert.Equal(t, OutcomeContent, resp.Outcome)
	assert.Equal(t, DefaultReportStatus, resp.Status)
	assert.True(t, resp.OK())
	assert.Empty(t, resp.ErrorMessage())

	empty := NewReportSuccess("", "done")
	assert.Equal(t, OutcomeEmpty, empty.Outcome)
	assert.Equal(t, "done", empty.Status)
	assert.True(t, empty.OK())
	assert.Empty(t, empty.RawText)
}

func TestNewReportFailure(t *testing.T) {
	resp := NewReportFailure(FailureBackend, "bad smiles")
	assert.Equal(t, OutcomeFailure, resp.Outcome)
	assert.False(t, resp.OK())
	assert.Equal(t, "bad smiles", resp.ErrorMessage())
	assert.Equal(t, FailureBackend, resp.Failure.Kind)
	assert.Empty(t, resp.RawText)
}
