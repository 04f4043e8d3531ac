package pipeline

import (
	"github.com/jonathan/pindora-shield/internal/normalize"
	"github.com/jonathan/pindora-shield/internal/types"
)

// ReportView is the wire form of a View, shared by the HTTP API and the CLI's
// JSON output.
type ReportView struct {
	ViewID     string              `json:"view_id"`
	Smiles     string              `json:"smiles"`
	Outcome    types.ReportOutcome `json:"outcome"`
	Status     string              `json:"status"`
	StatusCode int                 `json:"status_code,omitempty"`
	Title      string              `json:"title,omitempty"`
	Subtitle   string              `json:"subtitle,omitempty"`
	Report     string              `json:"report"`
	Sections   []normalize.Section `json:"sections"`
	Error      *types.Failure      `json:"error,omitempty"`
}

// Report flattens the view for serialization.
func (v *View) Report() ReportView {
	sections := v.Document.Sections()
	if sections == nil {
		sections = []normalize.Section{}
	}
	return ReportView{
		ViewID:     v.ViewID.String(),
		Smiles:     v.Request.MoleculeIdentifier,
		Outcome:    v.Response.Outcome,
		Status:     v.Response.Status,
		StatusCode: v.Response.StatusCode,
		Title:      v.Document.Title(),
		Subtitle:   v.Document.Subtitle(),
		Report:     v.Markdown(),
		Sections:   sections,
		Error:      v.Response.Failure,
	}
}
