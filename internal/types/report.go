// Package types provides type definitions for structured data used throughout the report service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ReportRequest identifies the molecule a report is requested for.
// The identifier is a SMILES string and is never interpreted here.
type ReportRequest struct {
	MoleculeIdentifier string `json:"input_smile" validate:"required,notblank"`
}

// BatchReportRequest asks for one report per identifier.
type BatchReportRequest struct {
	MoleculeIdentifiers []string `json:"input_smiles" validate:"required,min=1,max=50,dive,notblank"`
}

// Requests expands the batch into individual report requests.
func (b *BatchReportRequest) Requests() []ReportRequest {
	reqs := make([]ReportRequest, len(b.MoleculeIdentifiers))
	for i, id := range b.MoleculeIdentifiers {
		reqs[i] = ReportRequest{MoleculeIdentifier: id}
	}
	return reqs
}

// Validate validates the ReportRequest using the validator.
func (r *ReportRequest) Validate() error {
	return newValidator().Struct(r)
}

// Validate validates the BatchReportRequest using the validator.
func (b *BatchReportRequest) Validate() error {
	return newValidator().Struct(b)
}

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return validate
}

// ReportOutcome classifies a fetch attempt.
type ReportOutcome string

const (
	// OutcomeContent is a successful fetch carrying report text.
	OutcomeContent ReportOutcome = "content"
	// OutcomeEmpty is a successful fetch whose report is empty.
	OutcomeEmpty ReportOutcome = "empty"
	// OutcomeFailure is a failed fetch.
	OutcomeFailure ReportOutcome = "failure"
)

// FailureKind distinguishes where a failed fetch broke.
type FailureKind string

const (
	// FailureTransport covers connection errors and malformed requests.
	FailureTransport FailureKind = "transport"
	// FailureBackend covers non-success HTTP statuses.
	FailureBackend FailureKind = "backend"
)

// DefaultReportStatus is reported when the backend payload carries no status.
const DefaultReportStatus = "success"

// Failure describes why a fetch did not produce a report.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// ReportResponse is the result of one fetch attempt.
type ReportResponse struct {
	Outcome    ReportOutcome `json:"outcome"`
	RawText    string        `json:"raw_text,omitempty"`
	Status     string        `json:"status,omitempty"`
	Source     string        `json:"source,omitempty"` // payload field the report came from
	StatusCode int           `json:"status_code,omitempty"`
	Failure    *Failure      `json:"failure,omitempty"`
}

// NewReportSuccess builds a successful response. Text that is empty after
// extraction yields an OutcomeEmpty response instead.
func NewReportSuccess(rawText, status string) ReportResponse {
	if status == "" {
		status = DefaultReportStatus
	}
	if rawText == "" {
		return ReportResponse{Outcome: OutcomeEmpty, Status: status}
	}
	return ReportResponse{Outcome: OutcomeContent, RawText: rawText, Status: status}
}

// NewReportFailure builds a failed response.
func NewReportFailure(kind FailureKind, message string) ReportResponse {
	return ReportResponse{
		Outcome: OutcomeFailure,
		Failure: &Failure{Kind: kind, Message: message},
	}
}

// OK reports whether the fetch succeeded, with or without content.
func (r ReportResponse) OK() bool {
	return r.Outcome != OutcomeFailure
}

// ErrorMessage returns the failure message, or "" for successful responses.
func (r ReportResponse) ErrorMessage() string {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Message
}
