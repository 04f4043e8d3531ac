package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Messages returned in the "detail" field for invalid requests.
const (
	detailSmilesRequired = "SMILES string is required"
	detailBatchRequired  = "At least one SMILES string is required"
)

// RequestError indicates a malformed or invalid request.
type RequestError struct {
	Field   string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Message)
	}
	return fmt.Sprintf("invalid request: %s - %s", e.Field, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// newRequestError translates a request validation failure into the message
// shown to callers.
func newRequestError(err error) *RequestError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &RequestError{Message: err.Error(), Cause: err}
	}

	fe := fieldErrs[0]
	reqErr := &RequestError{Field: fe.Field(), Cause: err}
	switch {
	case fe.StructField() == "MoleculeIdentifier":
		reqErr.Message = detailSmilesRequired
	case fe.Tag() == "max":
		reqErr.Message = fmt.Sprintf("At most %s SMILES strings are allowed per request", fe.Param())
	case fe.Tag() == "required" || fe.Tag() == "min":
		reqErr.Message = detailBatchRequired
	default:
		// dive errors on individual batch entries
		reqErr.Message = detailSmilesRequired
	}
	return reqErr
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
