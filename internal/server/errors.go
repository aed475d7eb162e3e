package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-fit/internal/ingestion"
	"github.com/jonathan/resume-fit/internal/matching"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("not found")

// RequestError is a client error with an explicit status code
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

func badRequest(message string, cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: message, Cause: cause}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *RequestError
	var tooLarge *http.MaxBytesError
	var loadErr *ingestion.LoadError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr):
		return reqErr.Status
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, matching.ErrInvalidArgument), errors.As(err, &loadErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
