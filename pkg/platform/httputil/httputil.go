// Package httputil maps coded domain errors onto HTTP responses and provides
// small JSON helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "certform/pkg/domain-errors"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError translates a coded error into a JSON error response. Internal
// errors never leak their description to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	description := ""

	switch {
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		status, code, description = http.StatusNotFound, "not_found", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeUnavailable):
		status, code, description = http.StatusConflict, "unavailable", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeInvalidInput),
		dErrors.HasCode(err, dErrors.CodeBadRequest):
		status, code, description = http.StatusBadRequest, "bad_request", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		status, code, description = http.StatusUnauthorized, "unauthorized", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		status, code, description = http.StatusForbidden, "forbidden", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeConflict):
		status, code, description = http.StatusConflict, "conflict", errMessage(err)
	case dErrors.HasCode(err, dErrors.CodeMappingInconsistency):
		// Template/answer drift is a server-side fault; surface it as 500 but
		// keep the message since it names the drifted question.
		status, code, description = http.StatusInternalServerError, "mapping_inconsistency", errMessage(err)
	}

	WriteJSON(w, status, errorBody{Error: code, Description: description})
}

func errMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// WriteJSON serializes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode decodes a JSON request body into T, writing a bad-request response
// and returning ok=false on failure.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request body rejected", "error", err)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}
	return req, true
}

// Validatable is a request type that validates and parses itself after decode.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes a JSON request body into T and runs its Validate
// step, writing the appropriate error response and returning ok=false on
// either failure.
func DecodeAndPrepare[T Validatable](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context) (T, bool) {
	req, ok := Decode[T](w, r, logger, ctx)
	if !ok {
		return req, false
	}
	if err := req.Validate(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed", "error", err)
		}
		WriteError(w, err)
		return req, false
	}
	return req, true
}
