package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: template, application, or reference record does not exist
// - ErrUnavailable: template exists but its publication status forbids use
// - ErrConflict: write collided with an existing record
// - ErrInvalidState: entity in wrong state for requested operation
//
// Answer validation failures are not errors at all; they travel as
// form/models.ValidationError lists returned to the caller.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
