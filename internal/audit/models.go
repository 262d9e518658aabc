package audit

import (
	"time"

	id "certform/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time
	ActorID       string
	ActorRole     string
	ApplicationID id.ApplicationID
	Form          string
	Action        string
	Detail        string
}

// Actions recorded by the pipeline and its surrounding handlers.
const (
	ActionApplicationCreated   = "application.created"
	ActionAnswersSaved         = "application.answers_saved"
	ActionConsignmentAdded     = "application.consignment_added"
	ActionConsignmentRemoved   = "application.consignment_removed"
	ActionApplicationSubmitted = "application.submitted"
	ActionValidationFailed     = "form.validation_failed"
	ActionFormRendered         = "form.rendered"
	ActionMappingInconsistency = "form.mapping_inconsistency"
)
