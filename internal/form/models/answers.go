package models

import (
	"encoding/json"

	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// ActorRole is the resolved role of the actor driving a pipeline call.
type ActorRole string

const (
	RoleApplicant ActorRole = "APPLICANT"
	RoleCertifier ActorRole = "CERTIFIER"
	// RoleAdmin bypasses scope filtering entirely.
	RoleAdmin ActorRole = "ADMIN"
)

func (r ActorRole) Valid() bool {
	return r == RoleApplicant || r == RoleCertifier || r == RoleAdmin
}

// ParseActorRole validates a role literal from the auth layer.
func ParseActorRole(s string) (ActorRole, error) {
	r := ActorRole(s)
	if !r.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown actor role %q", s)
	}
	return r, nil
}

// ResponseItem is one submitted answer. Answer carries the raw submitted text;
// multi-select answers are a JSON array literal. PageOccurrence is 0-based and
// only meaningful on repeatable pages.
type ResponseItem struct {
	QuestionID     id.QuestionID
	PageNumber     int
	PageOccurrence int
	Answer         string
}

// IsEmpty reports whether the answer counts as absent. The empty JSON array
// literal is how an emptied multi-select is stored, so it counts too.
func (r ResponseItem) IsEmpty() bool {
	return r.Answer == "" || r.Answer == "[]"
}

// MultiSelectValues parses the answer as a JSON string array.
func (r ResponseItem) MultiSelectValues() ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(r.Answer), &values); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "answer is not a JSON string array")
	}
	return values, nil
}

// Consignment is one certificate instance within a multi-certificate
// application. It owns the answers to CERTIFICATE_LEVEL questions.
type Consignment struct {
	ID    id.ConsignmentID
	Items []ResponseItem
}

// ValidationMode selects how strictly answers are judged.
type ValidationMode string

const (
	// ModePartial runs on every incremental save: absence only fails questions
	// that carry an explicit REQUIRED constraint.
	ModePartial ValidationMode = "PARTIAL"
	// ModeComplete runs before submission: every visible question must be
	// answered and consignment-count bounds are enforced.
	ModeComplete ValidationMode = "COMPLETE"
)

// ValidationError is one validation failure. Produced by the validator,
// returned to the caller for display, never persisted.
type ValidationError struct {
	QuestionID id.QuestionID
	Constraint ConstraintType
	Message    string
}

// AnswersMappedToFields is the mapper output: a flat document-field-name to
// display-value map together with the template files relevant to rendering
// (passed through from the template definition, not computed here).
type AnswersMappedToFields struct {
	Fields        map[string]string
	TemplateFiles []string
}
