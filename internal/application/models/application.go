package models

import (
	"time"

	form "certform/internal/form/models"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// Status is an application's lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusIssued    Status = "ISSUED"
	StatusRejected  Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusIssued, StatusRejected:
		return true
	}
	return false
}

// Application is the aggregate for one export-certificate application.
//
// Invariants:
//   - ApplicationRef and CertificateRef are valid template references and
//     immutable after construction
//   - SubmittedAt is nil iff Status == DRAFT
//   - Items holds application-level answers; consignment-specific answers live
//     on the owning Consignment
type Application struct {
	ID             id.ApplicationID
	Applicant      string
	ApplicationRef form.TemplateRef
	CertificateRef form.TemplateRef
	Status         Status
	SubmittedAt    *time.Time
	Items          []form.ResponseItem
	Consignments   []form.Consignment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New constructs a draft Application.
func New(appID id.ApplicationID, applicant string, applicationRef, certificateRef form.TemplateRef, now time.Time) (*Application, error) {
	if appID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application id cannot be nil")
	}
	if applicant == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant cannot be empty")
	}
	if err := applicationRef.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "application template ref")
	}
	if err := certificateRef.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "certificate template ref")
	}
	return &Application{
		ID:             appID,
		Applicant:      applicant,
		ApplicationRef: applicationRef,
		CertificateRef: certificateRef,
		Status:         StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Clone deep-copies the aggregate. Stores hand out clones so a caller
// mutating its copy never aliases persisted state.
func (a *Application) Clone() *Application {
	out := *a
	if a.SubmittedAt != nil {
		submittedAt := *a.SubmittedAt
		out.SubmittedAt = &submittedAt
	}
	if a.Items != nil {
		out.Items = append([]form.ResponseItem(nil), a.Items...)
	}
	if a.Consignments != nil {
		out.Consignments = make([]form.Consignment, len(a.Consignments))
		for i, c := range a.Consignments {
			if c.Items != nil {
				c.Items = append([]form.ResponseItem(nil), c.Items...)
			}
			out.Consignments[i] = c
		}
	}
	return &out
}

// IsSubmitted reports whether the application has left draft state.
func (a *Application) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// ReferenceTime returns the instant date-boundary validation measures against:
// the submission time once submitted, otherwise the supplied now. Re-validating
// a submitted, still-editable application must not drift as real time passes.
func (a *Application) ReferenceTime(now time.Time) time.Time {
	if a.SubmittedAt != nil {
		return *a.SubmittedAt
	}
	return now
}

// Submit transitions the application to SUBMITTED, freezing the submission
// instant. Validation is the pipeline's job; this only records the transition.
func (a *Application) Submit(now time.Time) error {
	if a.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot submit application in status %s", a.Status)
	}
	a.Status = StatusSubmitted
	a.SubmittedAt = &now
	a.UpdatedAt = now
	return nil
}

// MergeItems applies submitted answers to an item list using replace-by-key
// semantics: an incoming item replaces the stored item with the same
// (question, page, occurrence) key, and is appended otherwise.
func MergeItems(stored []form.ResponseItem, incoming []form.ResponseItem) []form.ResponseItem {
	merged := make([]form.ResponseItem, len(stored))
	copy(merged, stored)

	for _, item := range incoming {
		replaced := false
		for i, existing := range merged {
			if existing.QuestionID == item.QuestionID &&
				existing.PageNumber == item.PageNumber &&
				existing.PageOccurrence == item.PageOccurrence {
				merged[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, item)
		}
	}
	return merged
}

// Consignment returns the named consignment.
func (a *Application) Consignment(consignmentID id.ConsignmentID) (*form.Consignment, bool) {
	for i := range a.Consignments {
		if a.Consignments[i].ID == consignmentID {
			return &a.Consignments[i], true
		}
	}
	return nil, false
}
