package models

import (
	"time"

	form "certform/internal/form/models"
	dErrors "certform/pkg/domain-errors"
)

// Status is a template's authoring lifecycle state. Templates become
// immutable once referenced by a submitted application; that is enforced by
// the authoring tool, not re-checked here.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusPrivate  Status = "PRIVATE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPrivate, StatusInactive:
		return true
	}
	return false
}

// Availability is a certificate template's publication availability as
// declared by the issuing authority. Anything but Available forbids starting
// or merging an application against the template.
type Availability string

const (
	Available Availability = "AVAILABLE"
	OnHold    Availability = "ON_HOLD"
	Withdrawn Availability = "WITHDRAWN"
)

func (a Availability) Valid() bool {
	return a == Available || a == OnHold || a == Withdrawn
}

// Multiples is a certificate template's multi-certificate configuration.
// Present only when the template supports several certificates per
// application.
type Multiples struct {
	MaxConsignments int
}

// Template is one versioned template of either family.
type Template struct {
	Name         string
	Version      int
	Family       form.TemplateFamily
	Status       Status
	Availability Availability
	// AccessCode gates PRIVATE templates; empty otherwise.
	AccessCode string
	Pages      []form.FormPage
	// TemplateFiles are the document files rendering uses; passed through to
	// the mapper output untouched.
	TemplateFiles []string
	// Populators names the field populators rendering runs for this
	// template, in declared order.
	Populators []string
	Multiples  *Multiples
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Ref returns the reference naming this template version.
func (t *Template) Ref() form.TemplateRef {
	return form.TemplateRef{Family: t.Family, Name: t.Name, Version: t.Version}
}

// SupportsMultiples reports whether applications against this template may
// hold more than one certificate.
func (t *Template) SupportsMultiples() bool {
	return t.Multiples != nil && t.Multiples.MaxConsignments > 1
}

// New constructs a Template, enforcing authoring invariants.
func New(name string, version int, family form.TemplateFamily, status Status, now time.Time) (*Template, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template name cannot be empty")
	}
	if version < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "template version must be positive")
	}
	if family != form.FamilyCertificate && family != form.FamilyApplication {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown template family %q", family)
	}
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown template status %q", status)
	}
	return &Template{
		Name:         name,
		Version:      version,
		Family:       family,
		Status:       status,
		Availability: Available,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
