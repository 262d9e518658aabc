package service

import (
	"context"

	form "certform/internal/form/models"
)

// CertificateReferenceQuestionID identifies the injected question an exporter
// answers to label each certificate in a multi-certificate application.
const CertificateReferenceQuestionID = "certificateReference"

// SystemPages returns the pages the system injects between the application
// template and the certificate template. Today that is a single
// certificate-reference page, emitted only when the certificate template
// supports multiple certificates per application.
//
// Injected pages carry the reserved internal page number; the merge engine
// renumbers them into the final sequence.
func (s *Service) SystemPages(ctx context.Context, appRef, certRef form.TemplateRef) ([]form.FormPage, error) {
	certificate, err := s.Template(ctx, certRef)
	if err != nil {
		return nil, err
	}
	if !certificate.SupportsMultiples() {
		return nil, nil
	}

	return []form.FormPage{{
		Title: "Certificate reference",
		Hint:  "Give each certificate a reference so you can tell them apart",
		Order: form.SystemPageNumber,
		Questions: []form.FormQuestion{{
			ID:    CertificateReferenceQuestionID,
			Text:  "What reference do you want to give this certificate?",
			Type:  form.QuestionText,
			Scope: form.ScopeApplicant,
			Order: 1,
			Constraints: []form.AnswerConstraint{
				{Type: form.ConstraintRequired, Message: "Enter a reference for this certificate"},
				{Type: form.ConstraintMaxSize, Rule: "20", Message: "Reference must be 20 characters or fewer"},
			},
			Fields: []form.TemplateField{{Name: "certificate reference"}},
		}},
	}}, nil
}
