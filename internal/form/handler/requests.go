package handler

import (
	"strings"

	"certform/internal/form/models"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// TemplateRefRequest names one template version in a request body.
type TemplateRefRequest struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func (r TemplateRefRequest) toRef(family models.TemplateFamily) (models.TemplateRef, error) {
	ref := models.TemplateRef{
		Family:  family,
		Name:    strings.TrimSpace(r.Name),
		Version: r.Version,
	}
	if err := ref.Validate(); err != nil {
		return models.TemplateRef{}, err
	}
	return ref, nil
}

// CreateApplicationRequest is the body for POST /applications.
type CreateApplicationRequest struct {
	ApplicationTemplate TemplateRefRequest `json:"application_template"`
	CertificateTemplate TemplateRefRequest `json:"certificate_template"`

	parsedAppRef  models.TemplateRef
	parsedCertRef models.TemplateRef
}

// Validate validates and parses the request.
func (r *CreateApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	appRef, err := r.ApplicationTemplate.toRef(models.FamilyApplication)
	if err != nil {
		return err
	}
	certRef, err := r.CertificateTemplate.toRef(models.FamilyCertificate)
	if err != nil {
		return err
	}
	r.parsedAppRef = appRef
	r.parsedCertRef = certRef
	return nil
}

func (r *CreateApplicationRequest) ParsedRefs() (models.TemplateRef, models.TemplateRef) {
	return r.parsedAppRef, r.parsedCertRef
}

// AnswerItemRequest is one submitted answer.
type AnswerItemRequest struct {
	QuestionID     string `json:"question_id"`
	PageNumber     int    `json:"page_number"`
	PageOccurrence int    `json:"page_occurrence"`
	Answer         string `json:"answer"`
}

// SaveAnswersRequest is the body for PUT /applications/{id}/answers.
type SaveAnswersRequest struct {
	ConsignmentID string              `json:"consignment_id,omitempty"`
	Items         []AnswerItemRequest `json:"items"`

	parsedConsignmentID *id.ConsignmentID
	parsedItems         []models.ResponseItem
}

// Validate validates and parses the request.
func (r *SaveAnswersRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items is required")
	}
	if r.ConsignmentID != "" {
		parsed, err := id.ParseConsignmentID(r.ConsignmentID)
		if err != nil {
			return err
		}
		r.parsedConsignmentID = &parsed
	}
	r.parsedItems = make([]models.ResponseItem, 0, len(r.Items))
	for _, item := range r.Items {
		questionID := strings.TrimSpace(item.QuestionID)
		if questionID == "" {
			return dErrors.New(dErrors.CodeValidation, "items[].question_id is required")
		}
		if item.PageNumber < 1 {
			return dErrors.New(dErrors.CodeValidation, "items[].page_number must be positive")
		}
		if item.PageOccurrence < 0 {
			return dErrors.New(dErrors.CodeValidation, "items[].page_occurrence cannot be negative")
		}
		r.parsedItems = append(r.parsedItems, models.ResponseItem{
			QuestionID:     id.QuestionID(questionID),
			PageNumber:     item.PageNumber,
			PageOccurrence: item.PageOccurrence,
			Answer:         item.Answer,
		})
	}
	return nil
}

func (r *SaveAnswersRequest) ParsedConsignmentID() *id.ConsignmentID {
	return r.parsedConsignmentID
}

func (r *SaveAnswersRequest) ParsedItems() []models.ResponseItem {
	return r.parsedItems
}
