package handler

import (
	"sort"
	"time"

	appModels "certform/internal/application/models"
	"certform/internal/form/models"
	id "certform/pkg/domain"
)

// TemplateRefResponse names one template version in a response body.
type TemplateRefResponse struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// ApplicationResponse is the wire shape of an application.
type ApplicationResponse struct {
	ID                  string              `json:"id"`
	Applicant           string              `json:"applicant"`
	Status              string              `json:"status"`
	ApplicationTemplate TemplateRefResponse `json:"application_template"`
	CertificateTemplate TemplateRefResponse `json:"certificate_template"`
	ConsignmentIDs      []string            `json:"consignment_ids"`
	SubmittedAt         *time.Time          `json:"submitted_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// FromApplication converts a domain application into its response shape.
func FromApplication(app *appModels.Application) ApplicationResponse {
	consignmentIDs := make([]string, 0, len(app.Consignments))
	for _, c := range app.Consignments {
		consignmentIDs = append(consignmentIDs, c.ID.String())
	}
	return ApplicationResponse{
		ID:        app.ID.String(),
		Applicant: app.Applicant,
		Status:    string(app.Status),
		ApplicationTemplate: TemplateRefResponse{
			Name:    app.ApplicationRef.Name,
			Version: app.ApplicationRef.Version,
		},
		CertificateTemplate: TemplateRefResponse{
			Name:    app.CertificateRef.Name,
			Version: app.CertificateRef.Version,
		},
		ConsignmentIDs: consignmentIDs,
		SubmittedAt:    app.SubmittedAt,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}
}

// ConstraintResponse is one authored answer constraint.
type ConstraintResponse struct {
	Type    string `json:"type"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
}

// OptionResponse is one selectable option of a select question.
type OptionResponse struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuestionResponse is a merged-form question as presented to the actor.
type QuestionResponse struct {
	ID          string               `json:"id"`
	Text        string               `json:"text"`
	Hint        string               `json:"hint,omitempty"`
	Type        string               `json:"type"`
	Order       int                  `json:"order"`
	Category    string               `json:"category"`
	Constraints []ConstraintResponse `json:"constraints,omitempty"`
	Options     []OptionResponse     `json:"options,omitempty"`
}

// PageResponse is one merged-form page.
type PageResponse struct {
	PageNumber  int                `json:"page_number"`
	Type        string             `json:"type"`
	Occurrences int                `json:"occurrences"`
	Category    string             `json:"category"`
	Title       string             `json:"title,omitempty"`
	Subtitle    string             `json:"subtitle,omitempty"`
	Hint        string             `json:"hint,omitempty"`
	Questions   []QuestionResponse `json:"questions"`
}

// FormResponse is the wire shape of a merged, scope-filtered form.
type FormResponse struct {
	FormName        string         `json:"form_name"`
	MaxConsignments int            `json:"max_consignments"`
	Pages           []PageResponse `json:"pages"`
}

// FromForm converts a merged form into its response shape.
func FromForm(form *models.MergedForm) FormResponse {
	pages := make([]PageResponse, 0, len(form.Pages))
	for _, page := range form.Pages {
		questions := make([]QuestionResponse, 0, len(page.Questions))
		for _, q := range page.Questions {
			constraints := make([]ConstraintResponse, 0, len(q.Constraints))
			for _, c := range q.Constraints {
				constraints = append(constraints, ConstraintResponse{
					Type:    string(c.Type),
					Rule:    c.Rule,
					Message: c.Message,
				})
			}
			options := make([]OptionResponse, 0, len(q.Options))
			for _, opt := range q.Options {
				options = append(options, OptionResponse{Text: opt.Text, Order: opt.Order})
			}
			questions = append(questions, QuestionResponse{
				ID:          string(q.ID),
				Text:        q.Text,
				Hint:        q.Hint,
				Type:        string(q.Type),
				Order:       q.Order,
				Category:    string(q.Category),
				Constraints: constraints,
				Options:     options,
			})
		}
		pages = append(pages, PageResponse{
			PageNumber:  page.PageNumber,
			Type:        string(page.Type),
			Occurrences: page.Occurrences,
			Category:    string(page.Category),
			Title:       page.Title,
			Subtitle:    page.Subtitle,
			Hint:        page.Hint,
			Questions:   questions,
		})
	}
	return FormResponse{
		FormName:        form.FormName,
		MaxConsignments: form.MaxConsignments,
		Pages:           pages,
	}
}

// SaveAnswersResponse pairs the updated application with the partial
// validation outcome of the save.
type SaveAnswersResponse struct {
	Application ApplicationResponse `json:"application"`
	Validation  ValidationResponse  `json:"validation"`
}

// ValidationErrorResponse is one validation failure.
type ValidationErrorResponse struct {
	QuestionID string `json:"question_id,omitempty"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ValidationResponse reports the outcome of a validation run.
type ValidationResponse struct {
	Valid  bool                      `json:"valid"`
	Errors []ValidationErrorResponse `json:"errors"`
}

// FromValidationErrors converts validator output into its response shape.
func FromValidationErrors(errs []models.ValidationError) ValidationResponse {
	out := make([]ValidationErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, ValidationErrorResponse{
			QuestionID: string(e.QuestionID),
			Constraint: string(e.Constraint),
			Message:    e.Message,
		})
	}
	return ValidationResponse{Valid: len(errs) == 0, Errors: out}
}

// FieldsResponse is the wire shape of one rendered field map.
type FieldsResponse struct {
	Fields        map[string]string `json:"fields"`
	TemplateFiles []string          `json:"template_files,omitempty"`
}

// FromMappedFields converts mapper output into its response shape.
func FromMappedFields(mapped *models.AnswersMappedToFields) FieldsResponse {
	return FieldsResponse{Fields: mapped.Fields, TemplateFiles: mapped.TemplateFiles}
}

// ConsignmentFieldsResponse is the rendered field map of one consignment.
type ConsignmentFieldsResponse struct {
	ConsignmentID string         `json:"consignment_id,omitempty"`
	FieldsResponse
}

// AllFieldsResponse is the wire shape of a whole-application render.
type AllFieldsResponse struct {
	Consignments []ConsignmentFieldsResponse `json:"consignments"`
}

// FromRenderAll converts a per-consignment render into its response shape. A
// single-certificate render carries one entry without a consignment id.
func FromRenderAll(rendered map[id.ConsignmentID]*models.AnswersMappedToFields) AllFieldsResponse {
	out := make([]ConsignmentFieldsResponse, 0, len(rendered))
	for consignmentID, mapped := range rendered {
		entry := ConsignmentFieldsResponse{FieldsResponse: FromMappedFields(mapped)}
		if !consignmentID.IsNil() {
			entry.ConsignmentID = consignmentID.String()
		}
		out = append(out, entry)
	}
	sortConsignmentFields(out)
	return AllFieldsResponse{Consignments: out}
}

// Map iteration order is random; pin the response to consignment-id order so
// repeated renders serialize identically.
func sortConsignmentFields(entries []ConsignmentFieldsResponse) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ConsignmentID < entries[j].ConsignmentID
	})
}

// ConsignmentResponse is the wire shape of a newly added consignment.
type ConsignmentResponse struct {
	ConsignmentID string `json:"consignment_id"`
}
