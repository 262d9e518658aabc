// Package mapfields flattens validated answers into the named document
// fields a certificate renderer fills in.
//
// Mapping assumes validation has already run: a malformed answer or an
// answer without a destination field is a template/data drift, reported as a
// fatal mapping inconsistency rather than skipped. Dropping data silently on
// a regulatory certificate is worse than failing the render.
package mapfields

import (
	"log/slog"
	"strings"
	"time"

	"certform/internal/form/models"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// displayDateLayout is the long form dates take on the rendered document.
const displayDateLayout = "2 January 2006"

const (
	optionTrue  = "True"
	optionFalse = "False"
)

// Mapper turns a merged form plus answers into a field-name to value map.
type Mapper struct {
	logger *slog.Logger
}

type Option func(m *Mapper)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// New constructs a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map resolves every applicable answer to its bound template field.
//
// Certificate-level questions map the named consignment's answers; common and
// application-level questions map the shared answers. With no consignment
// supplied, certificate-level questions are skipped entirely.
//
// Mapping the same inputs twice yields identical output; nothing is mutated.
func (m *Mapper) Map(form *models.MergedForm, appID id.ApplicationID, shared []models.ResponseItem, consignment *models.Consignment) (*models.AnswersMappedToFields, error) {
	questions := make(map[questionKey]models.MergedFormQuestion)
	for _, q := range models.Questions(form.Pages) {
		questions[questionKey{q.ID, q.PageNumber}] = q
	}

	fields := make(map[string]string)

	mapItems := func(items []models.ResponseItem, certificateLevel bool) error {
		for _, item := range items {
			q, ok := questions[questionKey{item.QuestionID, item.PageNumber}]
			if !ok {
				return m.inconsistency(appID, form.FormName, item.QuestionID,
					"answer does not match any question on the merged form")
			}
			if (q.Category == models.CategoryCertificateLevel) != certificateLevel {
				continue
			}
			if err := m.mapAnswer(fields, form, appID, q, item); err != nil {
				return err
			}
		}
		return nil
	}

	if err := mapItems(shared, false); err != nil {
		return nil, err
	}
	if consignment != nil {
		if err := mapItems(consignment.Items, true); err != nil {
			return nil, err
		}
	}

	return &models.AnswersMappedToFields{
		Fields:        fields,
		TemplateFiles: form.TemplateFiles,
	}, nil
}

type questionKey struct {
	questionID id.QuestionID
	pageNumber int
}

func (m *Mapper) mapAnswer(fields map[string]string, form *models.MergedForm, appID id.ApplicationID, q models.MergedFormQuestion, item models.ResponseItem) error {
	if q.Type.IsSelect() && q.HasOptionFields() {
		return m.mapOptionFields(fields, form, appID, q, item)
	}

	field, ok := q.FieldAt(item.PageOccurrence)
	if !ok {
		return m.inconsistency(appID, form.FormName, q.ID,
			"no template field bound at the answer's page occurrence")
	}

	value, err := m.displayValue(form, appID, q, item)
	if err != nil {
		return err
	}
	fields[field.Name] = value
	return nil
}

// mapOptionFields writes boolean-as-string into every option's own field,
// true only for the selected option(s).
func (m *Mapper) mapOptionFields(fields map[string]string, form *models.MergedForm, appID id.ApplicationID, q models.MergedFormQuestion, item models.ResponseItem) error {
	selected := make(map[string]bool, 1)
	switch q.Type {
	case models.QuestionSingleSelect:
		if !item.IsEmpty() {
			selected[item.Answer] = true
		}
	case models.QuestionMultiSelect:
		if !item.IsEmpty() {
			values, err := item.MultiSelectValues()
			if err != nil {
				return m.inconsistency(appID, form.FormName, q.ID,
					"multi-select answer is not a JSON string array")
			}
			for _, value := range values {
				selected[value] = true
			}
		}
	}

	for _, opt := range q.Options {
		value := optionFalse
		if selected[opt.Text] {
			value = optionTrue
		}
		fields[opt.Field] = value
	}
	return nil
}

func (m *Mapper) displayValue(form *models.MergedForm, appID id.ApplicationID, q models.MergedFormQuestion, item models.ResponseItem) (string, error) {
	switch q.Type {
	case models.QuestionDate:
		return displayDate(item.Answer), nil
	case models.QuestionMultiSelect:
		if item.IsEmpty() {
			return "", nil
		}
		values, err := item.MultiSelectValues()
		if err != nil {
			return "", m.inconsistency(appID, form.FormName, q.ID,
				"multi-select answer is not a JSON string array")
		}
		return joinSelectedOptions(q, values), nil
	default:
		return item.Answer, nil
	}
}

// displayDate reformats an ISO date for the document; unparseable input is
// passed through untouched rather than failing the render.
func displayDate(answer string) string {
	parsed, err := time.Parse("2006-01-02", answer)
	if err != nil {
		return answer
	}
	return parsed.Format(displayDateLayout)
}

// joinSelectedOptions joins the selected option texts with ", ", in authored
// option order.
func joinSelectedOptions(q models.MergedFormQuestion, values []string) string {
	selected := make(map[string]bool, len(values))
	for _, value := range values {
		selected[value] = true
	}
	var texts []string
	for _, opt := range q.Options {
		if selected[opt.Text] {
			texts = append(texts, opt.Text)
		}
	}
	return strings.Join(texts, ", ")
}

func (m *Mapper) inconsistency(appID id.ApplicationID, formName string, questionID id.QuestionID, detail string) error {
	if m.logger != nil {
		m.logger.Error("answer mapping inconsistency",
			"application_id", appID,
			"form", formName,
			"question_id", questionID,
			"detail", detail)
	}
	return dErrors.Newf(dErrors.CodeMappingInconsistency,
		"cannot map answers for application %s, form %s, question %s: %s",
		appID, formName, questionID, detail)
}
