// Package validate evaluates authored answer constraints against submitted
// answers.
//
// Validation is a pure pass over pre-fetched data: the validator owns no I/O
// and reads no clock. The reference instant for date-boundary constraints is
// passed in by the caller, frozen to the submission time for applications
// that have already been submitted.
//
// Failures accumulate; the validator never stops at the first one.
package validate

import (
	"log/slog"
	"time"

	"certform/internal/form/models"
	id "certform/pkg/domain"
)

const (
	missingAnswerMessage      = "You need to answer this question"
	singleSelectValueMessage  = "select one from the options available"
	multiSelectValueMessage   = "select one or more from the options available"
	noConsignmentsMessage     = "You need to add at least one certificate to this application"
	tooManyConsignmentsFormat = "You cannot add more than %d certificates to this application"
)

// Validator evaluates merged-form questions against response items.
type Validator struct {
	logger *slog.Logger
}

type Option func(v *Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New constructs a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate evaluates every question on the given pages against the supplied
// answers. Pages are expected to be scope-filtered already.
//
// In PARTIAL mode an unanswered question fails only its REQUIRED constraint,
// if it carries one. In COMPLETE mode every question must hold a non-empty
// answer; the authored REQUIRED message is used when present.
func (v *Validator) Validate(pages []models.MergedFormPage, items []models.ResponseItem, mode models.ValidationMode, now time.Time) []models.ValidationError {
	byQuestion := groupItems(items)

	var errs []models.ValidationError
	for _, page := range pages {
		for _, question := range page.Questions {
			errs = append(errs, v.validateQuestion(question, byQuestion[itemKeyFor(question)], mode, now)...)
		}
	}
	return errs
}

type itemKey struct {
	questionID id.QuestionID
	pageNumber int
}

func itemKeyFor(q models.MergedFormQuestion) itemKey {
	return itemKey{questionID: q.ID, pageNumber: q.PageNumber}
}

func groupItems(items []models.ResponseItem) map[itemKey][]models.ResponseItem {
	grouped := make(map[itemKey][]models.ResponseItem, len(items))
	for _, item := range items {
		key := itemKey{questionID: item.QuestionID, pageNumber: item.PageNumber}
		grouped[key] = append(grouped[key], item)
	}
	return grouped
}

func (v *Validator) validateQuestion(q models.MergedFormQuestion, items []models.ResponseItem, mode models.ValidationMode, now time.Time) []models.ValidationError {
	var errs []models.ValidationError

	answered := false
	for _, item := range items {
		if !item.IsEmpty() {
			answered = true
		}
		errs = append(errs, v.validateAnswer(q, item.Answer, now)...)
	}

	// An explicitly emptied REQUIRED answer already failed its constraint
	// above; only flag absence once.
	if !answered && !hasRequiredError(errs) {
		if missing := v.missingAnswerError(q, mode); missing != nil {
			errs = append(errs, *missing)
		}
	}
	return errs
}

// validateAnswer runs every authored constraint plus the implicit option
// check for select-type questions. All constraints are evaluated
// independently.
func (v *Validator) validateAnswer(q models.MergedFormQuestion, answer string, now time.Time) []models.ValidationError {
	var errs []models.ValidationError
	for _, constraint := range q.Constraints {
		eval, ok := evaluators[constraint.Type]
		if !ok {
			if v.logger != nil {
				v.logger.Warn("skipping unknown constraint type",
					"question", q.ID,
					"constraint", constraint.Type)
			}
			continue
		}
		if !eval(answer, constraint.Rule, now) {
			errs = append(errs, models.ValidationError{
				QuestionID: q.ID,
				Constraint: constraint.Type,
				Message:    constraint.Message,
			})
		}
	}

	if !isAbsent(answer) && q.Type.IsSelect() {
		if err := v.validateSelection(q, answer); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// validateSelection enforces that select answers match configured option
// texts, case-sensitively. The check is independent of authored constraints.
func (v *Validator) validateSelection(q models.MergedFormQuestion, answer string) *models.ValidationError {
	options := make(map[string]struct{}, len(q.Options))
	for _, text := range q.OptionTexts() {
		options[text] = struct{}{}
	}

	if q.Type == models.QuestionSingleSelect {
		if _, ok := options[answer]; !ok {
			return &models.ValidationError{
				QuestionID: q.ID,
				Constraint: models.ConstraintSingleSelectValue,
				Message:    singleSelectValueMessage,
			}
		}
		return nil
	}

	item := models.ResponseItem{Answer: answer}
	values, err := item.MultiSelectValues()
	if err != nil || len(values) == 0 {
		return &models.ValidationError{
			QuestionID: q.ID,
			Constraint: models.ConstraintMultiSelectValue,
			Message:    multiSelectValueMessage,
		}
	}
	for _, value := range values {
		if _, ok := options[value]; !ok {
			return &models.ValidationError{
				QuestionID: q.ID,
				Constraint: models.ConstraintMultiSelectValue,
				Message:    multiSelectValueMessage,
			}
		}
	}
	return nil
}

func (v *Validator) missingAnswerError(q models.MergedFormQuestion, mode models.ValidationMode) *models.ValidationError {
	required, message := requiredConstraint(q)
	switch mode {
	case models.ModePartial:
		if !required {
			return nil
		}
		return &models.ValidationError{
			QuestionID: q.ID,
			Constraint: models.ConstraintRequired,
			Message:    message,
		}
	case models.ModeComplete:
		if message == "" {
			message = missingAnswerMessage
		}
		return &models.ValidationError{
			QuestionID: q.ID,
			Constraint: models.ConstraintRequired,
			Message:    message,
		}
	}
	return nil
}

func hasRequiredError(errs []models.ValidationError) bool {
	for _, e := range errs {
		if e.Constraint == models.ConstraintRequired {
			return true
		}
	}
	return false
}

func requiredConstraint(q models.MergedFormQuestion) (bool, string) {
	for _, c := range q.Constraints {
		if c.Type == models.ConstraintRequired {
			return true, c.Message
		}
	}
	return false, ""
}
