package models

import (
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// QuestionType is the closed set of question renderings a template may use.
type QuestionType string

const (
	QuestionText         QuestionType = "TEXT"
	QuestionTextarea     QuestionType = "TEXTAREA"
	QuestionNumber       QuestionType = "NUMBER"
	QuestionDate         QuestionType = "DATE"
	QuestionSingleSelect QuestionType = "SINGLE_SELECT"
	QuestionMultiSelect  QuestionType = "MULTI_SELECT"
)

var questionTypes = map[QuestionType]struct{}{
	QuestionText:         {},
	QuestionTextarea:     {},
	QuestionNumber:       {},
	QuestionDate:         {},
	QuestionSingleSelect: {},
	QuestionMultiSelect:  {},
}

func (t QuestionType) Valid() bool {
	_, ok := questionTypes[t]
	return ok
}

// IsSelect reports whether answers are constrained to configured options.
func (t QuestionType) IsSelect() bool {
	return t == QuestionSingleSelect || t == QuestionMultiSelect
}

// ParseQuestionType validates a stored type literal.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown question type %q", s)
	}
	return t, nil
}

// QuestionScope controls which actors see a question.
type QuestionScope string

const (
	ScopeApplicant QuestionScope = "APPLICANT"
	ScopeCertifier QuestionScope = "CERTIFIER"
	ScopeBoth      QuestionScope = "BOTH"
)

func (s QuestionScope) Valid() bool {
	return s == ScopeApplicant || s == ScopeCertifier || s == ScopeBoth
}

// ParseQuestionScope validates a stored scope literal.
func ParseQuestionScope(v string) (QuestionScope, error) {
	s := QuestionScope(v)
	if !s.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown question scope %q", v)
	}
	return s, nil
}

// ConstraintType is the closed set of answer constraints. The validator keys
// its dispatch table on this type; adding a constraint means adding a literal
// here and an evaluator there.
type ConstraintType string

const (
	ConstraintRequired           ConstraintType = "REQUIRED"
	ConstraintMinSize            ConstraintType = "MIN_SIZE"
	ConstraintMaxSize            ConstraintType = "MAX_SIZE"
	ConstraintMinValue           ConstraintType = "MIN_VALUE"
	ConstraintMaxValue           ConstraintType = "MAX_VALUE"
	ConstraintWholeNumber        ConstraintType = "WHOLE_NUMBER"
	ConstraintDecimalNumber      ConstraintType = "DECIMAL_NUMBER"
	ConstraintDecimalNumberSixDP ConstraintType = "DECIMAL_NUMBER_UPTO_6_DECIMALS"
	ConstraintDate               ConstraintType = "DATE"
	ConstraintLowerDateBoundary  ConstraintType = "LOWER_DATE_BOUNDARY"
	ConstraintUpperDateBoundary  ConstraintType = "UPPER_DATE_BOUNDARY"
	ConstraintMaxCarriageReturn  ConstraintType = "MAX_CARRIAGE_RETURN"

	// Pseudo-constraints reported by the validator for failures that do not
	// originate from an authored constraint row.
	ConstraintSingleSelectValue ConstraintType = "SINGLE_SELECT_VALUE"
	ConstraintMultiSelectValue  ConstraintType = "MULTI_SELECT_VALUE"
	ConstraintConsignmentCount  ConstraintType = "CONSIGNMENT_COUNT"
)

// AnswerConstraint is one authored (type, rule, message) row on a question.
// Rule is a constraint-specific literal: a size bound, a numeric bound, or a
// signed day offset for the date boundaries.
type AnswerConstraint struct {
	Type    ConstraintType
	Rule    string
	Message string
}

// TemplateField names a destination slot in the rendered certificate document.
// A question binds one field per page occurrence; fields are ordered to mirror
// page repetition (occurrence 0 writes the first field, and so on).
type TemplateField struct {
	Name string
}

// QuestionOption is one selectable option of a select-type question. Field is
// set when the option renders into its own checkbox-style document field.
type QuestionOption struct {
	Text  string
	Order int
	Field string
}

// FormQuestion is a question as authored on a template page.
type FormQuestion struct {
	ID          id.QuestionID
	Text        string
	Hint        string
	Type        QuestionType
	Scope       QuestionScope
	Order       int
	Constraints []AnswerConstraint
	Fields      []TemplateField
	Options     []QuestionOption
}

// OptionTexts returns the configured option texts in authored order.
func (q FormQuestion) OptionTexts() []string {
	texts := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		texts = append(texts, opt.Text)
	}
	return texts
}

// HasOptionFields reports whether every option carries its own document field,
// which switches select rendering to boolean-per-option mode.
func (q FormQuestion) HasOptionFields() bool {
	if len(q.Options) == 0 {
		return false
	}
	for _, opt := range q.Options {
		if opt.Field == "" {
			return false
		}
	}
	return true
}
