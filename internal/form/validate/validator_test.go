package validate

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"certform/internal/form/models"
	id "certform/pkg/domain"
	"certform/pkg/testutil"
)

// =============================================================================
// Validator Test Suite
// =============================================================================
// Justification for unit tests: the validator is the gate between saved
// answers and certificate issue. Tests verify every constraint evaluator's
// pass/fail boundary, absence handling in both modes, select option
// enforcement, and failure accumulation.

type ValidatorSuite struct {
	suite.Suite
	validator *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.validator = New()
}

func constrainedQuestion(qid string, qType models.QuestionType, constraints ...models.AnswerConstraint) models.MergedFormQuestion {
	return models.MergedFormQuestion{
		FormQuestion: models.FormQuestion{
			ID:          id.QuestionID(qid),
			Type:        qType,
			Scope:       models.ScopeBoth,
			Constraints: constraints,
		},
		PageNumber: 1,
	}
}

func pageOf(questions ...models.MergedFormQuestion) []models.MergedFormPage {
	return []models.MergedFormPage{{
		PageNumber:  1,
		Type:        models.PageSingular,
		Occurrences: 1,
		Questions:   questions,
	}}
}

func answer(qid, value string) models.ResponseItem {
	return models.ResponseItem{QuestionID: id.QuestionID(qid), PageNumber: 1, Answer: value}
}

// checkConstraint runs one constraint against one answer in PARTIAL mode and
// reports whether it passed.
func (s *ValidatorSuite) checkConstraint(c models.AnswerConstraint, qType models.QuestionType, value string) bool {
	pages := pageOf(constrainedQuestion("q", qType, c))
	errs := s.validator.Validate(pages, []models.ResponseItem{answer("q", value)}, models.ModePartial, testutil.FixedNow())
	return len(errs) == 0
}

// =============================================================================
// Constraint Evaluators
// =============================================================================

func (s *ValidatorSuite) TestRequired() {
	c := models.AnswerConstraint{Type: models.ConstraintRequired, Message: "Enter the exporter name"}

	s.Run("passes on non-empty answer", func() {
		s.True(s.checkConstraint(c, models.QuestionText, "Acme Exports"))
	})
	s.Run("fails on empty answer", func() {
		s.False(s.checkConstraint(c, models.QuestionText, ""))
	})
	s.Run("fails on empty multi-select literal", func() {
		s.False(s.checkConstraint(c, models.QuestionText, "[]"))
	})
	s.Run("fails once on an emptied answer", func() {
		pages := pageOf(constrainedQuestion("q", models.QuestionText, c))
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("q", "")}, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 1)
		s.Equal("Enter the exporter name", errs[0].Message)
	})
	s.Run("fails on absent answer in partial mode", func() {
		pages := pageOf(constrainedQuestion("q", models.QuestionText, c))
		errs := s.validator.Validate(pages, nil, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 1)
		s.Equal(models.ConstraintRequired, errs[0].Constraint)
		s.Equal("Enter the exporter name", errs[0].Message)
	})
}

func (s *ValidatorSuite) TestSizeBounds() {
	minSize := models.AnswerConstraint{Type: models.ConstraintMinSize, Rule: "3", Message: "too short"}
	maxSize := models.AnswerConstraint{Type: models.ConstraintMaxSize, Rule: "5", Message: "too long"}

	s.Run("min size passes at the bound", func() {
		s.True(s.checkConstraint(minSize, models.QuestionText, "abc"))
	})
	s.Run("min size fails under the bound", func() {
		s.False(s.checkConstraint(minSize, models.QuestionText, "ab"))
	})
	s.Run("min size passes on empty", func() {
		s.True(s.checkConstraint(minSize, models.QuestionText, ""))
	})
	s.Run("max size passes at the bound", func() {
		s.True(s.checkConstraint(maxSize, models.QuestionText, "abcde"))
	})
	s.Run("max size fails over the bound", func() {
		s.False(s.checkConstraint(maxSize, models.QuestionText, "abcdef"))
	})
	s.Run("max size passes on empty", func() {
		s.True(s.checkConstraint(maxSize, models.QuestionText, ""))
	})
}

func (s *ValidatorSuite) TestWholeNumber() {
	c := models.AnswerConstraint{Type: models.ConstraintWholeNumber, Message: "whole numbers only"}

	s.True(s.checkConstraint(c, models.QuestionNumber, "42"))
	s.True(s.checkConstraint(c, models.QuestionNumber, ""))
	s.False(s.checkConstraint(c, models.QuestionNumber, "4.2"))
	s.False(s.checkConstraint(c, models.QuestionNumber, "-4"))
	s.False(s.checkConstraint(c, models.QuestionNumber, "4a"))
}

func (s *ValidatorSuite) TestDecimalNumber() {
	c := models.AnswerConstraint{Type: models.ConstraintDecimalNumber, Message: "decimal numbers only"}

	s.True(s.checkConstraint(c, models.QuestionNumber, "4.25"))
	s.True(s.checkConstraint(c, models.QuestionNumber, "4"))
	s.True(s.checkConstraint(c, models.QuestionNumber, ""))
	s.False(s.checkConstraint(c, models.QuestionNumber, "-4.25"))
	s.False(s.checkConstraint(c, models.QuestionNumber, "4.2.5"))
}

func (s *ValidatorSuite) TestDecimalNumberUptoSixDecimals() {
	c := models.AnswerConstraint{Type: models.ConstraintDecimalNumberSixDP, Message: "at most six decimals"}

	s.True(s.checkConstraint(c, models.QuestionNumber, "0.123456"))
	s.False(s.checkConstraint(c, models.QuestionNumber, "0.1234567"))
}

func (s *ValidatorSuite) TestValueBounds() {
	minValue := models.AnswerConstraint{Type: models.ConstraintMinValue, Rule: "10", Message: "too small"}
	maxValue := models.AnswerConstraint{Type: models.ConstraintMaxValue, Rule: "100", Message: "too big"}

	s.Run("min value inclusive", func() {
		s.True(s.checkConstraint(minValue, models.QuestionNumber, "10"))
		s.False(s.checkConstraint(minValue, models.QuestionNumber, "9.5"))
	})
	s.Run("max value inclusive", func() {
		s.True(s.checkConstraint(maxValue, models.QuestionNumber, "100"))
		s.False(s.checkConstraint(maxValue, models.QuestionNumber, "100.5"))
	})
	s.Run("empty passes", func() {
		s.True(s.checkConstraint(minValue, models.QuestionNumber, ""))
	})
	s.Run("non-numeric answer fails both the value bound and the format constraint", func() {
		whole := models.AnswerConstraint{Type: models.ConstraintWholeNumber, Message: "whole numbers only"}
		pages := pageOf(constrainedQuestion("q", models.QuestionNumber, whole, minValue))
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("q", "plenty")}, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 2)
		s.Equal(models.ConstraintWholeNumber, errs[0].Constraint)
		s.Equal(models.ConstraintMinValue, errs[1].Constraint)
	})
}

func (s *ValidatorSuite) TestDate() {
	c := models.AnswerConstraint{Type: models.ConstraintDate, Message: "enter a real date"}

	s.True(s.checkConstraint(c, models.QuestionDate, "2024-03-15"))
	s.True(s.checkConstraint(c, models.QuestionDate, ""))
	s.False(s.checkConstraint(c, models.QuestionDate, "15/03/2024"))
	s.False(s.checkConstraint(c, models.QuestionDate, "2024-02-31"))
}

func (s *ValidatorSuite) TestDateBoundaries() {
	// FixedNow is 2024-03-15.
	lower := models.AnswerConstraint{Type: models.ConstraintLowerDateBoundary, Rule: "-7", Message: "too far in the past"}
	upper := models.AnswerConstraint{Type: models.ConstraintUpperDateBoundary, Rule: "30", Message: "too far in the future"}

	s.Run("lower boundary is inclusive", func() {
		s.True(s.checkConstraint(lower, models.QuestionDate, "2024-03-08"))
		s.False(s.checkConstraint(lower, models.QuestionDate, "2024-03-07"))
	})
	s.Run("upper boundary is inclusive", func() {
		s.True(s.checkConstraint(upper, models.QuestionDate, "2024-04-14"))
		s.False(s.checkConstraint(upper, models.QuestionDate, "2024-04-15"))
	})
	s.Run("empty and unparseable answers pass", func() {
		s.True(s.checkConstraint(lower, models.QuestionDate, ""))
		s.True(s.checkConstraint(lower, models.QuestionDate, "not-a-date"))
	})
}

func (s *ValidatorSuite) TestMaxCarriageReturn() {
	c := models.AnswerConstraint{Type: models.ConstraintMaxCarriageReturn, Rule: "2", Message: "too many lines"}

	s.True(s.checkConstraint(c, models.QuestionTextarea, "one\ntwo\nthree"))
	s.False(s.checkConstraint(c, models.QuestionTextarea, "one\ntwo\nthree\nfour"))
	s.Run("crlf counts as one break", func() {
		s.True(s.checkConstraint(c, models.QuestionTextarea, "one\r\ntwo\r\nthree"))
	})
}

// =============================================================================
// Select Option Enforcement
// =============================================================================

func selectQuestion(qid string, qType models.QuestionType, options ...string) models.MergedFormQuestion {
	q := constrainedQuestion(qid, qType)
	for i, text := range options {
		q.Options = append(q.Options, models.QuestionOption{Text: text, Order: i + 1})
	}
	return q
}

func (s *ValidatorSuite) TestSingleSelect() {
	pages := pageOf(selectQuestion("colour", models.QuestionSingleSelect, "Red", "Blue"))

	s.Run("configured option passes", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colour", "Blue")}, models.ModePartial, testutil.FixedNow())
		s.Empty(errs)
	})
	s.Run("unconfigured option fails with the fixed message", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colour", "Green")}, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 1)
		s.Equal(models.ConstraintSingleSelectValue, errs[0].Constraint)
		s.Equal("select one from the options available", errs[0].Message)
	})
	s.Run("option match is case sensitive", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colour", "blue")}, models.ModePartial, testutil.FixedNow())
		s.Len(errs, 1)
	})
}

func (s *ValidatorSuite) TestMultiSelect() {
	pages := pageOf(selectQuestion("colours", models.QuestionMultiSelect, "Red", "Blue", "Green"))

	s.Run("subset of options passes", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colours", `["Red","Green"]`)}, models.ModePartial, testutil.FixedNow())
		s.Empty(errs)
	})
	s.Run("value outside the options fails", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colours", `["Red","Purple"]`)}, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 1)
		s.Equal(models.ConstraintMultiSelectValue, errs[0].Constraint)
		s.Equal("select one or more from the options available", errs[0].Message)
	})
	s.Run("malformed JSON is a validation failure", func() {
		errs := s.validator.Validate(pages, []models.ResponseItem{answer("colours", "Red,Green")}, models.ModePartial, testutil.FixedNow())
		s.Require().Len(errs, 1)
		s.Equal(models.ConstraintMultiSelectValue, errs[0].Constraint)
	})
}

// =============================================================================
// Modes
// =============================================================================

func (s *ValidatorSuite) TestPartialModeIgnoresAbsenceWithoutRequired() {
	pages := pageOf(constrainedQuestion("optional", models.QuestionText,
		models.AnswerConstraint{Type: models.ConstraintMaxSize, Rule: "10", Message: "too long"}))

	errs := s.validator.Validate(pages, nil, models.ModePartial, testutil.FixedNow())
	s.Empty(errs)
}

func (s *ValidatorSuite) TestCompleteModeRequiresEveryAnswer() {
	pages := pageOf(
		constrainedQuestion("authored", models.QuestionText,
			models.AnswerConstraint{Type: models.ConstraintRequired, Message: "Enter the exporter name"}),
		constrainedQuestion("bare", models.QuestionText),
	)

	errs := s.validator.Validate(pages, nil, models.ModeComplete, testutil.FixedNow())
	s.Require().Len(errs, 2)
	s.Equal("Enter the exporter name", errs[0].Message)
	s.Equal("You need to answer this question", errs[1].Message)
}

func (s *ValidatorSuite) TestFailuresAccumulateAcrossQuestions() {
	pages := pageOf(
		constrainedQuestion("quantity", models.QuestionNumber,
			models.AnswerConstraint{Type: models.ConstraintWholeNumber, Message: "whole numbers only"}),
		constrainedQuestion("weight", models.QuestionNumber,
			models.AnswerConstraint{Type: models.ConstraintMaxValue, Rule: "10", Message: "too big"}),
	)
	items := []models.ResponseItem{answer("quantity", "1.5"), answer("weight", "11")}

	errs := s.validator.Validate(pages, items, models.ModePartial, testutil.FixedNow())
	s.Len(errs, 2)
}
