package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"certform/internal/form/models"
)

// evaluator judges one authored constraint against a non-absent answer.
// Returns true when the answer satisfies the constraint. Absence handling
// (null/empty/"[]") is decided by the caller; every evaluator except REQUIRED
// passes on empty input.
type evaluator func(answer, rule string, now time.Time) bool

// evaluators is the dispatch table over the closed constraint set. Adding a
// constraint type means adding a row here.
var evaluators = map[models.ConstraintType]evaluator{
	models.ConstraintRequired:           evalRequired,
	models.ConstraintMinSize:            evalMinSize,
	models.ConstraintMaxSize:            evalMaxSize,
	models.ConstraintMinValue:           evalMinValue,
	models.ConstraintMaxValue:           evalMaxValue,
	models.ConstraintWholeNumber:        evalWholeNumber,
	models.ConstraintDecimalNumber:      evalDecimalNumber,
	models.ConstraintDecimalNumberSixDP: evalDecimalNumberSixDP,
	models.ConstraintDate:               evalDate,
	models.ConstraintLowerDateBoundary:  evalLowerDateBoundary,
	models.ConstraintUpperDateBoundary:  evalUpperDateBoundary,
	models.ConstraintMaxCarriageReturn:  evalMaxCarriageReturn,
}

const answerDateLayout = "2006-01-02"

var (
	wholeNumberPattern  = regexp.MustCompile(`^[0-9]+$`)
	decimalPattern      = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	decimalSixDPPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,6})?$`)
)

func isAbsent(answer string) bool {
	return answer == "" || answer == "[]"
}

func evalRequired(answer, _ string, _ time.Time) bool {
	return !isAbsent(answer)
}

func evalMinSize(answer, rule string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	bound, err := strconv.Atoi(rule)
	if err != nil {
		return true
	}
	return utf8.RuneCountInString(answer) >= bound
}

func evalMaxSize(answer, rule string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	bound, err := strconv.Atoi(rule)
	if err != nil {
		return true
	}
	return utf8.RuneCountInString(answer) <= bound
}

func evalWholeNumber(answer, _ string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	return wholeNumberPattern.MatchString(answer)
}

func evalDecimalNumber(answer, _ string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	return decimalPattern.MatchString(answer)
}

func evalDecimalNumberSixDP(answer, _ string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	return decimalSixDPPattern.MatchString(answer)
}

// evalMinValue fails on non-numeric answers as well as undershooting ones; a
// non-numeric answer also trips its WHOLE_NUMBER/DECIMAL_NUMBER constraint,
// and both failures are reported.
func evalMinValue(answer, rule string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	bound, err := strconv.ParseFloat(rule, 64)
	if err != nil {
		return true
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return false
	}
	return value >= bound
}

func evalMaxValue(answer, rule string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	bound, err := strconv.ParseFloat(rule, 64)
	if err != nil {
		return true
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return false
	}
	return value <= bound
}

func evalDate(answer, _ string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	_, err := time.Parse(answerDateLayout, answer)
	return err == nil
}

// evalLowerDateBoundary passes when answerDate >= referenceDate + rule days,
// inclusive. Unparseable answers pass; the DATE constraint owns format
// failures.
func evalLowerDateBoundary(answer, rule string, now time.Time) bool {
	answerDate, boundary, ok := dateBoundary(answer, rule, now)
	if !ok {
		return true
	}
	return !answerDate.Before(boundary)
}

// evalUpperDateBoundary is the symmetric upper bound: answerDate <=
// referenceDate + rule days, inclusive.
func evalUpperDateBoundary(answer, rule string, now time.Time) bool {
	answerDate, boundary, ok := dateBoundary(answer, rule, now)
	if !ok {
		return true
	}
	return !answerDate.After(boundary)
}

func dateBoundary(answer, rule string, now time.Time) (answerDate, boundary time.Time, ok bool) {
	if isAbsent(answer) {
		return time.Time{}, time.Time{}, false
	}
	offset, err := strconv.Atoi(rule)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	answerDate, err = time.Parse(answerDateLayout, answer)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	reference := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return answerDate, reference.AddDate(0, 0, offset), true
}

// evalMaxCarriageReturn bounds the number of line breaks in a multi-line
// answer. A \r\n pair counts as one break.
func evalMaxCarriageReturn(answer, rule string, _ time.Time) bool {
	if isAbsent(answer) {
		return true
	}
	bound, err := strconv.Atoi(rule)
	if err != nil {
		return true
	}
	normalised := strings.ReplaceAll(answer, "\r\n", "\n")
	breaks := strings.Count(normalised, "\n") + strings.Count(normalised, "\r")
	return breaks <= bound
}
