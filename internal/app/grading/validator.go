package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

// Policy holds the configurable validation rules.
type Policy struct {
	// EnforceObtainedLETotal rejects rows where marks obtained exceed total marks.
	EnforceObtainedLETotal bool
}

// ValidatedRow is a normalized row whose marks have been parsed and checked.
type ValidatedRow struct {
	StudentID   string
	StudentName string
	Total       float64
	Obtained    float64
}

// Validate applies the row rules in order and returns the first violation.
func (p Policy) Validate(row NormalizedRow, position int) (ValidatedRow, error) {
	required := []struct {
		field string
		value string
	}{
		{FieldStudentID, row.StudentID},
		{FieldStudentName, row.StudentName},
		{FieldTotalMarks, row.TotalMarks},
		{FieldMarksObtained, row.MarksObtained},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return ValidatedRow{}, apperrors.NewMissingFieldError(position, r.field)
		}
	}

	total, ok := parseMarks(row.TotalMarks)
	if !ok {
		return ValidatedRow{}, apperrors.NewInvalidRowError(position, FieldTotalMarks, row.TotalMarks, apperrors.ReasonNonNumericMarks)
	}
	obtained, ok := parseMarks(row.MarksObtained)
	if !ok {
		return ValidatedRow{}, apperrors.NewInvalidRowError(position, FieldMarksObtained, row.MarksObtained, apperrors.ReasonNonNumericMarks)
	}

	if field, reason := p.CheckMarks(total, obtained); reason != "" {
		value := row.TotalMarks
		if field == FieldMarksObtained {
			value = row.MarksObtained
		}
		return ValidatedRow{}, apperrors.NewInvalidRowError(position, field, value, reason)
	}

	return ValidatedRow{
		StudentID:   strings.TrimSpace(row.StudentID),
		StudentName: strings.TrimSpace(row.StudentName),
		Total:       total,
		Obtained:    obtained,
	}, nil
}

// CheckMarks applies the domain constraints on parsed marks. It returns the offending
// field and reason, or an empty reason when the marks are acceptable.
func (p Policy) CheckMarks(total, obtained float64) (field, reason string) {
	if !isFinite(total) {
		return FieldTotalMarks, apperrors.ReasonNonNumericMarks
	}
	if !isFinite(obtained) {
		return FieldMarksObtained, apperrors.ReasonNonNumericMarks
	}
	if total <= 0 {
		return FieldTotalMarks, apperrors.ReasonNonPositiveTotal
	}
	if obtained < 0 {
		return FieldMarksObtained, apperrors.ReasonNegativeObtained
	}
	if p.EnforceObtainedLETotal && obtained > total {
		return FieldMarksObtained, apperrors.ReasonObtainedExceeds
	}
	return "", ""
}

// parseMarks accepts plain decimal numbers only. Hex floats are rejected.
func parseMarks(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	digits := strings.TrimLeft(raw, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
