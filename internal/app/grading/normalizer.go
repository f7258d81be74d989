// Package grading holds the pure row-level rules applied to uploaded grade sheets:
// header alias resolution, marks validation and percentage calculation.
package grading

import (
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

// Canonical field names.
const (
	FieldStudentID     = "student_id"
	FieldStudentName   = "student_name"
	FieldTotalMarks    = "total_marks"
	FieldMarksObtained = "marks_obtained"
)

// Alias lists the headers accepted for one canonical field, in priority order.
type Alias struct {
	Field   string
	Headers []string
}

// AliasTable is the ordered set of canonical fields and their accepted headers.
type AliasTable []Alias

// DefaultAliases is the header table used for uploads. Matching is case-sensitive.
var DefaultAliases = AliasTable{
	{Field: FieldStudentID, Headers: []string{"Student_ID", "student_id", "StudentID", "ID"}},
	{Field: FieldStudentName, Headers: []string{"Student_Name", "student_name", "StudentName", "Name"}},
	{Field: FieldTotalMarks, Headers: []string{"Total_Marks", "total_marks", "TotalMarks", "MaxMarks"}},
	{Field: FieldMarksObtained, Headers: []string{"Marks_Obtained", "marks_obtained", "MarksObtained", "ObtainedMarks"}},
}

// NormalizedRow is a raw row reduced to the canonical fields. Values are still unparsed.
type NormalizedRow struct {
	StudentID     string
	StudentName   string
	TotalMarks    string
	MarksObtained string
}

// Resolve returns the value of the first header of alias present in row.
func (a Alias) Resolve(row map[string]string) (string, bool) {
	for _, header := range a.Headers {
		if value, ok := row[header]; ok && value != "" {
			return value, true
		}
	}
	return "", false
}

// Normalize maps a raw row onto the canonical fields. position is the 1-based row
// number reported in errors.
func (t AliasTable) Normalize(row map[string]string, position int) (NormalizedRow, error) {
	values := make(map[string]string, len(t))
	for _, alias := range t {
		value, ok := alias.Resolve(row)
		if !ok {
			return NormalizedRow{}, apperrors.NewMissingFieldError(position, alias.Field)
		}
		values[alias.Field] = value
	}

	return NormalizedRow{
		StudentID:     values[FieldStudentID],
		StudentName:   values[FieldStudentName],
		TotalMarks:    values[FieldTotalMarks],
		MarksObtained: values[FieldMarksObtained],
	}, nil
}
