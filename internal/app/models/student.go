package models

import "time"

// StudentRecord is one normalized row of an uploaded grade sheet.
// Percentage is always derived from TotalMarks and MarksObtained at write time.
type StudentRecord struct {
	StudentID     string    `json:"student_id" db:"student_id" bson:"student_id" example:"S501"`
	StudentName   string    `json:"student_name" db:"student_name" bson:"student_name" example:"Quinn Flores"`
	TotalMarks    float64   `json:"total_marks" db:"total_marks" bson:"total_marks" example:"100"`
	MarksObtained float64   `json:"marks_obtained" db:"marks_obtained" bson:"marks_obtained" example:"100"`
	Percentage    float64   `json:"percentage" db:"percentage" bson:"percentage" example:"100"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}

// StudentUpdate carries the mutable fields of a StudentRecord.
type StudentUpdate struct {
	StudentName   string
	TotalMarks    float64
	MarksObtained float64
	Percentage    float64
}
