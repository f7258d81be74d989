package dto

import (
	"time"

	"github.com/yigit/gradesheet/internal/app/models"
)

// UpdateStudentRequest is the body of an update call. Percentage is always recomputed server-side.
type UpdateStudentRequest struct {
	StudentName   string   `json:"student_name" binding:"required" example:"Quinn Flores"`
	TotalMarks    *float64 `json:"total_marks" binding:"required,gt=0" example:"80"`
	MarksObtained *float64 `json:"marks_obtained" binding:"required,gte=0" example:"60"`
}

// StudentResponse is a stored student as returned to the dashboard
type StudentResponse struct {
	StudentID     string    `json:"student_id" example:"S501"`
	StudentName   string    `json:"student_name" example:"Quinn Flores"`
	TotalMarks    float64   `json:"total_marks" example:"100"`
	MarksObtained float64   `json:"marks_obtained" example:"100"`
	Percentage    float64   `json:"percentage" example:"100"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewStudentResponse converts a StudentRecord to its response form
func NewStudentResponse(s *models.StudentRecord) StudentResponse {
	return StudentResponse{
		StudentID:     s.StudentID,
		StudentName:   s.StudentName,
		TotalMarks:    s.TotalMarks,
		MarksObtained: s.MarksObtained,
		Percentage:    s.Percentage,
		CreatedAt:     s.CreatedAt,
	}
}

// NewStudentResponses converts a listing, keeping its order. The result is never nil.
func NewStudentResponses(students []models.StudentRecord) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, NewStudentResponse(&students[i]))
	}
	return out
}

// StatsResponse aggregates the current student set
type StatsResponse struct {
	TotalStudents     int              `json:"totalStudents" example:"42"`
	AveragePercentage float64          `json:"averagePercentage" example:"71.25"`
	PassCount         int              `json:"passCount" example:"35"`
	FailCount         int              `json:"failCount" example:"7"`
	PassPercentage    float64          `json:"passPercentage" example:"83.33"`
	TopPerformer      *StudentResponse `json:"topPerformer"`
}

// NewStatsResponse converts ClassStats to its response form
func NewStatsResponse(stats *models.ClassStats) StatsResponse {
	resp := StatsResponse{
		TotalStudents:     stats.TotalStudents,
		AveragePercentage: stats.AveragePercentage,
		PassCount:         stats.PassCount,
		FailCount:         stats.FailCount,
		PassPercentage:    stats.PassPercentage,
	}
	if stats.TopPerformer != nil {
		top := NewStudentResponse(stats.TopPerformer)
		resp.TopPerformer = &top
	}
	return resp
}
