package models

// ClassStats aggregates the current student set.
type ClassStats struct {
	TotalStudents     int
	AveragePercentage float64
	PassCount         int
	FailCount         int
	PassPercentage    float64
	TopPerformer      *StudentRecord
}
