package dto

import (
	"time"

	"github.com/yigit/gradesheet/internal/app/models"
)

// UploadResponse is returned by a successful upload
type UploadResponse struct {
	Message       string `json:"message" example:"File uploaded and processed successfully"`
	StudentsCount int    `json:"studentsCount" example:"42"`
	Filename      string `json:"filename" example:"grades.xlsx"`
}

// UploadHistoryResponse is one entry of the upload log
type UploadHistoryResponse struct {
	ID            string    `json:"id" example:"7f3c0c9e-4d0e-4b9a-9a59-6f1f2d3b4c5d"`
	Filename      string    `json:"filename" example:"grades.xlsx"`
	StudentsCount int       `json:"students_count" example:"42"`
	StoredAs      string    `json:"stored_as,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// NewUploadHistoryResponses converts history entries, keeping their order. The result is never nil.
func NewUploadHistoryResponses(entries []models.UploadHistoryEntry) []UploadHistoryResponse {
	out := make([]UploadHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, UploadHistoryResponse{
			ID:            e.ID,
			Filename:      e.Filename,
			StudentsCount: e.StudentsCount,
			StoredAs:      e.StoredAs,
			UploadedAt:    e.UploadedAt,
		})
	}
	return out
}
