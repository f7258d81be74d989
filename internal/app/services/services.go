package services

import (
	"context"

	"github.com/yigit/gradesheet/internal/app/models"
)

// Services defined in this package:
// - UploadService: runs the spreadsheet ingestion pipeline
// - StudentService: lists, edits and deletes stored students, and reports class stats and upload history

// StudentStore persists the student collection. Implementations live in
// repositories (PostgreSQL), repositories/mongorepo and repositories/memory.
type StudentStore interface {
	// ReplaceAll clears the collection and inserts records as one unit from the caller's view
	ReplaceAll(ctx context.Context, records []models.StudentRecord) error
	List(ctx context.Context) ([]models.StudentRecord, error)
	Update(ctx context.Context, studentID string, update models.StudentUpdate) (*models.StudentRecord, error)
	Delete(ctx context.Context, studentID string) error
}

// UploadHistoryStore persists the append-only upload log
type UploadHistoryStore interface {
	Append(ctx context.Context, entry *models.UploadHistoryEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.UploadHistoryEntry, error)
}
