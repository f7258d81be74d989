package models

import "time"

// UploadHistoryEntry records one successful upload. Entries are append-only.
type UploadHistoryEntry struct {
	ID            string    `json:"id" db:"id" bson:"_id"`
	Filename      string    `json:"filename" db:"filename" bson:"filename" example:"grades.xlsx"`
	StudentsCount int       `json:"students_count" db:"students_count" bson:"students_count" example:"42"`
	StoredAs      string    `json:"stored_as,omitempty" db:"stored_as" bson:"stored_as,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at" db:"uploaded_at" bson:"uploaded_at"`
}

// UploadResult is returned by a successful ingestion run.
type UploadResult struct {
	StudentsCount int
	Filename      string
}
