// Package memory keeps students and upload history in process memory.
// It backs the "memory" storage driver and doubles as the store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

// StudentRepository is a mutex guarded student table
type StudentRepository struct {
	mu       sync.RWMutex
	students []models.StudentRecord
	index    map[string]int
}

// NewStudentRepository creates an empty StudentRepository
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{index: map[string]int{}}
}

// ReplaceAll clears the table then inserts records. Like the mongo backend it
// does not restore the previous set when an insert fails.
func (r *StudentRepository) ReplaceAll(_ context.Context, records []models.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students = nil
	r.index = make(map[string]int, len(records))

	for _, rec := range records {
		if _, exists := r.index[rec.StudentID]; exists {
			return fmt.Errorf("%w: student_id %q already stored", apperrors.ErrDuplicateStudentID, rec.StudentID)
		}
		r.index[rec.StudentID] = len(r.students)
		r.students = append(r.students, rec)
	}
	return nil
}

// List returns a copy of all students, newest first, stable within a batch
func (r *StudentRepository) List(_ context.Context) ([]models.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.StudentRecord, len(r.students))
	copy(out, r.students)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update overwrites the mutable fields of one student
func (r *StudentRepository) Update(_ context.Context, studentID string, update models.StudentUpdate) (*models.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}

	s := &r.students[i]
	s.StudentName = update.StudentName
	s.TotalMarks = update.TotalMarks
	s.MarksObtained = update.MarksObtained
	s.Percentage = update.Percentage

	out := *s
	return &out, nil
}

// Delete removes one student
func (r *StudentRepository) Delete(_ context.Context, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}

	r.students = append(r.students[:i], r.students[i+1:]...)
	delete(r.index, studentID)
	for j := i; j < len(r.students); j++ {
		r.index[r.students[j].StudentID] = j
	}
	return nil
}

// UploadHistoryRepository is an append-only in-memory log
type UploadHistoryRepository struct {
	mu      sync.RWMutex
	entries []models.UploadHistoryEntry
}

// NewUploadHistoryRepository creates an empty UploadHistoryRepository
func NewUploadHistoryRepository() *UploadHistoryRepository {
	return &UploadHistoryRepository{}
}

// Append records one entry
func (r *UploadHistoryRepository) Append(_ context.Context, entry *models.UploadHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *entry)
	return nil
}

// ListRecent returns at most limit entries ordered by uploaded_at descending
func (r *UploadHistoryRepository) ListRecent(_ context.Context, limit int) ([]models.UploadHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.UploadHistoryEntry, len(r.entries))
	copy(out, r.entries)
	// Reverse first so equal timestamps list the later append first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Ping always succeeds
func Ping(context.Context) error { return nil }
