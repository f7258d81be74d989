package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

func record(id string, at time.Time) models.StudentRecord {
	return models.StudentRecord{StudentID: id, StudentName: "n-" + id, TotalMarks: 100, MarksObtained: 50, Percentage: 50, CreatedAt: at}
}

func TestStudentRepository_ReplaceAllAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceAll(ctx, []models.StudentRecord{record("A", t0), record("B", t0)}))
	require.NoError(t, repo.ReplaceAll(ctx, []models.StudentRecord{record("C", t0.Add(time.Hour)), record("D", t0.Add(time.Hour))}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].StudentID)
	assert.Equal(t, "D", list[1].StudentID)
}

func TestStudentRepository_ReplaceAllRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	now := time.Now()

	require.NoError(t, repo.ReplaceAll(ctx, []models.StudentRecord{record("A", now)}))
	err := repo.ReplaceAll(ctx, []models.StudentRecord{record("X", now), record("X", now)})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateStudentID)
}

func TestStudentRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository()
	now := time.Now()
	require.NoError(t, repo.ReplaceAll(ctx, []models.StudentRecord{record("A", now), record("B", now), record("C", now)}))

	updated, err := repo.Update(ctx, "B", models.StudentUpdate{StudentName: "Bee", TotalMarks: 80, MarksObtained: 60, Percentage: 75})
	require.NoError(t, err)
	assert.Equal(t, "Bee", updated.StudentName)
	assert.Equal(t, 75.0, updated.Percentage)
	assert.Equal(t, now, updated.CreatedAt)

	_, err = repo.Update(ctx, "Z", models.StudentUpdate{StudentName: "x", TotalMarks: 1})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	require.NoError(t, repo.Delete(ctx, "A"))
	assert.ErrorIs(t, repo.Delete(ctx, "A"), apperrors.ErrStudentNotFound)

	// index must still resolve the shifted records
	updated, err = repo.Update(ctx, "C", models.StudentUpdate{StudentName: "Cee", TotalMarks: 10, MarksObtained: 5, Percentage: 50})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.StudentID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bee", list[0].StudentName)
	assert.Equal(t, "Cee", list[1].StudentName)
}

func TestUploadHistoryRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadHistoryRepository()
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Append(ctx, &models.UploadHistoryEntry{
			ID:            fmt.Sprintf("id-%d", i),
			Filename:      fmt.Sprintf("f%d.csv", i),
			StudentsCount: i,
			UploadedAt:    t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	assert.Equal(t, "f11.csv", entries[0].Filename)
	assert.Equal(t, "f2.csv", entries[9].Filename)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].UploadedAt.After(entries[i].UploadedAt))
	}
}
