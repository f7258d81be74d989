package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/gradesheet/internal/app/grading"
	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/app/repositories/memory"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/metrics"
)

const gradesCSV = "Student_ID,Student_Name,Total_Marks,Marks_Obtained\n" +
	"S1,Ann Lee,100,90\n" +
	"S2,Bob Ray,80,60\n"

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type uploadFixture struct {
	svc      *uploadServiceImpl
	students *memory.StudentRepository
	history  *memory.UploadHistoryRepository
}

func newUploadFixture(t *testing.T) uploadFixture {
	t.Helper()
	students := memory.NewStudentRepository()
	history := memory.NewUploadHistoryRepository()
	rules := grading.Rules{Policy: grading.Policy{EnforceObtainedLETotal: true}}

	svc := NewUploadService(students, history, rules, nil, metrics.New(), zerolog.Nop()).(*uploadServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return uploadFixture{svc: svc, students: students, history: history}
}

type failingStudentStore struct {
	*memory.StudentRepository
}

func (failingStudentStore) ReplaceAll(context.Context, []models.StudentRecord) error {
	return errors.New("connection reset")
}

// clearThenInsertStore clears first and only inserts while ctx is live, like the mongo store
type clearThenInsertStore struct {
	*memory.StudentRepository
}

func (s clearThenInsertStore) ReplaceAll(ctx context.Context, records []models.StudentRecord) error {
	if err := s.StudentRepository.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.StudentRepository.ReplaceAll(ctx, records)
}

type ctxAwareHistoryStore struct {
	*memory.UploadHistoryRepository
}

func (s ctxAwareHistoryStore) Append(ctx context.Context, entry *models.UploadHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.UploadHistoryRepository.Append(ctx, entry)
}

type fakeArchive struct {
	saved []string
	err   error
}

func (a *fakeArchive) Save(filename string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, filename)
	return "archive/" + filename, nil
}

func (a *fakeArchive) Delete(string) error { return nil }

func TestIngest_CSVReplacesStudentsAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newUploadFixture(t)

	result, err := f.svc.Ingest(ctx, "grades.csv", "text/csv", []byte(gradesCSV))
	require.NoError(t, err)
	assert.Equal(t, &models.UploadResult{StudentsCount: 2, Filename: "grades.csv"}, result)

	list, err := f.students.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "S1", list[0].StudentID)
	assert.Equal(t, 90.0, list[0].Percentage)
	assert.Equal(t, "S2", list[1].StudentID)
	assert.Equal(t, 75.0, list[1].Percentage)
	assert.Equal(t, fixedNow, list[1].CreatedAt)

	entries, err := f.history.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grades.csv", entries[0].Filename)
	assert.Equal(t, 2, entries[0].StudentsCount)
	assert.NotEmpty(t, entries[0].ID)
	assert.Empty(t, entries[0].StoredAs)

	// a second upload replaces the first set completely
	_, err = f.svc.Ingest(ctx, "next.csv", "", []byte("ID,Name,MaxMarks,ObtainedMarks\nS9,Zoe,50,50\n"))
	require.NoError(t, err)
	list, err = f.students.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "S9", list[0].StudentID)
	assert.Equal(t, 100.0, list[0].Percentage)
}

func TestIngest_XLSX(t *testing.T) {
	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)
	require.NoError(t, file.SetSheetRow(sheet, "A1", &[]interface{}{"StudentID", "StudentName", "TotalMarks", "MarksObtained"}))
	require.NoError(t, file.SetSheetRow(sheet, "A2", &[]interface{}{"X1", "Mia", 200, 150}))
	buf, err := file.WriteToBuffer()
	require.NoError(t, err)

	f := newUploadFixture(t)
	result, err := f.svc.Ingest(context.Background(), "term.xlsx", "", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StudentsCount)

	list, err := f.students.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 75.0, list[0].Percentage)
}

func TestIngest_RejectionsLeaveStoreUntouched(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        string
		wantErr     error
		wantRow     int
	}{
		{name: "unsupported type", filename: "grades.pdf", contentType: "application/pdf", data: "%PDF", wantErr: apperrors.ErrUnsupportedMediaType},
		{name: "empty file", filename: "grades.csv", data: "", wantErr: apperrors.ErrEmptyFile},
		{name: "header only", filename: "grades.csv", data: "Student_ID,Student_Name,Total_Marks,Marks_Obtained\n", wantErr: apperrors.ErrEmptyFile},
		{name: "corrupt xlsx", filename: "grades.xlsx", data: "not a zip archive", wantErr: apperrors.ErrDecodeFailure},
		{name: "missing field", filename: "grades.csv", data: "ID,Name,MaxMarks\nS1,Ann,100\n", wantErr: apperrors.ErrMissingField, wantRow: 1},
		{name: "non numeric", filename: "grades.csv", data: "ID,Name,MaxMarks,ObtainedMarks\nS1,Ann,100,90\nS2,Bob,100,abc\n", wantErr: apperrors.ErrInvalidRow, wantRow: 2},
		{name: "obtained exceeds total", filename: "grades.csv", data: "ID,Name,MaxMarks,ObtainedMarks\nS1,Ann,100,101\n", wantErr: apperrors.ErrInvalidRow, wantRow: 1},
		{name: "duplicate id", filename: "grades.csv", data: "ID,Name,MaxMarks,ObtainedMarks\nS1,Ann,100,90\nS1,Ann,100,80\n", wantErr: apperrors.ErrDuplicateStudentID, wantRow: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newUploadFixture(t)
			_, err := f.svc.Ingest(ctx, "seed.csv", "", []byte(gradesCSV))
			require.NoError(t, err)

			_, err = f.svc.Ingest(ctx, tt.filename, tt.contentType, []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			if tt.wantRow > 0 {
				rowErr, ok := apperrors.AsRowError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantRow, rowErr.Row)
			}

			list, err := f.students.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)

			entries, err := f.history.ListRecent(ctx, 10)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestIngest_PersistenceFailure(t *testing.T) {
	f := newUploadFixture(t)
	f.svc.students = failingStudentStore{f.students}

	_, err := f.svc.Ingest(context.Background(), "grades.csv", "", []byte(gradesCSV))
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	entries, err := f.history.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIngest_CallerCancellationDoesNotAbortPersistence(t *testing.T) {
	f := newUploadFixture(t)
	f.svc.students = clearThenInsertStore{f.students}
	f.svc.history = ctxAwareHistoryStore{f.history}

	_, err := f.svc.Ingest(context.Background(), "seed.csv", "", []byte(gradesCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.svc.Ingest(ctx, "next.csv", "", []byte("ID,Name,MaxMarks,ObtainedMarks\nS9,Zoe,50,25\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.StudentsCount)

	list, err := f.students.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "S9", list[0].StudentID)

	entries, err := f.history.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "next.csv", entries[0].Filename)
}

func TestIngest_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("stored path is recorded", func(t *testing.T) {
		f := newUploadFixture(t)
		archive := &fakeArchive{}
		f.svc.archive = archive

		_, err := f.svc.Ingest(ctx, "/tmp/../grades.csv", "", []byte(gradesCSV))
		require.NoError(t, err)
		assert.Equal(t, []string{"grades.csv"}, archive.saved)

		entries, err := f.history.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "archive/grades.csv", entries[0].StoredAs)
	})

	t.Run("archive failure does not fail the upload", func(t *testing.T) {
		f := newUploadFixture(t)
		f.svc.archive = &fakeArchive{err: errors.New("disk full")}

		result, err := f.svc.Ingest(ctx, "grades.csv", "", []byte(gradesCSV))
		require.NoError(t, err)
		assert.Equal(t, 2, result.StudentsCount)
	})

	t.Run("rejected uploads are not archived", func(t *testing.T) {
		f := newUploadFixture(t)
		archive := &fakeArchive{}
		f.svc.archive = archive

		_, err := f.svc.Ingest(ctx, "grades.csv", "", []byte("ID\n1\n"))
		require.Error(t, err)
		assert.Empty(t, archive.saved)
	})
}
