package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/gradesheet/internal/app/grading"
	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/filestorage"
	"github.com/yigit/gradesheet/internal/pkg/metrics"
	"github.com/yigit/gradesheet/internal/pkg/spreadsheet"
)

// persistTimeout bounds the storage phase of an ingestion
const persistTimeout = 30 * time.Second

// UploadService defines the interface for spreadsheet ingestion
type UploadService interface {
	// Ingest decodes, validates and stores an uploaded grade sheet, replacing all stored students
	Ingest(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error)
}

// uploadServiceImpl implements the UploadService interface
type uploadServiceImpl struct {
	students StudentStore
	history  UploadHistoryStore
	rules    grading.Rules
	archive  filestorage.FileStorage
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUploadService creates a new upload service instance. archive and m may be nil.
func NewUploadService(
	students StudentStore,
	history UploadHistoryStore,
	rules grading.Rules,
	archive filestorage.FileStorage,
	m *metrics.Metrics,
	logger zerolog.Logger,
) UploadService {
	return &uploadServiceImpl{
		students: students,
		history:  history,
		rules:    rules,
		archive:  archive,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest implements UploadService
func (s *uploadServiceImpl) Ingest(ctx context.Context, filename, contentType string, data []byte) (*models.UploadResult, error) {
	filename = filepath.Base(strings.TrimSpace(filename))

	batch, err := s.buildBatch(filename, contentType, data)
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultRejected, 0)
		s.logger.Warn().Err(err).Str("filename", filename).Msg("Upload rejected")
		return nil, err
	}

	// Once the batch is accepted the caller can no longer abort the replace
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.students.ReplaceAll(persistCtx, batch); err != nil {
		s.metrics.ObserveUpload(metrics.ResultPersistenceFail, 0)
		s.logger.Error().Err(err).Str("filename", filename).Int("students", len(batch)).Msg("Failed to replace students")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	entry := &models.UploadHistoryEntry{
		ID:            uuid.New().String(),
		Filename:      filename,
		StudentsCount: len(batch),
		StoredAs:      s.archiveUpload(filename, data),
		UploadedAt:    s.now().UTC(),
	}
	if err := s.history.Append(persistCtx, entry); err != nil {
		s.metrics.ObserveUpload(metrics.ResultPersistenceFail, 0)
		s.logger.Error().Err(err).Str("filename", filename).Msg("Failed to record upload history")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.metrics.ObserveUpload(metrics.ResultSuccess, len(batch))
	s.logger.Info().Str("filename", filename).Int("students", len(batch)).Msg("Upload ingested")

	return &models.UploadResult{
		StudentsCount: len(batch),
		Filename:      filename,
	}, nil
}

// buildBatch runs every check that can reject an upload. Nothing is stored here.
func (s *uploadServiceImpl) buildBatch(filename, contentType string, data []byte) ([]models.StudentRecord, error) {
	format, err := spreadsheet.DetectFormat(filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMediaType, filename)
	}

	if len(data) == 0 {
		return nil, apperrors.ErrEmptyFile
	}

	rows, err := spreadsheet.Decode(format, data)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedMediaType, filename)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err)
	}

	return s.rules.BuildBatch(rows, s.now().UTC())
}

// archiveUpload keeps a copy of an accepted upload. Failures only cost the copy.
func (s *uploadServiceImpl) archiveUpload(filename string, data []byte) string {
	if s.archive == nil {
		return ""
	}

	stored, err := s.archive.Save(filename, data)
	if err != nil {
		s.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to archive upload")
		return ""
	}
	return stored
}
