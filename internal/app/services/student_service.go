package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/gradesheet/internal/app/grading"
	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

// StudentService defines the interface for the student directory
type StudentService interface {
	ListStudents(ctx context.Context) ([]models.StudentRecord, error)
	UpdateStudent(ctx context.Context, studentID, name string, total, obtained float64) (*models.StudentRecord, error)
	DeleteStudent(ctx context.Context, studentID string) error
	GetStats(ctx context.Context) (*models.ClassStats, error)
	ListUploadHistory(ctx context.Context) ([]models.UploadHistoryEntry, error)
}

// maxHistoryEntries is the most upload history entries ever listed
const maxHistoryEntries = 10

// StudentServiceConfig holds the tunables of the student directory
type StudentServiceConfig struct {
	Policy         grading.Policy
	PassPercentage float64
	HistoryLimit   int
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students StudentStore
	history  UploadHistoryStore
	cfg      StudentServiceConfig
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, history UploadHistoryStore, cfg StudentServiceConfig, logger zerolog.Logger) StudentService {
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > maxHistoryEntries {
		cfg.HistoryLimit = maxHistoryEntries
	}
	return &studentServiceImpl{
		students: students,
		history:  history,
		cfg:      cfg,
		logger:   logger,
	}
}

// ListStudents returns every stored student, newest first
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]models.StudentRecord, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return students, nil
}

// UpdateStudent validates the new values, recomputes the percentage and stores the result
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, studentID, name string, total, obtained float64) (*models.StudentRecord, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperrors.ErrStudentNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "student name cannot be empty").
			WithDetails(map[string]interface{}{"field": grading.FieldStudentName})
	}

	if field, reason := s.cfg.Policy.CheckMarks(total, obtained); reason != "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, reason).
			WithDetails(map[string]interface{}{"field": field})
	}

	updated, err := s.students.Update(ctx, studentID, models.StudentUpdate{
		StudentName:   name,
		TotalMarks:    total,
		MarksObtained: obtained,
		Percentage:    grading.Percentage(total, obtained),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("studentID", studentID).Msg("Failed to update student")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.logger.Info().Str("studentID", studentID).Msg("Student updated")
	return updated, nil
}

// DeleteStudent removes one student
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, studentID string) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return apperrors.ErrStudentNotFound
	}

	if err := s.students.Delete(ctx, studentID); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("studentID", studentID).Msg("Failed to delete student")
		return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.logger.Info().Str("studentID", studentID).Msg("Student deleted")
	return nil
}

// GetStats aggregates the stored students
func (s *studentServiceImpl) GetStats(ctx context.Context) (*models.ClassStats, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return computeStats(students, s.cfg.PassPercentage), nil
}

// ListUploadHistory returns the most recent uploads, newest first
func (s *studentServiceImpl) ListUploadHistory(ctx context.Context) ([]models.UploadHistoryEntry, error) {
	entries, err := s.history.ListRecent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}
	return entries, nil
}

func computeStats(students []models.StudentRecord, passMark float64) *models.ClassStats {
	stats := &models.ClassStats{TotalStudents: len(students)}
	if len(students) == 0 {
		return stats
	}

	var sum float64
	for i := range students {
		p := students[i].Percentage
		sum += p
		if p >= passMark {
			stats.PassCount++
		}
		if stats.TopPerformer == nil || p > stats.TopPerformer.Percentage {
			stats.TopPerformer = &students[i]
		}
	}

	n := float64(len(students))
	stats.FailCount = len(students) - stats.PassCount
	stats.AveragePercentage = grading.Round2(sum / n)
	stats.PassPercentage = grading.Round2(float64(stats.PassCount) / n * 100)
	return stats
}
