package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/db"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/dberrors"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

// insertChunkSize keeps multi-row inserts well under the 65535 bind parameter limit.
const insertChunkSize = 1000

// studentIDConstraint is the unique constraint created by 001_create_students.sql
const studentIDConstraint = "students_student_id_key"

var studentColumns = []string{"student_id", "student_name", "total_marks", "marks_obtained", "percentage", "created_at"}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ReplaceAll clears the students table and inserts records in a single transaction.
func (r *StudentRepository) ReplaceAll(ctx context.Context, records []models.StudentRecord) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.clear(ctx, tx); err != nil {
			return err
		}
		return r.insertBatch(ctx, tx, records)
	})
}

func (r *StudentRepository) clear(ctx context.Context, q execer) error {
	sql, args, err := r.sb.Delete("students").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear students query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error clearing students")
		return fmt.Errorf("error clearing students: %w", err)
	}
	return nil
}

func (r *StudentRepository) insertBatch(ctx context.Context, q execer, records []models.StudentRecord) error {
	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}

		builder := r.sb.Insert("students").Columns(studentColumns...)
		for _, rec := range records[start:end] {
			builder = builder.Values(rec.StudentID, rec.StudentName, rec.TotalMarks, rec.MarksObtained, rec.Percentage, rec.CreatedAt)
		}

		sql, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert students query: %w", err)
		}

		if _, err := q.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, studentIDConstraint) {
				return fmt.Errorf("%w: %v", apperrors.ErrDuplicateStudentID, err)
			}
			logger.Error().Err(err).Int("offset", start).Msg("Error inserting students")
			return fmt.Errorf("error inserting students: %w", err)
		}
	}
	return nil
}

// List returns all students, newest first. Records of one upload keep their file order.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentRecord, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []models.StudentRecord{}
	for rows.Next() {
		var s models.StudentRecord
		if err := rows.Scan(&s.StudentID, &s.StudentName, &s.TotalMarks, &s.MarksObtained, &s.Percentage, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update overwrites the mutable fields of one student and returns the stored record
func (r *StudentRepository) Update(ctx context.Context, studentID string, update models.StudentUpdate) (*models.StudentRecord, error) {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"student_name":   update.StudentName,
			"total_marks":    update.TotalMarks,
			"marks_obtained": update.MarksObtained,
			"percentage":     update.Percentage,
		}).
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix("RETURNING student_id, student_name, total_marks, marks_obtained, percentage, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	var s models.StudentRecord
	err = r.db.Pool.QueryRow(ctx, sql, args...).
		Scan(&s.StudentID, &s.StudentName, &s.TotalMarks, &s.MarksObtained, &s.Percentage, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return &s, nil
}

// Delete removes one student by its student ID
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
