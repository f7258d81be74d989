package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/db"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

// UploadHistoryRepository stores the append-only upload log
type UploadHistoryRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUploadHistoryRepository creates a new UploadHistoryRepository
func NewUploadHistoryRepository(database *db.PostgresDB) *UploadHistoryRepository {
	return &UploadHistoryRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts one history entry
func (r *UploadHistoryRepository) Append(ctx context.Context, entry *models.UploadHistoryEntry) error {
	sql, args, err := r.sb.Insert("upload_history").
		Columns("id", "filename", "students_count", "stored_as", "uploaded_at").
		Values(entry.ID, entry.Filename, entry.StudentsCount, entry.StoredAs, entry.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert upload history query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("filename", entry.Filename).Msg("Error inserting upload history")
		return fmt.Errorf("error inserting upload history: %w", err)
	}
	return nil
}

// ListRecent returns at most limit entries, newest first
func (r *UploadHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.UploadHistoryEntry, error) {
	sql, args, err := r.sb.Select("id", "filename", "students_count", "stored_as", "uploaded_at").
		From("upload_history").
		OrderBy("uploaded_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list upload history query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list upload history query")
		return nil, fmt.Errorf("error querying upload history: %w", err)
	}
	defer rows.Close()

	entries := []models.UploadHistoryEntry{}
	for rows.Next() {
		var e models.UploadHistoryEntry
		if err := rows.Scan(&e.ID, &e.Filename, &e.StudentsCount, &e.StoredAs, &e.UploadedAt); err != nil {
			return nil, fmt.Errorf("error scanning upload history row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upload history rows: %w", err)
	}

	return entries, nil
}
