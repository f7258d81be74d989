package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

// UploadHistoryRepository stores the upload log
type UploadHistoryRepository struct {
	coll *mongo.Collection
}

// NewUploadHistoryRepository creates a new UploadHistoryRepository
func NewUploadHistoryRepository(database *mongo.Database) *UploadHistoryRepository {
	return &UploadHistoryRepository{coll: database.Collection(UploadHistoryCollection)}
}

// EnsureIndexes creates the uploaded_at index used by ListRecent
func (r *UploadHistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uploaded_at", Value: -1}},
		Options: options.Index().SetName("upload_history_uploaded_at_idx"),
	})
	if err != nil {
		return fmt.Errorf("error creating upload history index: %w", err)
	}
	return nil
}

// Append inserts one history entry
func (r *UploadHistoryRepository) Append(ctx context.Context, entry *models.UploadHistoryEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		logger.Error().Err(err).Str("filename", entry.Filename).Msg("Error inserting upload history")
		return fmt.Errorf("error inserting upload history: %w", err)
	}
	return nil
}

// ListRecent returns at most limit entries, newest first
func (r *UploadHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.UploadHistoryEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "uploaded_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list upload history query")
		return nil, fmt.Errorf("error querying upload history: %w", err)
	}

	entries := []models.UploadHistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding upload history: %w", err)
	}
	return entries, nil
}
