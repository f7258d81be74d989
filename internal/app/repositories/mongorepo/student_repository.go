// Package mongorepo stores students and upload history in MongoDB collections.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/dberrors"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

const (
	StudentsCollection      = "students"
	UploadHistoryCollection = "upload_history"
)

// StudentRepository handles student documents
type StudentRepository struct {
	coll *mongo.Collection
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: database.Collection(StudentsCollection)}
}

// EnsureIndexes creates the unique student_id index and the listing index
func (r *StudentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("students_student_id_key"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("students_created_at_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating student indexes: %w", err)
	}
	return nil
}

// ReplaceAll removes every student and inserts records in file order.
// MongoDB standalone deployments have no multi-document transactions, so a
// failed insert can leave the collection empty.
func (r *StudentRepository) ReplaceAll(ctx context.Context, records []models.StudentRecord) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		logger.Error().Err(err).Msg("Error clearing students")
		return fmt.Errorf("error clearing students: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicateStudentID, err)
		}
		logger.Error().Err(err).Int("count", len(records)).Msg("Error inserting students")
		return fmt.Errorf("error inserting students: %w", err)
	}
	return nil
}

// List returns all students, newest first, keeping insertion order within one upload
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}

	students := []models.StudentRecord{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("error decoding students: %w", err)
	}
	return students, nil
}

// Update overwrites the mutable fields of one student and returns the stored document
func (r *StudentRepository) Update(ctx context.Context, studentID string, update models.StudentUpdate) (*models.StudentRecord, error) {
	filter := bson.D{{Key: "student_id", Value: studentID}}
	change := bson.D{{Key: "$set", Value: bson.D{
		{Key: "student_name", Value: update.StudentName},
		{Key: "total_marks", Value: update.TotalMarks},
		{Key: "marks_obtained", Value: update.MarksObtained},
		{Key: "percentage", Value: update.Percentage},
	}}}

	var s models.StudentRecord
	err := r.coll.FindOneAndUpdate(ctx, filter, change, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error updating student")
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return &s, nil
}

// Delete removes one student by its student ID
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "student_id", Value: studentID}})
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
