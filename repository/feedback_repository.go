package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"booksphere/apperrors"
	"booksphere/models"
)

type FeedbackRepository struct {
	collection *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{
		collection: db.Collection("feedback"),
	}
}

func (r *FeedbackRepository) Insert(ctx context.Context, entry *models.Feedback) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context, limit int64) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, username string) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"user": username}, 0)
}

func (r *FeedbackRepository) ListByType(ctx context.Context, feedbackType string) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"type": feedbackType}, 0)
}

func (r *FeedbackRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Feedback, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	entries := []models.Feedback{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return entries, nil
}

// AverageRating returns the mean rating and entry count, zero values when no
// feedback exists.
func (r *FeedbackRepository) AverageRating(ctx context.Context) (*models.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"average_rating": bson.M{"$avg": "$rating"},
			"count":          bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var results []models.RatingSummary
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if len(results) == 0 {
		return &models.RatingSummary{}, nil
	}
	return &results[0], nil
}

// Resolve marks an entry resolved with admin notes. ErrNotFound when the id
// matches nothing.
func (r *FeedbackRepository) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	update := bson.M{"$set": bson.M{
		"resolved":         true,
		"resolved_at":      time.Now().UTC(),
		"resolution_notes": notes,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
