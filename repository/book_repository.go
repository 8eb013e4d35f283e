package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"booksphere/apperrors"
	"booksphere/models"
)

type BookRepository struct {
	collection *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		collection: db.Collection("books"),
	}
}

func (r *BookRepository) Add(ctx context.Context, book *models.Book) error {
	if _, err := r.collection.InsertOne(ctx, book); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return &book, nil
}

// Update applies a partial update. A patch that matches no document reports
// ErrNotFound rather than a silent no-op.
func (r *BookRepository) Update(ctx context.Context, id uuid.UUID, patch models.BookPatch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	if patch.ISBN != nil {
		set["isbn"] = *patch.ISBN
	}
	if patch.Genre != nil {
		set["genre"] = *patch.Genre
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Search returns books matching the filter, sorted by title ascending. The
// query matches title or author case-insensitively; genre "All" or "" matches
// everything; the price range is inclusive.
func (r *BookRepository) Search(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	query := bson.M{}

	if filter.Query != "" {
		pattern := regexp.QuoteMeta(filter.Query)
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"author": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if filter.Genre != "" && filter.Genre != "All" {
		query["genre"] = filter.Genre
	}
	query["price"] = bson.M{"$gte": filter.MinPrice, "$lte": filter.MaxPrice}

	findOptions := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return books, nil
}

func (r *BookRepository) FindBySeller(ctx context.Context, username string) ([]models.Book, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"added_by": username}, findOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return books, nil
}

func (r *BookRepository) CountBySeller(ctx context.Context, username string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"added_by": username})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return count, nil
}

// Genres returns the distinct genre values across the catalog.
func (r *BookRepository) Genres(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "genre", bson.M{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	genres := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			genres = append(genres, s)
		}
	}
	return genres, nil
}

// DecrementStock takes one unit off a book's stock, but only when stock is
// still positive. The availability check and the decrement are a single
// conditional update, so two buyers racing for the last copy cannot both
// succeed.
func (r *BookRepository) DecrementStock(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id, "stock": bson.M{"$gt": 0}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": -1}})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if result.ModifiedCount > 0 {
		return nil
	}

	// Nothing matched: either the book is gone or it is out of stock.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrOutOfStock
}

// IncrementStock puts one unit back. Callers guard against double restoration
// by only invoking this after a successful cancellation status flip.
func (r *BookRepository) IncrementStock(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": 1}})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("restore stock for %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
