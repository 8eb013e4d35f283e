package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"booksphere/apperrors"
	"booksphere/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return &order, nil
}

func (r *OrderRepository) FindByBuyer(ctx context.Context, username string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user": username})
}

// FindBySeller joins through the books collection on added_by rather than
// trusting the denormalized seller field alone: orders written before that
// field existed still surface. An empty status means no status filter.
func (r *OrderRepository) FindBySeller(ctx context.Context, username string, status models.OrderStatus) ([]models.Order, error) {
	match := bson.M{"book.added_by": username}
	if status != "" {
		match["status"] = status
	}

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "books",
			"localField":   "book_id",
			"foreignField": "_id",
			"as":           "book",
		}}},
		{{Key: "$unwind", Value: "$book"}},
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"book_title": "$book.title"}}},
		{{Key: "$project", Value: bson.M{"book": 0}}},
		{{Key: "$sort", Value: bson.M{"order_date": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return orders, nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return orders, nil
}

// UpdateStatus flips an order to the given status only when its current
// status is one of from. The compare-and-set keeps concurrent transitions
// from stepping on each other; the bool reports whether this call won.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return result.ModifiedCount > 0, nil
}

// SellerReport aggregates a seller's orders over [from, to].
func (r *OrderRepository) SellerReport(ctx context.Context, seller string, from, to time.Time) (*models.SalesReport, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"seller":     seller,
			"order_date": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"order_count":    bson.M{"$sum": 1},
			"total_revenue":  bson.M{"$sum": "$price"},
			"average_amount": bson.M{"$avg": "$price"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var results []models.SalesReport
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	if len(results) == 0 {
		return &models.SalesReport{}, nil
	}
	return &results[0], nil
}
