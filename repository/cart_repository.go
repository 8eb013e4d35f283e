package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"booksphere/models"
)

// CartRepository stores per-user carts in Redis. Carts are transient session
// state, never written to the document store.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CartRepository) key(username string) string {
	return fmt.Sprintf("cart:user:%s", username)
}

// Get returns the user's cart, or an empty cart when none exists.
func (r *CartRepository) Get(ctx context.Context, username string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key(username)).Result()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{User: username, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key(cart.User), data, r.ttl).Err()
}

func (r *CartRepository) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, r.key(username)).Err()
}
