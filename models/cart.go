package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a user's cart. Title, price and seller are copied
// from the book at add time so the cart renders without catalog lookups.
type CartItem struct {
	BookID    uuid.UUID `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Price     float64   `json:"price"`
	Seller    string    `json:"seller"`
}

// Cart is the per-user cart stored in Redis. It is destroyed on logout or a
// fully successful checkout.
type Cart struct {
	User      string     `json:"user"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total sums the item prices.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}
