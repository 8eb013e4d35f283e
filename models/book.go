package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog record. Stock is kept non-negative by the repository's
// conditional decrement, not by this struct.
type Book struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title" validate:"required"`
	Author      string     `json:"author" bson:"author" validate:"required"`
	ISBN        string     `json:"isbn,omitempty" bson:"isbn,omitempty"`
	Genre       string     `json:"genre" bson:"genre"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64    `json:"price" bson:"price" validate:"gte=0"`
	Stock       int        `json:"stock" bson:"stock" validate:"gte=0"`
	AddedBy     string     `json:"added_by" bson:"added_by"`
	AddedOn     time.Time  `json:"added_on" bson:"added_on"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// BookPatch is a partial update to a book. Nil fields are left untouched.
type BookPatch struct {
	Title       *string  `json:"title,omitempty"`
	Author      *string  `json:"author,omitempty"`
	ISBN        *string  `json:"isbn,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the patch would change nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil &&
		p.Genre == nil && p.Description == nil && p.Price == nil && p.Stock == nil
}

// BookFilter holds catalog search criteria. Query matches title or author
// case-insensitively; Genre "All" or "" matches every genre; the price range
// is inclusive on both ends.
type BookFilter struct {
	Query    string
	Genre    string
	MinPrice float64
	MaxPrice float64
}
