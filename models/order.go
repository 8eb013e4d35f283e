package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// transitions is the allowed lifecycle graph. Delivered and cancelled are
// terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus maps a raw string onto a known status. "confirmed" is an
// accepted alias for "processing" that older clients still send.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	if s == "confirmed" {
		return StatusProcessing, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AllowedSources returns every status that may transition into target. Used
// to build guarded compare-and-set updates.
func AllowedSources(target OrderStatus) []OrderStatus {
	var sources []OrderStatus
	for from, tos := range transitions {
		for _, to := range tos {
			if to == target {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// Order is a ledger record. Book title, seller and price are denormalized at
// order time and never re-derived. Orders are never physically deleted.
type Order struct {
	ID        uuid.UUID   `json:"id" bson:"_id"`
	BookID    uuid.UUID   `json:"book_id" bson:"book_id"`
	BookTitle string      `json:"book_title" bson:"book_title"`
	User      string      `json:"user" bson:"user"`
	Seller    string      `json:"seller" bson:"seller"`
	Price     float64     `json:"price" bson:"price"`
	Status    OrderStatus `json:"status" bson:"status"`
	OrderDate time.Time   `json:"order_date" bson:"order_date"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// SalesReport aggregates a seller's orders over a date range.
type SalesReport struct {
	OrderCount    int64   `json:"order_count" bson:"order_count"`
	TotalRevenue  float64 `json:"total_revenue" bson:"total_revenue"`
	AverageAmount float64 `json:"average_amount" bson:"average_amount"`
}

// SellerMetrics is the seller dashboard summary: catalog size plus activity
// over the trailing week.
type SellerMetrics struct {
	TotalBooks    int64   `json:"total_books"`
	WeeklyOrders  int64   `json:"weekly_orders"`
	WeeklyRevenue float64 `json:"weekly_revenue"`
}
