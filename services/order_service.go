package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"booksphere/apperrors"
	"booksphere/models"
)

// OrderRepository is the ledger persistence surface used by OrderService.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByBuyer(ctx context.Context, username string) ([]models.Order, error)
	FindBySeller(ctx context.Context, username string, status models.OrderStatus) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []models.OrderStatus, to models.OrderStatus) (bool, error)
	SellerReport(ctx context.Context, seller string, from, to time.Time) (*models.SalesReport, error)
}

type OrderService struct {
	orders OrderRepository
	books  BookRepository
}

func NewOrderService(orders OrderRepository, books BookRepository) *OrderService {
	return &OrderService{orders: orders, books: books}
}

// Place creates a single order for one copy of a book. Stock is taken first
// through the conditional decrement; the order is only inserted once the unit
// is secured, so a failed decrement leaves no order behind.
func (s *OrderService) Place(ctx context.Context, buyer string, bookID uuid.UUID) (*models.Order, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.books.DecrementStock(ctx, bookID); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:        uuid.New(),
		BookID:    book.ID,
		BookTitle: book.Title,
		User:      buyer,
		Seller:    book.AddedBy,
		Price:     book.Price,
		Status:    models.StatusPending,
		OrderDate: time.Now().UTC(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		// Put the unit back so a ledger write failure doesn't leak stock.
		if restoreErr := s.books.IncrementStock(ctx, bookID); restoreErr != nil {
			zap.L().Error("Failed to restore stock after order insert failure",
				zap.String("book_id", bookID.String()),
				zap.Error(restoreErr),
			)
		}
		return nil, err
	}

	zap.L().Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("book_id", book.ID.String()),
		zap.String("user", buyer),
	)
	return order, nil
}

// CheckoutItemResult reports the outcome for one cart line.
type CheckoutItemResult struct {
	BookID    uuid.UUID  `json:"book_id"`
	BookTitle string     `json:"book_title"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// CheckoutResult summarizes a best-effort checkout.
type CheckoutResult struct {
	Placed int                  `json:"placed"`
	Failed int                  `json:"failed"`
	Items  []CheckoutItemResult `json:"items"`
}

// AllPlaced reports whether every cart line became an order.
func (r *CheckoutResult) AllPlaced() bool {
	return r.Failed == 0
}

// Checkout converts a cart into orders best-effort: each line is placed
// independently and a later failure does not roll back earlier placements.
// The caller decides what to do with a partial result.
func (s *OrderService) Checkout(ctx context.Context, buyer string, cart *models.Cart) (*CheckoutResult, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("cart is empty"))
	}

	result := &CheckoutResult{}
	for _, item := range cart.Items {
		itemResult := CheckoutItemResult{BookID: item.BookID, BookTitle: item.BookTitle}

		order, err := s.Place(ctx, buyer, item.BookID)
		if err != nil {
			itemResult.Error = err.Error()
			result.Failed++
			zap.L().Warn("Checkout item failed",
				zap.String("book_id", item.BookID.String()),
				zap.String("user", buyer),
				zap.Error(err),
			)
		} else {
			id := order.ID
			itemResult.OrderID = &id
			result.Placed++
		}
		result.Items = append(result.Items, itemResult)
	}
	return result, nil
}

// Cancel transitions an order to cancelled and restores the book's stock.
// The status flip is a guarded compare-and-set, so cancelling twice (or
// cancelling a shipped/delivered order) changes nothing and restores nothing.
// A non-empty buyer must match the order's buyer.
func (s *OrderService) Cancel(ctx context.Context, buyer string, orderID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if buyer != "" && order.User != buyer {
		return apperrors.ErrForbidden
	}

	won, err := s.orders.UpdateStatus(ctx, orderID, models.AllowedSources(models.StatusCancelled), models.StatusCancelled)
	if err != nil {
		return err
	}
	if !won {
		return apperrors.ErrIllegalTransition
	}

	if err := s.books.IncrementStock(ctx, order.BookID); err != nil {
		// The order is already cancelled; log the stock drift rather than
		// failing the cancellation.
		zap.L().Error("Failed to restore stock for cancelled order",
			zap.String("order_id", orderID.String()),
			zap.String("book_id", order.BookID.String()),
			zap.Error(err),
		)
	}

	zap.L().Info("Order cancelled", zap.String("order_id", orderID.String()))
	return nil
}

// UpdateStatus moves an order along the lifecycle graph. Unknown statuses and
// illegal transitions are rejected without touching the order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string) error {
	target, ok := models.ParseOrderStatus(newStatus)
	if !ok {
		return apperrors.ErrInvalidStatus
	}
	if target == models.StatusCancelled {
		// Cancellation restores stock, so it goes through Cancel. Sellers and
		// admins reach this path, so no buyer check applies.
		return s.Cancel(ctx, "", orderID)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(target) {
		return apperrors.ErrIllegalTransition
	}

	won, err := s.orders.UpdateStatus(ctx, orderID, []models.OrderStatus{order.Status}, target)
	if err != nil {
		return err
	}
	if !won {
		// Status moved underneath us between the read and the update.
		return apperrors.ErrIllegalTransition
	}

	zap.L().Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(target)),
	)
	return nil
}

func (s *OrderService) ListForBuyer(ctx context.Context, username string) ([]models.Order, error) {
	return s.orders.FindByBuyer(ctx, username)
}

// ListForSeller returns the seller's orders, optionally filtered by status.
// statusFilter "" or "All" means no filter.
func (s *OrderService) ListForSeller(ctx context.Context, username, statusFilter string) ([]models.Order, error) {
	var status models.OrderStatus
	if statusFilter != "" && statusFilter != "All" {
		parsed, ok := models.ParseOrderStatus(statusFilter)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		status = parsed
	}
	return s.orders.FindBySeller(ctx, username, status)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

// SellerReport aggregates the seller's sales over [from, to].
func (s *OrderService) SellerReport(ctx context.Context, seller string, from, to time.Time) (*models.SalesReport, error) {
	if to.Before(from) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("end date before start date"))
	}
	return s.orders.SellerReport(ctx, seller, from, to)
}

// SellerMetrics is the dashboard summary: catalog size plus trailing-week
// order count and revenue.
func (s *OrderService) SellerMetrics(ctx context.Context, seller string) (*models.SellerMetrics, error) {
	totalBooks, err := s.books.CountBySeller(ctx, seller)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report, err := s.orders.SellerReport(ctx, seller, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}

	return &models.SellerMetrics{
		TotalBooks:    totalBooks,
		WeeklyOrders:  report.OrderCount,
		WeeklyRevenue: report.TotalRevenue,
	}, nil
}
