package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booksphere/middleware"
	"booksphere/models"
)

// OrderAPI is the slice of OrderService the controller uses.
type OrderAPI interface {
	ListForBuyer(ctx context.Context, username string) ([]models.Order, error)
	ListForSeller(ctx context.Context, username, statusFilter string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Cancel(ctx context.Context, buyer string, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string) error
	SellerReport(ctx context.Context, seller string, from, to time.Time) (*models.SalesReport, error)
	SellerMetrics(ctx context.Context, seller string) (*models.SellerMetrics, error)
}

type OrderController struct {
	orders OrderAPI
}

func NewOrderController(orders OrderAPI) *OrderController {
	return &OrderController{orders: orders}
}

// ListMyOrders returns the buyer's order history, newest first.
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := ctrl.orders.ListForBuyer(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// CancelOrder cancels one of the buyer's own orders and restores stock.
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	if err := ctrl.orders.Cancel(c.Request.Context(), username, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// ListSellerOrders returns orders for the seller's books: ?status=pending
func (ctrl *OrderController) ListSellerOrders(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := ctrl.orders.ListForSeller(c.Request.Context(), seller, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order along the lifecycle.
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := ctrl.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": req.Status})
}

// SellerReport aggregates sales over a date range: ?from=2026-01-01&to=2026-01-31
// Defaults to the trailing 30 days.
func (ctrl *OrderController) SellerReport(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		// Include the whole end day.
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := ctrl.orders.SellerReport(c.Request.Context(), seller, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SellerMetrics is the seller dashboard summary.
func (ctrl *OrderController) SellerMetrics(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	metrics, err := ctrl.orders.SellerMetrics(c.Request.Context(), seller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ListAllOrders returns every order (admin only).
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	orders, err := ctrl.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
