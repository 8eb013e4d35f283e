package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booksphere/middleware"
	"booksphere/models"
	"booksphere/services"
)

// CartStore is the Redis-backed cart surface.
type CartStore interface {
	Get(ctx context.Context, username string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, username string) error
}

// CheckoutAPI is the slice of OrderService the cart controller uses.
type CheckoutAPI interface {
	Checkout(ctx context.Context, buyer string, cart *models.Cart) (*services.CheckoutResult, error)
}

type CartController struct {
	carts    CartStore
	catalog  CatalogAPI
	checkout CheckoutAPI
}

func NewCartController(carts CartStore, catalog CatalogAPI, checkout CheckoutAPI) *CartController {
	return &CartController{carts: carts, catalog: catalog, checkout: checkout}
}

func (ctrl *CartController) GetCart(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := ctrl.carts.Get(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

type addToCartRequest struct {
	BookID uuid.UUID `json:"book_id" binding:"required"`
}

// AddItem puts a book into the cart. The book must exist and have stock;
// stock is only taken at checkout.
func (ctrl *CartController) AddItem(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id is required"})
		return
	}

	book, err := ctrl.catalog.GetBook(c.Request.Context(), req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}
	if book.Stock <= 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Book is out of stock"})
		return
	}

	cart, err := ctrl.carts.Get(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	cart.Items = append(cart.Items, models.CartItem{
		BookID:    book.ID,
		BookTitle: book.Title,
		Price:     book.Price,
		Seller:    book.AddedBy,
	})
	if err := ctrl.carts.Save(c.Request.Context(), cart); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "cart": cart})
}

// RemoveItem drops one line from the cart by index.
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
		return
	}

	cart, err := ctrl.carts.Get(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	if index < 0 || index >= len(cart.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No cart item at that index"})
		return
	}

	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	if err := ctrl.carts.Save(c.Request.Context(), cart); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart", "cart": cart})
}

// Checkout places the cart's items best-effort. The cart is cleared only
// when every line placed; on a partial result the failed lines stay in the
// cart and the response reports the split.
func (ctrl *CartController) Checkout(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := ctrl.carts.Get(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := ctrl.checkout.Checkout(c.Request.Context(), username, cart)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.AllPlaced() {
		if err := ctrl.carts.Delete(c.Request.Context(), username); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All orders placed", "result": result})
		return
	}

	// Keep only the lines that failed so the user can retry them.
	remaining := cart.Items[:0]
	for i, item := range cart.Items {
		if i < len(result.Items) && result.Items[i].Error != "" {
			remaining = append(remaining, item)
		}
	}
	cart.Items = remaining
	if err := ctrl.carts.Save(c.Request.Context(), cart); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusMultiStatus, gin.H{
		"message": "Some orders could not be placed",
		"result":  result,
	})
}
