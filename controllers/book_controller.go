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

// CatalogAPI is the slice of CatalogService the controller uses.
type CatalogAPI interface {
	SearchBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error)
	ListGenres(ctx context.Context) ([]string, error)
	AddBook(ctx context.Context, seller string, req services.AddBookRequest) (*models.Book, error)
	UpdateBook(ctx context.Context, seller string, id uuid.UUID, patch models.BookPatch) error
	DeleteBook(ctx context.Context, seller string, id uuid.UUID) error
	ListSellerBooks(ctx context.Context, seller string) ([]models.Book, error)
}

type BookController struct {
	catalog CatalogAPI
}

func NewBookController(catalog CatalogAPI) *BookController {
	return &BookController{catalog: catalog}
}

// ListBooks handles catalog search: ?q=&genre=&minPrice=&maxPrice=
func (ctrl *BookController) ListBooks(c *gin.Context) {
	filter := models.BookFilter{
		Query: c.Query("q"),
		Genre: c.DefaultQuery("genre", "All"),
	}

	var err error
	if minStr := c.Query("minPrice"); minStr != "" {
		if filter.MinPrice, err = strconv.ParseFloat(minStr, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice value"})
			return
		}
	}
	if maxStr := c.Query("maxPrice"); maxStr != "" {
		if filter.MaxPrice, err = strconv.ParseFloat(maxStr, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice value"})
			return
		}
	}

	books, err := ctrl.catalog.SearchBooks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (ctrl *BookController) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	book, err := ctrl.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (ctrl *BookController) ListGenres(c *gin.Context) {
	genres, err := ctrl.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// CreateBook adds a book to the authenticated seller's inventory.
func (ctrl *BookController) CreateBook(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book payload"})
		return
	}

	book, err := ctrl.catalog.AddBook(c.Request.Context(), seller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (ctrl *BookController) UpdateBook(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	var patch models.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patch payload"})
		return
	}

	if err := ctrl.catalog.UpdateBook(c.Request.Context(), seller, id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book updated"})
}

func (ctrl *BookController) DeleteBook(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID format"})
		return
	}

	if err := ctrl.catalog.DeleteBook(c.Request.Context(), seller, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

func (ctrl *BookController) ListSellerBooks(c *gin.Context) {
	seller, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	books, err := ctrl.catalog.ListSellerBooks(c.Request.Context(), seller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
