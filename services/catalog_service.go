package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"booksphere/apperrors"
	"booksphere/models"
)

// BookRepository is the catalog persistence surface used by the services.
type BookRepository interface {
	Add(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Update(ctx context.Context, id uuid.UUID, patch models.BookPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	FindBySeller(ctx context.Context, username string) ([]models.Book, error)
	CountBySeller(ctx context.Context, username string) (int64, error)
	Genres(ctx context.Context) ([]string, error)
	DecrementStock(ctx context.Context, id uuid.UUID) error
	IncrementStock(ctx context.Context, id uuid.UUID) error
}

type CatalogService struct {
	books    BookRepository
	validate *validator.Validate
}

func NewCatalogService(books BookRepository) *CatalogService {
	return &CatalogService{
		books:    books,
		validate: validator.New(),
	}
}

// AddBookRequest is the seller-supplied book payload.
type AddBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	ISBN        string  `json:"isbn"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// AddBook validates and inserts a new catalog record owned by seller.
func (s *CatalogService) AddBook(ctx context.Context, seller string, req AddBookRequest) (*models.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)

	if err := s.validate.Struct(&req); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, err)
	}

	book := &models.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Genre:       req.Genre,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		AddedBy:     seller,
		AddedOn:     time.Now().UTC(),
	}
	if err := s.books.Add(ctx, book); err != nil {
		return nil, err
	}

	zap.L().Info("Book added",
		zap.String("book_id", book.ID.String()),
		zap.String("title", book.Title),
		zap.String("seller", seller),
	)
	return book, nil
}

// UpdateBook applies a partial update to a book the seller owns.
func (s *CatalogService) UpdateBook(ctx context.Context, seller string, id uuid.UUID, patch models.BookPatch) error {
	if patch.IsEmpty() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("no fields to update"))
	}
	if err := s.validate.Struct(&patch); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, err)
	}

	if err := s.requireOwnership(ctx, seller, id); err != nil {
		return err
	}
	return s.books.Update(ctx, id, patch)
}

// DeleteBook removes a book the seller owns.
func (s *CatalogService) DeleteBook(ctx context.Context, seller string, id uuid.UUID) error {
	if err := s.requireOwnership(ctx, seller, id); err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	zap.L().Info("Book deleted", zap.String("book_id", id.String()), zap.String("seller", seller))
	return nil
}

func (s *CatalogService) requireOwnership(ctx context.Context, seller string, id uuid.UUID) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if book.AddedBy != seller {
		return apperrors.ErrForbidden
	}
	return nil
}

// SearchBooks returns the catalog slice matching the filter, title ascending.
func (s *CatalogService) SearchBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	if filter.MaxPrice <= 0 {
		filter.MaxPrice = 1_000_000
	}
	if filter.MinPrice < 0 || filter.MinPrice > filter.MaxPrice {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("invalid price range"))
	}
	return s.books.Search(ctx, filter)
}

func (s *CatalogService) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *CatalogService) ListSellerBooks(ctx context.Context, seller string) ([]models.Book, error) {
	return s.books.FindBySeller(ctx, seller)
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]string, error) {
	return s.books.Genres(ctx)
}
