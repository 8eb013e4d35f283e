package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"booksphere/apperrors"
	"booksphere/models"
)

// MinFeedbackMessageLength is the shortest accepted message after trimming.
const MinFeedbackMessageLength = 10

// FeedbackRepository is the persistence surface FeedbackService needs.
type FeedbackRepository interface {
	Insert(ctx context.Context, entry *models.Feedback) error
	List(ctx context.Context, limit int64) ([]models.Feedback, error)
	ListByUser(ctx context.Context, username string) ([]models.Feedback, error)
	ListByType(ctx context.Context, feedbackType string) ([]models.Feedback, error)
	AverageRating(ctx context.Context) (*models.RatingSummary, error)
	Resolve(ctx context.Context, id uuid.UUID, notes string) error
}

type FeedbackService struct {
	feedback FeedbackRepository
}

func NewFeedbackService(feedback FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

// SubmitFeedbackRequest is the user-supplied feedback payload.
type SubmitFeedbackRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// Submit validates and stores a feedback entry.
func (s *FeedbackService) Submit(ctx context.Context, username string, req SubmitFeedbackRequest) (*models.Feedback, error) {
	message := strings.TrimSpace(req.Message)
	if len(message) < MinFeedbackMessageLength {
		return nil, apperrors.Wrap(apperrors.ErrValidation,
			errors.New("message must be at least 10 characters"))
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Wrap(apperrors.ErrValidation,
			errors.New("rating must be between 1 and 5"))
	}
	if !models.ValidFeedbackType(req.Type) {
		return nil, apperrors.Wrap(apperrors.ErrValidation,
			errors.New("unknown feedback type"))
	}

	entry := &models.Feedback{
		ID:          uuid.New(),
		User:        username,
		Type:        req.Type,
		Message:     message,
		Rating:      req.Rating,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.feedback.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AverageRating returns the mean and count across all entries, zeros when
// there is no feedback yet.
func (s *FeedbackService) AverageRating(ctx context.Context) (*models.RatingSummary, error) {
	return s.feedback.AverageRating(ctx)
}

// Resolve marks an entry handled with admin notes.
func (s *FeedbackService) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	return s.feedback.Resolve(ctx, id, notes)
}

// List returns recent entries, optionally filtered by type.
func (s *FeedbackService) List(ctx context.Context, feedbackType string, limit int64) ([]models.Feedback, error) {
	if feedbackType != "" {
		if !models.ValidFeedbackType(feedbackType) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("unknown feedback type"))
		}
		return s.feedback.ListByType(ctx, feedbackType)
	}
	if limit <= 0 {
		limit = 100
	}
	return s.feedback.List(ctx, limit)
}

func (s *FeedbackService) ListByUser(ctx context.Context, username string) ([]models.Feedback, error) {
	return s.feedback.ListByUser(ctx, username)
}
