package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"booksphere/apperrors"
	"booksphere/models"
)

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Insert(ctx context.Context, entry *models.Feedback) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockFeedbackRepository) List(ctx context.Context, limit int64) ([]models.Feedback, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByUser(ctx context.Context, username string) ([]models.Feedback, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByType(ctx context.Context, feedbackType string) ([]models.Feedback, error) {
	args := m.Called(ctx, feedbackType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) AverageRating(ctx context.Context) (*models.RatingSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingSummary), args.Error(1)
}

func (m *MockFeedbackRepository) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	return m.Called(ctx, id, notes).Error(0)
}

func TestSubmitFeedback_MessageTooShort(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	_, err := svc.Submit(context.Background(), "user1", SubmitFeedbackRequest{
		Type:    models.FeedbackSuggestion,
		Message: "short", // 5 characters
		Rating:  4,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitFeedback_MessageAccepted(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Feedback")).Return(nil).Once()

	entry, err := svc.Submit(context.Background(), "user1", SubmitFeedbackRequest{
		Type:    models.FeedbackBugReport,
		Message: "exactly10!", // 10 characters
		Rating:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, "user1", entry.User)
	assert.Equal(t, 3, entry.Rating)
	assert.False(t, entry.Resolved)
	assert.False(t, entry.SubmittedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestSubmitFeedback_WhitespaceNotCounted(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	_, err := svc.Submit(context.Background(), "user1", SubmitFeedbackRequest{
		Type:    models.FeedbackOther,
		Message: "   hi    ",
		Rating:  5,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmitFeedback_RatingBounds(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), "user1", SubmitFeedbackRequest{
			Type:    models.FeedbackCompliment,
			Message: "a perfectly valid message",
			Rating:  rating,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation, "rating %d should be rejected", rating)
	}
}

func TestSubmitFeedback_UnknownType(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	_, err := svc.Submit(context.Background(), "user1", SubmitFeedbackRequest{
		Type:    "rant",
		Message: "a perfectly valid message",
		Rating:  2,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAverageRating_Empty(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	repo.On("AverageRating", mock.Anything).Return(&models.RatingSummary{}, nil).Once()

	summary, err := svc.AverageRating(context.Background())

	require.NoError(t, err)
	assert.Zero(t, summary.AverageRating)
	assert.Zero(t, summary.Count)
}

func TestResolve_NotFound(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	id := uuid.New()
	repo.On("Resolve", mock.Anything, id, "done").Return(apperrors.ErrNotFound).Once()

	err := svc.Resolve(context.Background(), id, "done")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListFeedback_UnknownTypeFilter(t *testing.T) {
	repo := new(MockFeedbackRepository)
	svc := NewFeedbackService(repo)

	_, err := svc.List(context.Background(), "rant", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
