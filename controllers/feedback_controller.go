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

// FeedbackAPI is the slice of FeedbackService the controller uses.
type FeedbackAPI interface {
	Submit(ctx context.Context, username string, req services.SubmitFeedbackRequest) (*models.Feedback, error)
	AverageRating(ctx context.Context) (*models.RatingSummary, error)
	List(ctx context.Context, feedbackType string, limit int64) ([]models.Feedback, error)
	ListByUser(ctx context.Context, username string) ([]models.Feedback, error)
	Resolve(ctx context.Context, id uuid.UUID, notes string) error
}

type FeedbackController struct {
	feedback FeedbackAPI
}

func NewFeedbackController(feedback FeedbackAPI) *FeedbackController {
	return &FeedbackController{feedback: feedback}
}

func (ctrl *FeedbackController) Submit(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback payload"})
		return
	}

	entry, err := ctrl.feedback.Submit(c.Request.Context(), username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (ctrl *FeedbackController) AverageRating(c *gin.Context) {
	summary, err := ctrl.feedback.AverageRating(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ctrl *FeedbackController) ListMine(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries, err := ctrl.feedback.ListByUser(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": entries, "count": len(entries)})
}

// ListAll returns recent feedback (admin only): ?type=bug_report&limit=50
func (ctrl *FeedbackController) ListAll(c *gin.Context) {
	var limit int64
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit value"})
			return
		}
		limit = parsed
	}

	entries, err := ctrl.feedback.List(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": entries, "count": len(entries)})
}

type resolveRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// Resolve marks a feedback entry handled (admin only).
func (ctrl *FeedbackController) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID format"})
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notes is required"})
		return
	}

	if err := ctrl.feedback.Resolve(c.Request.Context(), id, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback resolved"})
}
