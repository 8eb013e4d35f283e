package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback categories.
const (
	FeedbackSuggestion = "suggestion"
	FeedbackBugReport  = "bug_report"
	FeedbackCompliment = "compliment"
	FeedbackOther      = "other"
)

// ValidFeedbackType reports whether t is a known feedback category.
func ValidFeedbackType(t string) bool {
	switch t {
	case FeedbackSuggestion, FeedbackBugReport, FeedbackCompliment, FeedbackOther:
		return true
	}
	return false
}

// Feedback is a user-submitted entry. Only an admin resolve action mutates it;
// entries are never deleted.
type Feedback struct {
	ID              uuid.UUID  `json:"id" bson:"_id"`
	User            string     `json:"user" bson:"user"`
	Type            string     `json:"type" bson:"type"`
	Message         string     `json:"message" bson:"message"`
	Rating          int        `json:"rating" bson:"rating"`
	SubmittedAt     time.Time  `json:"submitted_at" bson:"submitted_at"`
	Resolved        bool       `json:"resolved" bson:"resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty" bson:"resolution_notes,omitempty"`
}

// RatingSummary is the aggregate over all feedback entries. Zero values when
// no feedback exists.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating" bson:"average_rating"`
	Count         int64   `json:"count" bson:"count"`
}
