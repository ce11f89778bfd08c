package domain

import (
	"strings"
	"time"
)

// UnansweredQuestion is a question the answering cascade could not resolve.
type UnansweredQuestion struct {
	ID        string
	Question  string
	CreatedAt time.Time
}

// NewUnansweredQuestion creates a new UnansweredQuestion with a trimmed question.
func NewUnansweredQuestion(id, question string, createdAt time.Time) *UnansweredQuestion {
	return &UnansweredQuestion{
		ID:        id,
		Question:  strings.TrimSpace(question),
		CreatedAt: createdAt,
	}
}

// ValidateUnansweredQuestion validates an UnansweredQuestion instance
func ValidateUnansweredQuestion(q *UnansweredQuestion) error {
	if q == nil {
		return ErrMissingRequiredField
	}
	if q.ID == "" {
		return NewDomainError(ErrCodeValidation, "unanswered question ID is required")
	}
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}
