package service

import (
	"context"
	"strings"
	"time"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/telemetry"
	"github.com/google/uuid"
)

// UnansweredRepositoryInterface defines the persistence of the unanswered log.
// Append returns the already stored entry when the question text exists.
type UnansweredRepositoryInterface interface {
	Append(ctx context.Context, q *domain.UnansweredQuestion) (*domain.UnansweredQuestion, error)
	List(ctx context.Context) ([]*domain.UnansweredQuestion, error)
	Delete(ctx context.Context, id string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator produces time-ordered UUIDv7 strings.
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// UnansweredService records questions the cascade could not answer.
type UnansweredService struct {
	repo    UnansweredRepositoryInterface
	uuidGen UUIDGenerator
	now     func() time.Time
}

// NewUnansweredService creates a new UnansweredService instance
func NewUnansweredService(repo UnansweredRepositoryInterface) *UnansweredService {
	return NewUnansweredServiceWithUUIDGen(repo, &DefaultUUIDGenerator{})
}

// NewUnansweredServiceWithUUIDGen creates a new UnansweredService with custom UUID generator (for testing)
func NewUnansweredServiceWithUUIDGen(repo UnansweredRepositoryInterface, uuidGen UUIDGenerator) *UnansweredService {
	return &UnansweredService{
		repo:    repo,
		uuidGen: uuidGen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Append logs question unless the same trimmed text is already logged.
func (s *UnansweredService) Append(ctx context.Context, question string) (*domain.UnansweredQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	q := domain.NewUnansweredQuestion(s.uuidGen.NewString(), question, s.now())
	if err := domain.ValidateUnansweredQuestion(q); err != nil {
		return nil, err
	}
	return s.repo.Append(ctx, q)
}

// List returns entries in insertion order.
func (s *UnansweredService) List(ctx context.Context) ([]*domain.UnansweredQuestion, error) {
	return s.repo.List(ctx)
}

func (s *UnansweredService) Remove(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "UnansweredService.Remove", telemetry.SpanAttributes{
		UnansweredID: id,
		Operation:    "remove",
	})
	defer span.End()

	return s.repo.Delete(ctx, id)
}
