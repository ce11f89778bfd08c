package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// KnowledgeRepositoryInterface defines the repository interface for knowledge persistence.
// List returns items in insertion order.
type KnowledgeRepositoryInterface interface {
	List(ctx context.Context) ([]*domain.KnowledgeItem, error)
	GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error)
	Create(ctx context.Context, k *domain.KnowledgeItem) error
	Update(ctx context.Context, k *domain.KnowledgeItem) error
	Delete(ctx context.Context, id string) error
}

// KnowledgeService administers knowledge items. The record store is written
// first; the vector index is then synced on a best-effort basis.
type KnowledgeService struct {
	repo  KnowledgeRepositoryInterface
	index VectorIndex

	// addMu serializes id assignment so two adds never compute the same id.
	addMu sync.Mutex
}

// NewKnowledgeService creates a new KnowledgeService instance
func NewKnowledgeService(repo KnowledgeRepositoryInterface, index VectorIndex) *KnowledgeService {
	return &KnowledgeService{
		repo:  repo,
		index: index,
	}
}

// AddInput represents the input for adding a knowledge item
type AddInput struct {
	Keywords      []string
	Answer        string
	ReferenceLink string
}

// UpdateInput carries the fields to change. A nil field is left untouched.
type UpdateInput struct {
	Keywords      []string
	Answer        *string
	ReferenceLink *string
}

// List returns every knowledge item in store order.
func (s *KnowledgeService) List(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	return s.repo.List(ctx)
}

// Get returns a single knowledge item.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Add validates the input, assigns the next numeric id and persists the item.
func (s *KnowledgeService) Add(ctx context.Context, input AddInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Add", telemetry.SpanAttributes{
		Operation: "add",
	})
	defer span.End()

	item := &domain.KnowledgeItem{
		Keywords:      domain.NormalizeKeywords(input.Keywords),
		Answer:        strings.TrimSpace(input.Answer),
		ReferenceLink: strings.TrimSpace(input.ReferenceLink),
	}
	if len(item.Keywords) == 0 {
		return nil, domain.ErrInvalidKeywords
	}
	if item.Answer == "" {
		return nil, domain.ErrInvalidAnswer
	}

	if err := s.create(ctx, item); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag("knowledge_id", item.ID)

	doc := item.ToVectorDocument()
	err := s.index.Add(ctx, doc)
	if errors.Is(err, domain.ErrVectorDocumentExists) {
		// A reused id whose previous document was never removed.
		err = s.index.Update(ctx, doc)
	}
	if err != nil {
		s.projectionFailed(ctx, "add", item.ID, err)
	}

	return item, nil
}

// create assigns the next id and persists item while holding addMu.
func (s *KnowledgeService) create(ctx context.Context, item *domain.KnowledgeItem) error {
	s.addMu.Lock()
	defer s.addMu.Unlock()

	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	item.ID = domain.NextKnowledgeID(existing)

	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return err
	}
	return s.repo.Create(ctx, item)
}

// Update merges the supplied fields into the existing item. The id never changes.
func (s *KnowledgeService) Update(ctx context.Context, id string, input UpdateInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Update", telemetry.SpanAttributes{
		KnowledgeID: id,
		Operation:   "update",
	})
	defer span.End()

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Keywords != nil {
		item.Keywords = domain.NormalizeKeywords(input.Keywords)
	}
	if input.Answer != nil {
		item.Answer = strings.TrimSpace(*input.Answer)
	}
	if input.ReferenceLink != nil {
		item.ReferenceLink = strings.TrimSpace(*input.ReferenceLink)
	}

	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.index.Update(ctx, item.ToVectorDocument()); err != nil {
		s.projectionFailed(ctx, "update", item.ID, err)
	}

	return item, nil
}

// Remove deletes the record and requests deletion of its vector document.
func (s *KnowledgeService) Remove(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Remove", telemetry.SpanAttributes{
		KnowledgeID: id,
		Operation:   "remove",
	})
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.index.Delete(ctx, domain.VectorDocumentID(id)); err != nil {
		s.projectionFailed(ctx, "delete", id, err)
	}
	return nil
}

// projectionFailed records a vector index write that left the projection
// diverged from the record store. The record write is never rolled back.
func (s *KnowledgeService) projectionFailed(ctx context.Context, op, knowledgeID string, err error) {
	docID := domain.VectorDocumentID(knowledgeID)
	syncErr := domain.ProjectionSyncFailed(op, docID, err)
	log.Printf("warning: knowledge %s: %v", knowledgeID, syncErr)
	telemetry.CaptureWarning(ctx, "vector index sync failed", map[string]string{
		"operation":    op,
		"knowledge_id": knowledgeID,
		"document_id":  docID,
	})
}
