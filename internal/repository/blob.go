package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/storage"
)

const (
	KnowledgeObjectKey  = "knowledge.json"
	UnansweredObjectKey = "unanswered.json"
)

// errUnchanged aborts a modify without writing the collection back.
var errUnchanged = errors.New("collection unchanged")

// collection reads and replaces a whole JSON array stored under one key.
// Writes within a process are serialized by mu.
type collection[T any] struct {
	store storage.BlobStore
	key   string
	mu    *sync.Mutex
}

func newCollection[T any](store storage.BlobStore, key string) collection[T] {
	return collection[T]{store: store, key: key, mu: &sync.Mutex{}}
}

func (c collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return c.store.Put(ctx, c.key, data)
}

// modify loads the collection, applies fn and saves the result while holding mu.
func (c collection[T]) modify(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

type knowledgeRecord struct {
	ID            string   `json:"id"`
	Keywords      []string `json:"keywords"`
	Answer        string   `json:"answer"`
	ReferenceLink string   `json:"referenceLink"`
}

func (r knowledgeRecord) toDomain() *domain.KnowledgeItem {
	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &domain.KnowledgeItem{
		ID:            r.ID,
		Keywords:      keywords,
		Answer:        r.Answer,
		ReferenceLink: r.ReferenceLink,
	}
}

func knowledgeRecordFrom(k *domain.KnowledgeItem) knowledgeRecord {
	return knowledgeRecord{
		ID:            k.ID,
		Keywords:      k.Keywords,
		Answer:        k.Answer,
		ReferenceLink: k.ReferenceLink,
	}
}

// BlobKnowledgeRepository keeps the knowledge collection as one JSON document.
type BlobKnowledgeRepository struct {
	items collection[knowledgeRecord]
}

func NewBlobKnowledgeRepository(store storage.BlobStore) *BlobKnowledgeRepository {
	return &BlobKnowledgeRepository{items: newCollection[knowledgeRecord](store, KnowledgeObjectKey)}
}

func (r *BlobKnowledgeRepository) List(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	records, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*domain.KnowledgeItem, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.toDomain())
	}
	return results, nil
}

func (r *BlobKnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	records, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrKnowledgeNotFound
}

func (r *BlobKnowledgeRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	return r.items.modify(ctx, func(records []knowledgeRecord) ([]knowledgeRecord, error) {
		for _, rec := range records {
			if rec.ID == k.ID {
				return nil, domain.ErrKnowledgeAlreadyExists
			}
		}
		return append(records, knowledgeRecordFrom(k)), nil
	})
}

func (r *BlobKnowledgeRepository) Update(ctx context.Context, k *domain.KnowledgeItem) error {
	return r.items.modify(ctx, func(records []knowledgeRecord) ([]knowledgeRecord, error) {
		for i, rec := range records {
			if rec.ID == k.ID {
				records[i] = knowledgeRecordFrom(k)
				return records, nil
			}
		}
		return nil, domain.ErrKnowledgeNotFound
	})
}

func (r *BlobKnowledgeRepository) Delete(ctx context.Context, id string) error {
	return r.items.modify(ctx, func(records []knowledgeRecord) ([]knowledgeRecord, error) {
		for i, rec := range records {
			if rec.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, domain.ErrKnowledgeNotFound
	})
}

type unansweredRecord struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r unansweredRecord) toDomain() *domain.UnansweredQuestion {
	return &domain.UnansweredQuestion{ID: r.ID, Question: r.Question, CreatedAt: r.CreatedAt}
}

// BlobUnansweredRepository keeps the unanswered log as one JSON document.
type BlobUnansweredRepository struct {
	entries collection[unansweredRecord]
}

func NewBlobUnansweredRepository(store storage.BlobStore) *BlobUnansweredRepository {
	return &BlobUnansweredRepository{entries: newCollection[unansweredRecord](store, UnansweredObjectKey)}
}

func (r *BlobUnansweredRepository) Append(ctx context.Context, q *domain.UnansweredQuestion) (*domain.UnansweredQuestion, error) {
	result := unansweredRecord{ID: q.ID, Question: q.Question, CreatedAt: q.CreatedAt}
	err := r.entries.modify(ctx, func(records []unansweredRecord) ([]unansweredRecord, error) {
		for _, rec := range records {
			if rec.Question == q.Question {
				result = rec
				return nil, errUnchanged
			}
		}
		return append(records, result), nil
	})
	if err != nil {
		return nil, err
	}
	return result.toDomain(), nil
}

func (r *BlobUnansweredRepository) List(ctx context.Context) ([]*domain.UnansweredQuestion, error) {
	records, err := r.entries.load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*domain.UnansweredQuestion, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.toDomain())
	}
	return results, nil
}

func (r *BlobUnansweredRepository) Delete(ctx context.Context, id string) error {
	return r.entries.modify(ctx, func(records []unansweredRecord) ([]unansweredRecord, error) {
		for i, rec := range records {
			if rec.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, domain.ErrUnansweredNotFound
	})
}
