package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockKnowledgeRepository is a mock implementation of KnowledgeRepositoryInterface
type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) List(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKnowledgeRepository) Update(ctx context.Context, k *domain.KnowledgeItem) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKnowledgeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVectorIndex is a mock implementation of VectorIndex
type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error) {
	args := m.Called(ctx, text, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedDocument), args.Error(1)
}

func (m *MockVectorIndex) Add(ctx context.Context, doc domain.VectorDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockVectorIndex) Update(ctx context.Context, doc domain.VectorDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockVectorIndex) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVectorIndex) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTextGenerator is a mock implementation of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// MockUUIDGenerator returns the configured ids in order.
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		uuid := m.uuids[m.callCount]
		m.callCount++
		return uuid
	}
	return "default-uuid"
}

// fakeKnowledgeRepo keeps items in a slice in insertion order.
type fakeKnowledgeRepo struct {
	mu    sync.Mutex
	items []*domain.KnowledgeItem
}

func newFakeKnowledgeRepo(items ...*domain.KnowledgeItem) *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{items: items}
}

func clone(k *domain.KnowledgeItem) *domain.KnowledgeItem {
	c := *k
	c.Keywords = append([]string(nil), k.Keywords...)
	return &c
}

func (f *fakeKnowledgeRepo) List(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.KnowledgeItem, 0, len(f.items))
	for _, k := range f.items {
		out = append(out, clone(k))
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.items {
		if k.ID == id {
			return clone(k), nil
		}
	}
	return nil, domain.ErrKnowledgeNotFound
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.ID == k.ID {
			return domain.ErrKnowledgeAlreadyExists
		}
	}
	f.items = append(f.items, clone(k))
	return nil
}

func (f *fakeKnowledgeRepo) Update(ctx context.Context, k *domain.KnowledgeItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID == k.ID {
			f.items[i] = clone(k)
			return nil
		}
	}
	return domain.ErrKnowledgeNotFound
}

func (f *fakeKnowledgeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrKnowledgeNotFound
}

// fakeUnansweredRepo dedupes on exact question text.
type fakeUnansweredRepo struct {
	mu        sync.Mutex
	entries   []*domain.UnansweredQuestion
	appendErr error
}

func (f *fakeUnansweredRepo) Append(ctx context.Context, q *domain.UnansweredQuestion) (*domain.UnansweredQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	for _, e := range f.entries {
		if e.Question == q.Question {
			return e, nil
		}
	}
	f.entries = append(f.entries, q)
	return q, nil
}

func (f *fakeUnansweredRepo) List(ctx context.Context) ([]*domain.UnansweredQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.UnansweredQuestion{}, f.entries...), nil
}

func (f *fakeUnansweredRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrUnansweredNotFound
}

// fakeIndex returns a fixed result set and records writes.
type fakeIndex struct {
	mu       sync.Mutex
	docs     map[string]domain.VectorDocument
	order    []string
	queryErr error
	writeErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]domain.VectorDocument{}}
}

func (f *fakeIndex) Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := []domain.RetrievedDocument{}
	for _, id := range f.order {
		if len(out) == k {
			break
		}
		doc := f.docs[id]
		out = append(out, domain.RetrievedDocument{Text: doc.Text, Metadata: doc.Metadata})
	}
	return out, nil
}

func (f *fakeIndex) Add(ctx context.Context, doc domain.VectorDocument) error {
	return f.Update(ctx, doc)
}

func (f *fakeIndex) Update(ctx context.Context, doc domain.VectorDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.docs[doc.ID]; !ok {
		f.order = append(f.order, doc.ID)
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	delete(f.docs, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeIndex) ListIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.order...), nil
}

// echoGenerator returns the user content it was given.
type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return user, nil
}

var errGeneratorDown = errors.New("connection refused")

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return "", errGeneratorDown
}
