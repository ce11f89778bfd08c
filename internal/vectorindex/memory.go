package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cloo-solutions/chavis/internal/domain"
)

type memoryEntry struct {
	doc    domain.VectorDocument
	vector []float32
}

// Memory is a brute-force cosine similarity index held in process memory.
// Contents are lost on restart; the server rebuilds it from the record store.
type Memory struct {
	embedder Embedder

	mu      sync.RWMutex
	order   []string
	entries map[string]memoryEntry
}

func NewMemory(embedder Embedder) *Memory {
	return &Memory{
		embedder: embedder,
		entries:  make(map[string]memoryEntry),
	}
}

func (m *Memory) Add(ctx context.Context, doc domain.VectorDocument) error {
	vec, err := m.embedder.GenerateEmbedding(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", doc.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[doc.ID]; ok {
		return ErrDocumentExists
	}
	m.order = append(m.order, doc.ID)
	m.entries[doc.ID] = memoryEntry{doc: doc, vector: vec}
	return nil
}

// Update replaces the document in place, inserting it when absent.
func (m *Memory) Update(ctx context.Context, doc domain.VectorDocument) error {
	vec, err := m.embedder.GenerateEmbedding(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("failed to embed %s: %w", doc.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[doc.ID]; !ok {
		m.order = append(m.order, doc.ID)
	}
	m.entries[doc.ID] = memoryEntry{doc: doc, vector: vec}
	return nil
}

// Delete is a no-op for unknown ids.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return nil
	}
	delete(m.entries, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids, nil
}

func (m *Memory) Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vec, err := m.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		entry memoryEntry
		score float64
	}
	candidates := make([]scored, 0, len(m.order))
	for _, id := range m.order {
		entry := m.entries[id]
		candidates = append(candidates, scored{entry: entry, score: cosine(vec, entry.vector)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]domain.RetrievedDocument, 0, k)
	for _, c := range candidates[:k] {
		results = append(results, domain.RetrievedDocument{
			Text:     c.entry.doc.Text,
			Metadata: copyMetadata(c.entry.doc.Metadata),
		})
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
