// Package vectorindex stores the derived projection of knowledge items and
// answers nearest-neighbor queries over it.
package vectorindex

import (
	"context"

	"github.com/cloo-solutions/chavis/internal/domain"
)

// DefaultTopK is the number of documents retrieved per question.
const DefaultTopK = 5

var (
	// ErrIndexDisabled is returned by every operation of the disabled index.
	ErrIndexDisabled = domain.ErrVectorIndexDisabled
	// ErrDocumentExists is returned by Add when the id is already indexed.
	ErrDocumentExists = domain.ErrVectorDocumentExists
)

// Embedder converts text into a vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Disabled is used when no embedding provider is configured. Writes fail and
// are logged as projection warnings by callers; queries degrade to no results.
type Disabled struct{}

func (Disabled) Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error) {
	return nil, ErrIndexDisabled
}

func (Disabled) Add(ctx context.Context, doc domain.VectorDocument) error {
	return ErrIndexDisabled
}

func (Disabled) Update(ctx context.Context, doc domain.VectorDocument) error {
	return ErrIndexDisabled
}

func (Disabled) Delete(ctx context.Context, id string) error {
	return ErrIndexDisabled
}

func (Disabled) ListIDs(ctx context.Context) ([]string, error) {
	return nil, ErrIndexDisabled
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
