package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PGVector keeps vector documents in the vector_documents table.
type PGVector struct {
	pool     *pgxpool.Pool
	embedder Embedder
}

func NewPGVector(pool *pgxpool.Pool, embedder Embedder) *PGVector {
	return &PGVector{pool: pool, embedder: embedder}
}

func (p *PGVector) embed(ctx context.Context, doc domain.VectorDocument) (pgvector.Vector, []byte, error) {
	vec, err := p.embedder.GenerateEmbedding(ctx, doc.Text)
	if err != nil {
		return pgvector.Vector{}, nil, fmt.Errorf("failed to embed %s: %w", doc.ID, err)
	}
	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return pgvector.Vector{}, nil, fmt.Errorf("failed to encode metadata for %s: %w", doc.ID, err)
	}
	return pgvector.NewVector(vec), metadataJSON, nil
}

func (p *PGVector) Add(ctx context.Context, doc domain.VectorDocument) error {
	vec, metadataJSON, err := p.embed(ctx, doc)
	if err != nil {
		return err
	}
	cmdTag, err := p.pool.Exec(ctx,
		`INSERT INTO vector_documents (id, content, metadata, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		doc.ID, doc.Text, metadataJSON, vec,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDocumentExists
	}
	return nil
}

// Update upserts the document at its id.
func (p *PGVector) Update(ctx context.Context, doc domain.VectorDocument) error {
	vec, metadataJSON, err := p.embed(ctx, doc)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO vector_documents (id, content, metadata, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding, updated_at = NOW()`,
		doc.ID, doc.Text, metadataJSON, vec,
	)
	return err
}

func (p *PGVector) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM vector_documents WHERE id = $1`, id)
	return err
}

func (p *PGVector) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM vector_documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *PGVector) Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	embedding, err := p.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT content, metadata
		 FROM vector_documents
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.RetrievedDocument, 0, k)
	for rows.Next() {
		var doc domain.RetrievedDocument
		var metadataJSON []byte
		if err := rows.Scan(&doc.Text, &metadataJSON); err != nil {
			return nil, err
		}
		doc.Metadata = map[string]any{}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}
