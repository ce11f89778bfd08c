package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KnowledgeRepository stores knowledge items in Postgres. Insertion order is
// kept by the seq column.
type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func (r *KnowledgeRepository) Create(ctx context.Context, k *domain.KnowledgeItem) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_items (id, keywords, answer, reference_link, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		k.ID, k.Keywords, k.Answer, k.ReferenceLink, now, now,
	)
	if isUniqueViolation(err) {
		return domain.ErrKnowledgeAlreadyExists
	}
	return err
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	var k domain.KnowledgeItem
	err := r.db.QueryRow(ctx,
		`SELECT id, keywords, answer, reference_link
		 FROM knowledge_items WHERE id = $1`,
		id,
	).Scan(&k.ID, &k.Keywords, &k.Answer, &k.ReferenceLink)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *KnowledgeRepository) List(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, keywords, answer, reference_link
		 FROM knowledge_items ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) Update(ctx context.Context, k *domain.KnowledgeItem) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_items SET keywords = $1, answer = $2, reference_link = $3, updated_at = $4
		 WHERE id = $5`,
		k.Keywords, k.Answer, k.ReferenceLink, time.Now().UTC(), k.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM knowledge_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeItem, error) {
	results := []*domain.KnowledgeItem{}
	for rows.Next() {
		var k domain.KnowledgeItem
		if err := rows.Scan(&k.ID, &k.Keywords, &k.Answer, &k.ReferenceLink); err != nil {
			return nil, err
		}
		results = append(results, &k)
	}
	return results, rows.Err()
}
