package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnansweredRepository stores the unanswered question log in Postgres.
type UnansweredRepository struct {
	db dbtx
}

func NewUnansweredRepository(pool *pgxpool.Pool) *UnansweredRepository {
	return &UnansweredRepository{db: pool}
}

// Append inserts q unless the same question text is already logged, in which
// case the existing entry is returned.
func (r *UnansweredRepository) Append(ctx context.Context, q *domain.UnansweredQuestion) (*domain.UnansweredQuestion, error) {
	var stored domain.UnansweredQuestion
	err := r.db.QueryRow(ctx,
		`INSERT INTO unanswered_questions (id, question, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (question) DO NOTHING
		 RETURNING id, question, created_at`,
		q.ID, q.Question, q.CreatedAt,
	).Scan(&stored.ID, &stored.Question, &stored.CreatedAt)
	if err == nil {
		return &stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT id, question, created_at FROM unanswered_questions WHERE question = $1`,
		q.Question,
	).Scan(&stored.ID, &stored.Question, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *UnansweredRepository) List(ctx context.Context) ([]*domain.UnansweredQuestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question, created_at FROM unanswered_questions ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*domain.UnansweredQuestion{}
	for rows.Next() {
		var q domain.UnansweredQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &q)
	}
	return results, rows.Err()
}

func (r *UnansweredRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM unanswered_questions WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUnansweredNotFound
	}
	return nil
}
