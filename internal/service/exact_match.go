package service

import (
	"context"
	"strings"

	"github.com/cloo-solutions/chavis/internal/domain"
)

// KnowledgeLister is the read side of the knowledge store used for matching.
type KnowledgeLister interface {
	List(ctx context.Context) ([]*domain.KnowledgeItem, error)
}

// Match is the winning item together with the keyword that matched.
type Match struct {
	Item    *domain.KnowledgeItem
	Keyword string
}

// ExactMatchResolver finds the first item whose keyword occurs in the question.
type ExactMatchResolver struct {
	items KnowledgeLister
}

func NewExactMatchResolver(items KnowledgeLister) *ExactMatchResolver {
	return &ExactMatchResolver{items: items}
}

// Resolve scans items in store order and each item's keywords in order,
// comparing case-insensitively by substring. It returns nil when nothing matches.
func (r *ExactMatchResolver) Resolve(ctx context.Context, question string) (*Match, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(question)
	for _, item := range items {
		for _, kw := range item.Keywords {
			needle := strings.ToLower(strings.TrimSpace(kw))
			if needle == "" {
				continue
			}
			if strings.Contains(q, needle) {
				return &Match{Item: item, Keyword: kw}, nil
			}
		}
	}
	return nil, nil
}
