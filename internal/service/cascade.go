package service

import (
	"context"
	"log"
	"strings"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// Cascade answers a question by exact keyword match first, then by
// retrieval-augmented generation, logging what neither could answer.
type Cascade struct {
	exact      *ExactMatchResolver
	rag        *RAGResolver
	unanswered *UnansweredService
	refusal    string
}

func NewCascade(exact *ExactMatchResolver, rag *RAGResolver, unanswered *UnansweredService, refusal string) *Cascade {
	if refusal == "" {
		refusal = domain.DefaultRefusalMessage
	}
	return &Cascade{
		exact:      exact,
		rag:        rag,
		unanswered: unanswered,
		refusal:    refusal,
	}
}

// Answer runs the cascade. A generation failure is returned as an error after
// the question has been logged as unanswered.
func (c *Cascade) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "Cascade.Answer", telemetry.SpanAttributes{
		Operation: "answer",
	})
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	match, err := c.exact.Resolve(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if match != nil {
		span.SetTag("answer_type", string(domain.AnswerTypeExactMatch))
		span.SetTag("knowledge_id", match.Item.ID)
		return &domain.Answer{
			Type:           domain.AnswerTypeExactMatch,
			Text:           match.Item.Answer,
			Sources:        []domain.RetrievedDocument{},
			MatchedKeyword: match.Keyword,
			ReferenceLink:  match.Item.ReferenceLink,
		}, nil
	}
	telemetry.AddBreadcrumb(ctx, "cascade", "exact match miss")

	result, err := c.rag.Resolve(ctx, question)
	if err != nil {
		span.SetTag("answer_type", "generation_failed")
		c.logUnanswered(ctx, question)
		return nil, err
	}

	if result.Exhausted {
		span.SetTag("answer_type", string(domain.AnswerTypeNoMatch))
		c.logUnanswered(ctx, question)
		return &domain.Answer{
			Type:    domain.AnswerTypeNoMatch,
			Text:    c.refusal,
			Sources: []domain.RetrievedDocument{},
		}, nil
	}

	span.SetTag("answer_type", string(domain.AnswerTypeRAG))
	return &domain.Answer{
		Type:    domain.AnswerTypeRAG,
		Text:    result.Answer,
		Sources: result.Sources,
	}, nil
}

func (c *Cascade) logUnanswered(ctx context.Context, question string) {
	if _, err := c.unanswered.Append(ctx, question); err != nil {
		log.Printf("warning: failed to log unanswered question: %v", err)
		telemetry.CaptureError(ctx, err)
	}
}
