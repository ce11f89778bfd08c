package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// VectorIndex is the derived nearest-neighbor projection of the knowledge store.
type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]domain.RetrievedDocument, error)
	Add(ctx context.Context, doc domain.VectorDocument) error
	Update(ctx context.Context, doc domain.VectorDocument) error
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}

// TextGenerator produces an answer from a system framing and user content.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// TopK is the number of documents retrieved for grounding.
const TopK = 5

// RAGResult is the outcome of retrieval-augmented resolution. Exhausted is set
// when no usable document was retrieved and generation was skipped.
type RAGResult struct {
	Sources   []domain.RetrievedDocument
	Answer    string
	Exhausted bool
}

// RAGResolver retrieves documents for a question and generates a grounded answer.
type RAGResolver struct {
	index     VectorIndex
	generator TextGenerator
	refusal   string
}

func NewRAGResolver(index VectorIndex, generator TextGenerator, refusal string) *RAGResolver {
	if refusal == "" {
		refusal = domain.DefaultRefusalMessage
	}
	return &RAGResolver{
		index:     index,
		generator: generator,
		refusal:   refusal,
	}
}

// SystemPrompt restricts the model to the supplied knowledge and quotes the
// refusal sentence it must use otherwise.
func SystemPrompt(refusal string) string {
	return fmt.Sprintf("당신은 사내 지식 가이드 챗봇(CHAVIS)입니다. 아래 [사내 지식]만을 참고하여 질문에 친절하고 정확하게 답변하세요. 참고 자료에 없는 내용은 \"%s\"라고 답하세요.", refusal)
}

// UserPrompt lays out the grounding context followed by the question.
func UserPrompt(groundingContext, question string) string {
	return fmt.Sprintf("[사내 지식]\n%s\n\n[질문]\n%s", groundingContext, question)
}

// Resolve queries the vector index and, if anything usable comes back, asks the
// generator for an answer grounded only on those documents. Index failures are
// treated as an empty result; a disabled index is not reported as a failure.
func (r *RAGResolver) Resolve(ctx context.Context, question string) (*RAGResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RAGResolver.Resolve", telemetry.SpanAttributes{
		Stage:     "retrieval",
		Operation: "resolve",
	})
	defer span.End()

	docs, err := r.index.Query(ctx, question, TopK)
	switch {
	case errors.Is(err, domain.ErrVectorIndexDisabled):
		span.SetTag("retrieval", "disabled")
		docs = nil
	case err != nil:
		retrievalErr := domain.NewDomainErrorWithCause(domain.ErrCodeRetrievalFailure, domain.ErrRetrievalFailed.Message, err)
		log.Printf("warning: retrieval degraded: %v", retrievalErr)
		span.SetTag("retrieval", "degraded")
		telemetry.CaptureWarning(ctx, "retrieval degraded", map[string]string{"stage": "retrieval"})
		docs = nil
	}

	sources := usableDocuments(docs)
	if len(sources) == 0 {
		return &RAGResult{Sources: []domain.RetrievedDocument{}, Exhausted: true}, nil
	}

	texts := make([]string, 0, len(sources))
	for _, doc := range sources {
		texts = append(texts, doc.Text)
	}

	answer, err := r.generator.Generate(ctx, SystemPrompt(r.refusal), UserPrompt(strings.Join(texts, "\n\n"), question))
	if err != nil {
		span.SetError(err)
		return nil, domain.GenerationFailed(err)
	}

	return &RAGResult{Sources: sources, Answer: answer}, nil
}

// usableDocuments drops documents without text and fills in missing metadata,
// keeping provider order.
func usableDocuments(docs []domain.RetrievedDocument) []domain.RetrievedDocument {
	out := make([]domain.RetrievedDocument, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		if doc.Metadata == nil {
			doc.Metadata = map[string]any{}
		}
		out = append(out, doc)
	}
	return out
}
