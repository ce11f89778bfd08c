package service

import (
	"context"
	"errors"
	"log"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// RebuildReport summarizes a projection rebuild.
type RebuildReport struct {
	Upserted int `json:"upserted"`
	Deleted  int `json:"deleted"`
	Failed   int `json:"failed"`
}

// KnowledgeReader is the read side of the knowledge store used by the rebuild.
type KnowledgeReader interface {
	KnowledgeLister
	GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error)
}

// ProjectionService brings the vector index back in line with the record store.
type ProjectionService struct {
	repo  KnowledgeReader
	index VectorIndex
}

func NewProjectionService(repo KnowledgeReader, index VectorIndex) *ProjectionService {
	return &ProjectionService{repo: repo, index: index}
}

// Rebuild upserts the document of every record, then deletes knowledge
// documents whose record no longer exists. A document missing from the initial
// listing is only deleted once its record is confirmed gone, so items added
// during the rebuild keep their documents. Individual failures are counted and
// logged; only a record store read error aborts the rebuild.
func (s *ProjectionService) Rebuild(ctx context.Context) (*RebuildReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectionService.Rebuild", telemetry.SpanAttributes{
		Operation: "rebuild",
	})
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	report := &RebuildReport{}
	live := make(map[string]struct{}, len(items))
	for _, item := range items {
		live[item.ID] = struct{}{}
		doc := item.ToVectorDocument()
		if err := s.index.Update(ctx, doc); err != nil {
			report.Failed++
			log.Printf("warning: %v", domain.ProjectionSyncFailed("upsert", doc.ID, err))
			continue
		}
		report.Upserted++
	}

	ids, err := s.index.ListIDs(ctx)
	if err != nil {
		log.Printf("warning: skipping stale document cleanup: %v", err)
	} else {
		for _, docID := range ids {
			knowledgeID, ok := domain.KnowledgeIDFromDocumentID(docID)
			if !ok {
				continue
			}
			if _, exists := live[knowledgeID]; exists {
				continue
			}
			if _, err := s.repo.GetByID(ctx, knowledgeID); !errors.Is(err, domain.ErrKnowledgeNotFound) {
				if err != nil {
					report.Failed++
					log.Printf("warning: cannot confirm record %s before deleting %s: %v", knowledgeID, docID, err)
				}
				continue
			}
			if err := s.index.Delete(ctx, docID); err != nil {
				report.Failed++
				log.Printf("warning: %v", domain.ProjectionSyncFailed("delete", docID, err))
				continue
			}
			report.Deleted++
		}
	}

	if report.Failed > 0 {
		telemetry.CaptureWarning(ctx, "projection rebuild incomplete", map[string]string{"operation": "rebuild"})
	}
	log.Printf("projection rebuild: upserted=%d deleted=%d failed=%d", report.Upserted, report.Deleted, report.Failed)
	return report, nil
}
