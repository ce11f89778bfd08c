package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/chavis/internal/service"
)

// Rebuilder brings the vector index in line with the record store.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*service.RebuildReport, error)
}

// ReconcileJob repairs projection drift left by failed best-effort vector index writes.
type ReconcileJob struct {
	rebuilder Rebuilder
}

func NewReconcileJob(rebuilder Rebuilder) *ReconcileJob {
	return &ReconcileJob{rebuilder: rebuilder}
}

func (j *ReconcileJob) Run(ctx context.Context) error {
	report, err := j.rebuilder.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild projection: %w", err)
	}
	if report.Deleted > 0 {
		log.Printf("reconcile: removed %d orphaned vector documents", report.Deleted)
	}
	if report.Failed > 0 {
		return fmt.Errorf("projection rebuild left %d documents unsynced", report.Failed)
	}
	return nil
}
