// Package jobs runs periodic background work next to the API server.
package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// Job is one unit of periodic work.
type Job interface {
	Run(ctx context.Context) error
}

// Worker runs a Job on a fixed interval until stopped. Runs never overlap; a
// tick that arrives while a run is in progress is dropped by the ticker.
type Worker struct {
	name     string
	job      Job
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu       sync.Mutex
	failures int
}

func NewWorker(name string, job Job, interval time.Duration) *Worker {
	return &Worker{
		name:     name,
		job:      job,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start blocks running the job every interval. The first run happens after one interval.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("%s worker started (interval %v)", w.name, w.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("%s worker stopped: %v", w.name, ctx.Err())
			return
		case <-w.stopCh:
			log.Printf("%s worker stopped", w.name)
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	err := w.job.Run(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err == nil {
		if w.failures > 0 {
			log.Printf("%s worker recovered after %d failed runs", w.name, w.failures)
		}
		w.failures = 0
		return
	}

	w.failures++
	log.Printf("warning: %s worker run failed (%d in a row): %v", w.name, w.failures, err)
	if w.failures == 1 {
		telemetry.CaptureWarning(ctx, w.name+" worker run failed", map[string]string{"worker": w.name})
	}
}

// ConsecutiveFailures returns the length of the current failure streak.
func (w *Worker) ConsecutiveFailures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// Stop signals the worker and waits for Start to return. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}
