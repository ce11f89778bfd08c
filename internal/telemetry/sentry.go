// Package telemetry wraps Sentry tracing and event capture for the answering
// cascade and knowledge administration. Every helper is a no-op until Init
// has been called with a DSN.
package telemetry

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

const serverName = "chavis"

// Config holds the configuration for Sentry initialization.
type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	Debug            bool
}

// Init initializes Sentry and returns a func that flushes pending events.
// An empty DSN disables Sentry.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.TracesSampleRate == 0 {
		cfg.TracesSampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.DSN,
		Environment:   cfg.Environment,
		Release:       cfg.Release,
		ServerName:    serverName,
		Debug:         cfg.Debug,
		EnableTracing: true,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			return sampleRate(ctx.Span, cfg.TracesSampleRate)
		}),
	})
	if err != nil {
		return func() {}, err
	}

	log.Printf("sentry: initialized (environment: %s, sample_rate: %.2f)", cfg.Environment, cfg.TracesSampleRate)
	return func() { sentry.Flush(5 * time.Second) }, nil
}

// sampleRate drops health probes and lets child spans follow their parent.
func sampleRate(span *sentry.Span, rate float64) float64 {
	if span == nil {
		return rate
	}
	if span.Name == "GET /health" {
		return 0
	}
	if span.ParentSpanID != (sentry.SpanID{}) {
		if span.Sampled.Bool() {
			return 1
		}
		return 0
	}
	return rate
}

// SpanAttributes are the tags attached to cascade and administration spans.
type SpanAttributes struct {
	KnowledgeID  string
	UnansweredID string
	Stage        string
	Operation    string
}

func (a SpanAttributes) apply(span *sentry.Span) {
	if a.KnowledgeID != "" {
		span.SetTag("knowledge_id", a.KnowledgeID)
	}
	if a.UnansweredID != "" {
		span.SetTag("unanswered_id", a.UnansweredID)
	}
	if a.Stage != "" {
		span.SetTag("cascade_stage", a.Stage)
	}
	if a.Operation != "" {
		span.SetData("operation", a.Operation)
	}
}

// Span is a nil-safe handle on a Sentry span.
type Span struct {
	inner *sentry.Span
}

// StartSpan starts a child of the span in ctx, or a new transaction when ctx has none.
func StartSpan(ctx context.Context, name string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(name)
	} else {
		span = sentry.StartSpan(ctx, name, sentry.WithTransactionName(name))
	}
	attrs.apply(span)
	return span.Context(), &Span{inner: span}
}

// End finishes the span.
func (s *Span) End() {
	if s.inner != nil {
		s.inner.Finish()
	}
}

// SetTag sets a tag on the span.
func (s *Span) SetTag(key, value string) {
	if s.inner != nil {
		s.inner.SetTag(key, value)
	}
}

// SetError marks the span failed. Server-side failures are also captured as
// exceptions; client errors such as validation or not-found only set the status.
func (s *Span) SetError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	if isClientError(err) {
		s.inner.Status = sentry.SpanStatusInvalidArgument
		return
	}
	s.inner.Status = sentry.SpanStatusInternalError
	CaptureError(s.inner.Context(), err)
}

// clientError is implemented by errors that carry an HTTP-facing classification.
type clientError interface {
	ClientError() bool
}

func isClientError(err error) bool {
	var ce clientError
	return errors.As(err, &ce) && ce.ClientError()
}

func hubFor(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureError captures err on the hub carried by ctx.
func CaptureError(ctx context.Context, err error) {
	hubFor(ctx).CaptureException(err)
}

// CaptureWarning captures a warning-level message tagged with the given pairs.
func CaptureWarning(ctx context.Context, message string, tags map[string]string) {
	hub := hubFor(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureMessage(message)
	})
}

// AddBreadcrumb records a cascade step on the hub carried by ctx.
func AddBreadcrumb(ctx context.Context, category, message string) {
	hubFor(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "default",
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}, nil)
}
