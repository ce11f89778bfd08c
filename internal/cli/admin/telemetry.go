package admin

import (
	"log"
	"os"
	"strconv"

	"github.com/cloo-solutions/chavis/internal/telemetry"
)

// initTelemetry enables Sentry when SENTRY_DSN is set. The returned func flushes events.
// SENTRY_TRACES_SAMPLE_RATE overrides the environment default of 1.0 in
// development and 0.1 elsewhere.
func initTelemetry(debug bool) func() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return func() {}
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	sampleRate := 0.1
	if environment == "development" {
		sampleRate = 1.0
	}
	if raw := os.Getenv("SENTRY_TRACES_SAMPLE_RATE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v <= 1 {
			sampleRate = v
		} else {
			log.Printf("ignoring invalid SENTRY_TRACES_SAMPLE_RATE %q", raw)
		}
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              dsn,
		Environment:      environment,
		Release:          os.Getenv("SENTRY_RELEASE"),
		TracesSampleRate: sampleRate,
		Debug:            debug,
	})
	if err != nil {
		log.Printf("sentry: failed to initialize (continuing without tracing): %v", err)
		return func() {}
	}
	return shutdown
}
