package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

func (m *SentryMetrics) active() bool {
	return m != nil && m.enabled
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.active() {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGenerationDuration records a loop generation on the request transaction
func (m *SentryMetrics) RecordGenerationDuration(ctx context.Context, style string, seed uint64, duration time.Duration, success bool) {
	if !m.active() {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("loop.style", style)
		transaction.SetData("loop.seed", seed)
	}

	span := sentry.StartSpan(ctx, "loop.generate")
	defer span.Finish()

	span.SetTag("style", style)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("seed", seed)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Loop Generation: %s", style)
}

// RecordStage records the duration of one export stage (midi, score, cover)
func (m *SentryMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if !m.active() {
		return
	}

	span := sentry.StartSpan(ctx, "loop.export."+stage)
	defer span.Finish()

	span.Description = stage
	span.SetData("duration_ms", duration.Milliseconds())
	if err != nil {
		span.SetData("error", err.Error())
		span.Status = sentry.SpanStatusInternalError
		return
	}
	span.Status = sentry.SpanStatusOK
}
