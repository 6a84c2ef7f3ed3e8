package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric.
const (
	MetricToolInvoked         = "tool_invoked"
	MetricFallbackSubstituted = "fallback_substituted"
	MetricVideoPolled         = "video_polled"
	MetricVideoJobFinished    = "video_job_finished"
	MetricRateLimitWait       = "rate_limit_wait"
)

// Metrics holds all custom metrics for hrpilot. The zero value is usable and
// records nothing.
type Metrics struct {
	// AI gateway
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Typed tools
	ToolInvocations metric.Int64Counter
	Fallbacks       metric.Int64Counter

	// Video jobs
	VideoPolls       metric.Int64Counter
	VideoJobs        metric.Int64Counter
	VideoJobDuration metric.Float64Histogram

	RateLimitWaits metric.Int64Counter
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	for _, create := range []func(metric.Meter) error{
		m.createAIMetrics,
		m.createToolMetrics,
		m.createVideoMetrics,
	} {
		if err := create(meter); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"hrpilot_ai_processing_duration_seconds",
		metric.WithDescription("Time spent in model calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"hrpilot_ai_requests_total",
		metric.WithDescription("Total number of model calls"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"hrpilot_ai_errors_total",
		metric.WithDescription("Total number of failed model calls"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"hrpilot_ai_token_usage",
		metric.WithDescription("Token usage per model call (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	m.RateLimitWaits, err = meter.Int64Counter(
		"hrpilot_rate_limit_waits_total",
		metric.WithDescription("Model calls that had to wait for a rate limiter token"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit wait metric: %w", err)
	}

	return nil
}

func (m *Metrics) createToolMetrics(meter metric.Meter) error {
	var err error

	m.ToolInvocations, err = meter.Int64Counter(
		"hrpilot_tool_invocations_total",
		metric.WithDescription("Typed tool invocations by tool and outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tool invocation metric: %w", err)
	}

	m.Fallbacks, err = meter.Int64Counter(
		"hrpilot_fallbacks_total",
		metric.WithDescription("Tool results replaced by their fallback value"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallback metric: %w", err)
	}

	return nil
}

func (m *Metrics) createVideoMetrics(meter metric.Meter) error {
	var err error

	m.VideoPolls, err = meter.Int64Counter(
		"hrpilot_video_polls_total",
		metric.WithDescription("Status checks issued against video jobs"),
	)
	if err != nil {
		return fmt.Errorf("failed to create video poll metric: %w", err)
	}

	m.VideoJobs, err = meter.Int64Counter(
		"hrpilot_video_jobs_total",
		metric.WithDescription("Finished video jobs by outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create video job metric: %w", err)
	}

	m.VideoJobDuration, err = meter.Float64Histogram(
		"hrpilot_video_job_duration_seconds",
		metric.WithDescription("Time from submission to a terminal video job state"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create video job duration metric: %w", err)
	}

	return nil
}

// TrackAIOperationWithTokens instruments an AI operation with tracing, metrics, and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m == nil || m.AIProcessingTime == nil {
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := om.Tracer("hrpilot.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.isAIMetricsEnabled(om) {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (m *Metrics) isAIMetricsEnabled(om *ObservabilityManager) bool {
	if om == nil || om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations.Enabled
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.recordTokenUsage(ctx, result, attrs, om, span)

	span.SetAttributes(attrs...)
}

func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, om *ObservabilityManager, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}

	if om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackTokenUsage {
		usage := result.TokenUsage
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			tokenAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
			tokenAttrs = append(tokenAttrs, attrs...)
			tokenAttrs = append(tokenAttrs, attribute.String("token_type", tt.tokenType))
			m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
		attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
		attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
	)
}

// RecordBusinessMetric records one of the Metric* event types.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if m == nil {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	switch metricType {
	case MetricToolInvoked:
		if m.businessEnabled(om) {
			add(ctx, m.ToolInvocations, attrs)
		}
	case MetricFallbackSubstituted:
		if m.businessEnabled(om) && (om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.BusinessMetrics.TrackFallbacks) {
			add(ctx, m.Fallbacks, attrs)
		}
	case MetricVideoPolled:
		if m.videoEnabled(om) {
			add(ctx, m.VideoPolls, attrs)
		}
	case MetricVideoJobFinished:
		if m.videoEnabled(om) {
			add(ctx, m.VideoJobs, attrs)
		}
	case MetricRateLimitWait:
		// Rate limiting is an infrastructure metric
		if om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
			add(ctx, m.RateLimitWaits, attrs)
		}
	}
}

// RecordVideoJobDuration records how long a video job took to settle.
func (m *Metrics) RecordVideoJobDuration(ctx context.Context, d time.Duration, outcome string, om *ObservabilityManager) {
	if m == nil || m.VideoJobDuration == nil || !m.videoEnabled(om) {
		return
	}
	m.VideoJobDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) businessEnabled(om *ObservabilityManager) bool {
	return om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled
}

func (m *Metrics) videoEnabled(om *ObservabilityManager) bool {
	if om == nil || om.fullConfig == nil {
		return true
	}
	infra := om.fullConfig.Observability.CustomMetrics.Infrastructure
	return infra.Enabled && infra.TrackVideoJobs
}

func add(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
