package observability

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrpilot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestManager(t *testing.T, cfg *config.Config) (*ObservabilityManager, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	om, err := newManagerWithReader(reader, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTrackAIOperationWithTokens_RecordsRequestsErrorsAndTokens(t *testing.T) {
	om, reader := newTestManager(t, nil)
	metrics := om.GetMetrics()
	ctx := context.Background()

	err := metrics.TrackAIOperationWithTokens(ctx, "analyze_jd", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}
	}, om)
	require.NoError(t, err)

	boom := stderrors.New("boom")
	err = metrics.TrackAIOperationWithTokens(ctx, "score_cv", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: boom}
	}, om)
	assert.ErrorIs(t, err, boom)

	got := collect(t, reader)
	assert.EqualValues(t, 2, counterTotal(t, got["hrpilot_ai_requests_total"]))
	assert.EqualValues(t, 1, counterTotal(t, got["hrpilot_ai_errors_total"]))

	hist, ok := got["hrpilot_ai_token_usage"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	byType := map[string]int64{}
	for _, dp := range hist.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("token_type"))
		byType[v.AsString()] += dp.Sum
		op, _ := dp.Attributes.Value(attribute.Key("operation"))
		assert.Equal(t, "analyze_jd", op.AsString())
	}
	assert.Equal(t, map[string]int64{"input": 10, "output": 5, "total": 15}, byType)
}

func TestRecordBusinessMetric_RespectsConfigToggles(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.CustomMetrics.BusinessMetrics.Enabled = true
	cfg.Observability.CustomMetrics.BusinessMetrics.TrackFallbacks = false
	cfg.Observability.CustomMetrics.Infrastructure.Enabled = true
	cfg.Observability.CustomMetrics.Infrastructure.TrackVideoJobs = true
	cfg.Observability.CustomMetrics.Infrastructure.TrackRateLimits = true

	om, reader := newTestManager(t, cfg)
	metrics := om.GetMetrics()
	ctx := context.Background()
	tool := attribute.String("tool", "sentiment")

	metrics.RecordBusinessMetric(ctx, MetricToolInvoked, true, om, tool)
	metrics.RecordBusinessMetric(ctx, MetricToolInvoked, false, om, tool)
	metrics.RecordBusinessMetric(ctx, MetricFallbackSubstituted, true, om, tool)
	metrics.RecordBusinessMetric(ctx, MetricVideoPolled, true, om)
	metrics.RecordBusinessMetric(ctx, MetricVideoJobFinished, true, om, attribute.String("outcome", "ready"))
	metrics.RecordBusinessMetric(ctx, MetricRateLimitWait, true, om, tool)
	metrics.RecordBusinessMetric(ctx, "unknown", true, om)

	got := collect(t, reader)
	assert.EqualValues(t, 2, counterTotal(t, got["hrpilot_tool_invocations_total"]))
	assert.EqualValues(t, 1, counterTotal(t, got["hrpilot_video_polls_total"]))
	assert.EqualValues(t, 1, counterTotal(t, got["hrpilot_video_jobs_total"]))
	assert.EqualValues(t, 1, counterTotal(t, got["hrpilot_rate_limit_waits_total"]))
	_, recorded := got["hrpilot_fallbacks_total"]
	assert.False(t, recorded, "fallback tracking is switched off")
}

func TestNilManagerIsSafe(t *testing.T) {
	var om *ObservabilityManager
	metrics := om.GetMetrics()

	called := false
	err := metrics.TrackAIOperationWithTokens(context.Background(), "chat_turn", func(context.Context) *AIOperationResult {
		called = true
		return nil
	}, om)
	assert.NoError(t, err)
	assert.True(t, called)

	metrics.RecordBusinessMetric(context.Background(), MetricToolInvoked, true, om)
	assert.NotNil(t, om.Tracer("x"))
	assert.NoError(t, om.Shutdown(context.Background()))
	assert.Same(t, http.DefaultTransport, om.HTTPTransport(nil))
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(GetObservabilityConfig(nil, "test"), nil)
	require.NoError(t, err)
	assert.False(t, om.Enabled())
	assert.Nil(t, om.GetMetrics().AIRequestCount)
}

func TestHTTPTransport_InstrumentsRequests(t *testing.T) {
	om, reader := newTestManager(t, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: om.HTTPTransport(nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got := collect(t, reader)
	assert.NotEmpty(t, got, "otelhttp should record client metrics")
}

func TestGetObservabilityConfig_UsesAppVersionWhenUnset(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "hrpilot"
	cfg.Observability.Prometheus.Port = "9191"

	obs := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, "9191", obs.Prometheus.Port)

	cfg.Observability.ServiceVersion = "2.0.0"
	assert.Equal(t, "2.0.0", GetObservabilityConfig(cfg, "1.2.3").ServiceVersion)
}
