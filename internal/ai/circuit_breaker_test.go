package ai

import (
	"fmt"
	"testing"
	"time"

	"hrpilot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func breakerConfig(minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakersPerRole(t *testing.T) {
	text := NewAICircuitBreaker(config.RoleText, breakerConfig(2, 0.5), nil)
	speech := NewAICircuitBreaker(config.RoleSpeech, breakerConfig(2, 0.5), nil)

	assert.Equal(t, "AI-text", text.GetStats()["name"])
	assert.Equal(t, "AI-speech", speech.GetStats()["name"])
	assert.Equal(t, "closed", text.GetStats()["state"])

	fail := func() (*genai.GenerateContentResponse, error) { return nil, fmt.Errorf("boom") }
	for range 2 {
		_, err := text.Execute(fail)
		require.Error(t, err)
	}

	assert.False(t, text.IsHealthy())
	assert.Equal(t, "open", text.GetStats()["state"])
	assert.True(t, speech.IsHealthy(), "tripping one role must not affect another")
}

func TestCircuitBreakerBelowMinRequests(t *testing.T) {
	cb := NewAICircuitBreaker(config.RoleText, breakerConfig(5, 0.5), nil)
	for range 4 {
		_, _ = cb.Execute(func() (*genai.GenerateContentResponse, error) { return nil, fmt.Errorf("boom") })
	}
	assert.True(t, cb.IsHealthy())
}

func TestDisabledCircuitBreakers(t *testing.T) {
	cfg := &config.OperationAIConfig{}

	cb := NewAICircuitBreaker(config.RoleText, cfg, nil)
	assert.Nil(t, cb)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, false, cb.GetStats()["enabled"])

	calls := 0
	for range 10 {
		_, _ = cb.Execute(func() (*genai.GenerateContentResponse, error) {
			calls++
			return nil, fmt.Errorf("boom")
		})
	}
	assert.Equal(t, 10, calls)

	vb := NewVideoCircuitBreaker(cfg, nil)
	assert.Nil(t, vb)
	op, err := vb.Execute(func() (*genai.GenerateVideosOperation, error) {
		return &genai.GenerateVideosOperation{Name: "x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", op.Name)
}

func TestVideoCircuitBreaker(t *testing.T) {
	vb := NewVideoCircuitBreaker(breakerConfig(1, 1.0), nil)
	assert.Equal(t, "AI-video-jobs", vb.GetStats()["name"])

	_, err := vb.Execute(func() (*genai.GenerateVideosOperation, error) { return nil, fmt.Errorf("boom") })
	require.Error(t, err)
	assert.False(t, vb.IsHealthy())
}
