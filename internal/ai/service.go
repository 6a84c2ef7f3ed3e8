package ai

import (
	"context"
	"fmt"
	"net/http"

	"hrpilot/internal/config"
	"hrpilot/internal/errors"
	"hrpilot/internal/observability"
)

// Service exposes one typed method per tool. It is created once per process
// and is safe for concurrent use.
type Service struct {
	gateway  *Gateway
	prompts  *PromptBuilder
	poller   *VideoPoller
	observer Observer
	om       *observability.ObservabilityManager
	logger   *errors.Logger
}

// Option customizes NewService.
type Option func(*serviceOptions)

type serviceOptions struct {
	client     ModelClient
	store      *config.PromptStore
	om         *observability.ObservabilityManager
	logger     *errors.Logger
	observer   Observer
	httpClient *http.Client
}

// WithModelClient replaces the Gemini client for every role.
func WithModelClient(c ModelClient) Option {
	return func(o *serviceOptions) { o.client = c }
}

// WithPromptStore supplies prompt template overrides.
func WithPromptStore(s *config.PromptStore) Option {
	return func(o *serviceOptions) { o.store = s }
}

func WithObservability(om *observability.ObservabilityManager) Option {
	return func(o *serviceOptions) { o.om = om }
}

func WithLogger(l *errors.Logger) Option {
	return func(o *serviceOptions) { o.logger = l }
}

// WithObserver receives every invocation phase change.
func WithObserver(fn Observer) Option {
	return func(o *serviceOptions) { o.observer = fn }
}

// WithHTTPClient sets the client used to download finished videos.
func WithHTTPClient(c *http.Client) Option {
	return func(o *serviceOptions) { o.httpClient = c }
}

// NewService wires the gateway, prompt builder and video poller from cfg.
// Without an API key every call fails fast with MISSING_API_KEY and tools
// return their fallbacks.
func NewService(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	o := serviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = errors.Discard()
	}

	g := &Gateway{
		clients:  make(map[config.ModelRole]ModelClient),
		roles:    make(map[config.ModelRole]config.OperationAIConfig),
		breakers: make(map[config.ModelRole]*AICircuitBreaker),
		om:       o.om,
		logger:   o.logger,
	}

	byKey := make(map[string]ModelClient)
	for _, role := range config.AllRoles() {
		rc := cfg.GetRoleConfig(role)
		if rc.Provider != "gemini" {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Unsupported AI provider for %s: %s", role, rc.Provider), nil)
		}

		o.logger.Debug("Initializing AI role",
			"role", role,
			"provider", rc.Provider,
			"model", rc.Model,
			"timeout", *rc.Timeout,
			"temperature", *rc.Temperature,
			"use_system_prompts", *rc.UseSystemPrompts,
			"has_api_key", rc.APIKey != "")

		client, err := clientFor(ctx, rc.APIKey, o, byKey)
		if err != nil {
			return nil, err
		}
		g.clients[role] = client
		g.roles[role] = rc
		if role == config.RoleVideo {
			g.videoBreaker = NewVideoCircuitBreaker(&rc, o.logger)
		} else {
			g.breakers[role] = NewAICircuitBreaker(role, &rc, o.logger)
		}
	}

	if cfg.AI.RateLimit.Enabled {
		g.limiter = NewLimiterManager(cfg.AI.RateLimit.RequestsPerMin, cfg.AI.RateLimit.BurstCapacity,
			cfg.AI.RateLimit.IdleTTL, o.logger)
	}

	videoCfg := g.roles[config.RoleVideo]
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: o.om.HTTPTransport(nil)}
	}
	poller := NewVideoPoller(g.clients[config.RoleVideo], g.videoBreaker, httpClient, PollerConfig{
		Interval:        cfg.AI.Polling.Interval,
		MaxAttempts:     cfg.AI.Polling.MaxAttempts,
		DownloadTimeout: cfg.AI.Polling.DownloadTimeout,
		MediaDir:        cfg.App.MediaDir,
		APIKey:          videoCfg.APIKey,
	}, o.om, o.logger)

	return &Service{
		gateway:  g,
		prompts:  NewPromptBuilder(o.store),
		poller:   poller,
		observer: o.observer,
		om:       o.om,
		logger:   o.logger,
	}, nil
}

// clientFor shares one Gemini client per distinct API key.
func clientFor(ctx context.Context, apiKey string, o serviceOptions, byKey map[string]ModelClient) (ModelClient, error) {
	if o.client != nil {
		return o.client, nil
	}
	if apiKey == "" {
		return unavailableClient{}, nil
	}
	if c, ok := byKey[apiKey]; ok {
		return c, nil
	}
	c, err := NewGeminiClient(ctx, apiKey, &http.Client{Transport: o.om.HTTPTransport(nil)})
	if err != nil {
		return nil, err
	}
	byKey[apiKey] = c
	return c, nil
}

// Gateway returns the underlying gateway for direct Invoke calls.
func (s *Service) Gateway() *Gateway { return s.gateway }

// Prompts returns the prompt builder in use.
func (s *Service) Prompts() *PromptBuilder { return s.prompts }

// CircuitBreakerStats reports every role breaker and the rate limiter.
func (s *Service) CircuitBreakerStats() map[string]any {
	stats := map[string]any{}
	healthy := true
	for role, cb := range s.gateway.breakers {
		stats[string(role)] = cb.GetStats()
		healthy = healthy && cb.IsHealthy()
	}
	stats[string(config.RoleVideo)] = s.gateway.videoBreaker.GetStats()
	healthy = healthy && s.gateway.videoBreaker.IsHealthy()
	if s.gateway.limiter != nil {
		stats["rate_limit"] = s.gateway.limiter.GetStats()
	}
	stats["overall_healthy"] = healthy
	return stats
}

// Close releases background resources.
func (s *Service) Close() error {
	s.gateway.limiter.Close()
	return nil
}
