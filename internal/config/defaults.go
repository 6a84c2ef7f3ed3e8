package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default model identifiers per role.
const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVideoModel  = "veo-3.1-fast-generate-preview"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", DefaultTextModel)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	roleDefaults := []struct {
		role    ModelRole
		model   string
		timeout time.Duration
	}{
		{RoleText, DefaultTextModel, 60 * time.Second},
		{RoleReasoning, DefaultTextModel, 90 * time.Second}, // chat with thinking budget
		{RoleImage, DefaultImageModel, 90 * time.Second},
		{RoleSpeech, DefaultSpeechModel, 60 * time.Second},
		{RoleVideo, DefaultVideoModel, 60 * time.Second}, // per call; the poll loop is bounded separately
	}
	for _, rd := range roleDefaults {
		prefix := "ai." + string(rd.role)
		v.SetDefault(prefix+".provider", "gemini")
		v.SetDefault(prefix+".model", rd.model)
		v.SetDefault(prefix+".timeout", rd.timeout)
		v.SetDefault(prefix+".apiKey", "")

		v.SetDefault(prefix+".circuitBreaker.enabled", true)
		v.SetDefault(prefix+".circuitBreaker.maxRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.minRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.failureThreshold", 0.6)
	}
	v.SetDefault("ai.text.temperature", 0.7)
	v.SetDefault("ai.reasoning.temperature", 0.7)

	// Outbound rate limiting
	v.SetDefault("ai.rateLimit.enabled", true)
	v.SetDefault("ai.rateLimit.requestsPerMin", 30)
	v.SetDefault("ai.rateLimit.burstCapacity", 5)
	v.SetDefault("ai.rateLimit.idleTTL", 10*time.Minute)

	// Video polling
	v.SetDefault("ai.polling.interval", 5*time.Second)
	v.SetDefault("ai.polling.maxAttempts", 60)
	v.SetDefault("ai.polling.downloadTimeout", 2*time.Minute)

	// Prompt overrides
	v.SetDefault("ai.prompts.templates", map[string]string{})
	v.SetDefault("ai.prompts.files", map[string]string{})
	v.SetDefault("ai.prompts.watch", false)
	v.SetDefault("ai.prompts.debounceDelay", time.Second)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB
	v.SetDefault("app.defaultLanguage", "vi")
	v.SetDefault("app.mediaDir", "media")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.field", DefaultVaultKeyField)

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "hrpilot")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackVideoJobs", true)

	v.SetDefault("observability.console.prettyPrint", true)

	// A CLI process is short lived; Prometheus scraping is opt-in.
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
