package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// legacyKeyEnvVars are read when no API key was configured under HRPILOT_*.
var legacyKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyAPIKeyFallbacks()
	c.applyObservabilityDefaults()
}

// applyAPIKeyFallbacks picks up the API key from the variables the web build
// used to read.
func (c *Config) applyAPIKeyFallbacks() {
	if c.AI.APIKey != "" {
		return
	}
	for _, name := range legacyKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			c.AI.APIKey = key
			log.Printf("[CONFIG] Using API key from %s", name)
			return
		}
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"HRPILOT_AI_APIKEY",
		"HRPILOT_AI_PROVIDER",
		"HRPILOT_AI_MODEL",
		"HRPILOT_APP_LOGLEVEL",
		"HRPILOT_APP_DEFAULTLANGUAGE",
		"HRPILOT_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET*** (model calls will return fallback values)")
	}
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Default Language: %s", c.App.DefaultLanguage)
	log.Printf("[CONFIG] Media Dir: %s", c.App.MediaDir)
	log.Printf("[CONFIG] Video Polling: every %s, at most %d attempts", c.AI.Polling.Interval, c.AI.Polling.MaxAttempts)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Model Roles ===")
	for _, role := range AllRoles() {
		cfg := c.GetRoleConfig(role)
		log.Printf("[CONFIG] %s - Provider: %s, Model: %s, Timeout: %s", role, cfg.Provider, cfg.Model, *cfg.Timeout)
	}

	log.Println("[CONFIG] =====================================")
}
