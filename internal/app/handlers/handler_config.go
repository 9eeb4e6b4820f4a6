package handlers

import (
	"os"
)

// HandlerConfig provides environment-aware configuration for handlers
type HandlerConfig struct {
	// Error handling settings
	EnableDebugErrors bool `json:"enable_debug_errors"`

	// Environment
	Environment string `json:"environment"`
}

// NewHandlerConfig creates a new handler configuration with environment-specific defaults
func NewHandlerConfig() *HandlerConfig {
	config := &HandlerConfig{
		EnableDebugErrors: false,
		Environment:       "production",
	}

	if val := os.Getenv("ENVIRONMENT"); val != "" {
		config.Environment = val
	}

	// Apply environment-specific overrides
	config.applyEnvironmentDefaults()

	// an explicit flag wins over the environment default
	if val := os.Getenv("ENABLE_DEBUG_ERRORS"); val != "" {
		config.EnableDebugErrors = val == "true"
	}

	return config
}

// applyEnvironmentDefaults applies environment-specific default values
func (c *HandlerConfig) applyEnvironmentDefaults() {
	switch c.Environment {
	case "development", "dev", "test", "testing":
		c.EnableDebugErrors = true
	default:
		c.EnableDebugErrors = false
	}
}

// IsDevelopment returns true if running in development environment
func (c *HandlerConfig) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if running in production environment
func (c *HandlerConfig) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsTest returns true if running in test environment
func (c *HandlerConfig) IsTest() bool {
	return c.Environment == "test" || c.Environment == "testing"
}
