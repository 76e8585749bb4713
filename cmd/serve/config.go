package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/retry"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey string
	OpenAIKey    string
	AzureKey     string

	// Azure OpenAI
	AzureEndpoint   string
	AzureAPIVersion string

	// Resilience
	MaxRetries       int
	BreakerThreshold int
	BreakerCooldown  time.Duration

	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("CONDUIT_PORT", "8000"),
		LogLevel:         getEnvOrDefault("CONDUIT_LOG_LEVEL", "info"),
		Provider:         os.Getenv("CONDUIT_PROVIDER"),
		Model:            os.Getenv("CONDUIT_MODEL"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AzureKey:         os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureEndpoint:    os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIVersion:  os.Getenv("AZURE_OPENAI_API_VERSION"),
		MaxRetries:       getEnvIntOrDefault("CONDUIT_MAX_RETRIES", retry.DefaultConfig().MaxRetries),
		BreakerThreshold: getEnvIntOrDefault("CONDUIT_BREAKER_THRESHOLD", retry.DefaultBreakerConfig().Threshold),
		BreakerCooldown:  getEnvDurationOrDefault("CONDUIT_BREAKER_COOLDOWN", retry.DefaultBreakerConfig().Cooldown),
		Timeout:          getEnvDurationOrDefault("CONDUIT_TIMEOUT", 2*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("CONDUIT_PROVIDER is required (openai, openai-standard, azure-openai, or claude)")
	}

	provider, err := conduit.ParseProvider(c.Provider)
	if err != nil {
		return err
	}

	switch provider {
	case conduit.ProviderClaude:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for claude provider")
		}
	case conduit.ProviderAzureOpenAI:
		if c.AzureKey == "" {
			return fmt.Errorf("AZURE_OPENAI_API_KEY is required for azure-openai provider")
		}
		if c.AzureEndpoint == "" {
			return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required for azure-openai provider")
		}
	default:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for %s provider", provider)
		}
	}

	return nil
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey(provider conduit.Provider) string {
	switch provider {
	case conduit.ProviderClaude:
		return c.AnthropicKey
	case conduit.ProviderAzureOpenAI:
		return c.AzureKey
	default:
		return c.OpenAIKey
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
