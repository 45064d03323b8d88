package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures one provider.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenAIConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig configures an OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns defaults with no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenAIConfig{Model: "google/gemini-2.0-flash-001", BaseURL: openRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads QUIZ_LLM_* and QUIZ_<PROVIDER>_* variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "QUIZ_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "QUIZ_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "QUIZ_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "QUIZ_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "QUIZ_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "QUIZ_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "QUIZ_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "QUIZ_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "QUIZ_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "QUIZ_OPENROUTER_MODEL")

	if d, err := time.ParseDuration(os.Getenv("QUIZ_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig picks the first provider whose standard API key variable
// is set, in the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider, cfg.Gemini.APIKey = "gemini", os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider, cfg.OpenAI.APIKey = "openai", os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider, cfg.Anthropic.APIKey = "anthropic", os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider, cfg.OpenRouter.APIKey = "openrouter", os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "QUIZ_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "QUIZ_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "QUIZ_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "QUIZ_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
