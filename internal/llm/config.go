package llm

import (
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Standard vendor key variables. These are what operators already export,
// so they are read as-is rather than under an application prefix.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	OpenAI     OpenAIConfig     `yaml:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`

	// Temperature is fixed per deployment. Default: 0.3.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens bounds a single response. Default: 8192.
	MaxTokens int `yaml:"max_tokens"`

	// Timeout is the maximum duration for a single LLM request. Zero
	// leaves the caller's context as the only bound. Default: 90s.
	Timeout time.Duration `yaml:"timeout"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "gpt-4.1-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "openai/gpt-4.1-mini"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		OpenAI: OpenAIConfig{
			Model: "gpt-4.1-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4.1-mini",
		},
		Temperature: 0.3,
		MaxTokens:   8192,
		Timeout:     90 * time.Second,
	}
}

// Credentials reports which vendor keys are configured. Values are never
// exposed.
func (c Config) Credentials() map[string]bool {
	return map[string]bool{
		EnvOpenAIKey:     c.OpenAI.APIKey != "",
		EnvAnthropicKey:  c.Anthropic.APIKey != "",
		EnvGeminiKey:     c.Gemini.APIKey != "",
		EnvOpenRouterKey: c.OpenRouter.APIKey != "",
	}
}

// Validate checks that the selected provider has its required API key set.
// Failures are *ErrConfig.
func (c Config) Validate() error {
	missing := func(env string) error {
		return &ErrConfig{Provider: c.Provider, Reason: env + " is not set"}
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return missing(EnvOpenAIKey)
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return missing(EnvAnthropicKey)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return missing(EnvGeminiKey)
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return missing(EnvOpenRouterKey)
		}
	case ProviderMock:
		// No API key needed.
	default:
		return &ErrConfig{Provider: c.Provider, Reason: "unknown LLM provider"}
	}
	return nil
}

// ModelID returns the configured model for the selected provider, before
// friendly-name resolution.
func (c Config) ModelID() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderAnthropic:
		return c.Anthropic.Model
	case ProviderGemini:
		return c.Gemini.Model
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderMock:
		return "mock"
	}
	return ""
}
