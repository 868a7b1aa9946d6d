// Package config loads service configuration from defaults, an optional
// YAML file, a .env file and the environment, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/observability"
)

// Environment variables read on top of the file. Vendor API keys use the
// names in the llm package.
const (
	EnvAddr         = "BLUEPRINT_ADDR"
	EnvMode         = "BLUEPRINT_MODE"
	EnvCORSOrigins  = "BLUEPRINT_CORS_ORIGINS"
	EnvDB           = "BLUEPRINT_DB"
	EnvProvider     = "BLUEPRINT_LLM_PROVIDER"
	EnvModel        = "BLUEPRINT_LLM_MODEL"
	EnvTemperature  = "BLUEPRINT_LLM_TEMPERATURE"
	EnvMaxTokens    = "BLUEPRINT_LLM_MAX_TOKENS"
	EnvLLMTimeout   = "BLUEPRINT_LLM_TIMEOUT"
	EnvOpenAIBase   = "OPENAI_BASE_URL"
	EnvJWTSecret    = "BLUEPRINT_JWT_SECRET"
	EnvDevAuth      = "BLUEPRINT_DEV_AUTH"
	EnvLogMode      = "BLUEPRINT_LOG_MODE"
	EnvOtelEnabled  = "BLUEPRINT_OTEL_ENABLED"
	EnvOtelRatio    = "BLUEPRINT_OTEL_SAMPLE_RATIO"
	EnvOtelEnv      = "BLUEPRINT_ENVIRONMENT"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Database DatabaseConfig           `yaml:"database"`
	LLM      llm.Config               `yaml:"llm"`
	Auth     AuthConfig               `yaml:"auth"`
	Logging  LoggingConfig            `yaml:"logging"`
	Otel     observability.OtelConfig `yaml:"otel"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode        string        `yaml:"mode"`
	CORSOrigins []string      `yaml:"cors_origins"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout must outlast two model calls.
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// DSN is a SQLite path or a postgres:// URL. Empty selects the
	// per-user default path.
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"-"`
	// DevHeader enables the unauthenticated X-User-Id resolver.
	DevHeader     bool   `yaml:"dev_header"`
	DevHeaderName string `yaml:"dev_header_name"`
}

type LoggingConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    4 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM:     llm.DefaultConfig(),
		Logging: LoggingConfig{Mode: "production"},
		Otel: observability.OtelConfig{
			ServiceName: "blueprint",
			SampleRatio: 0.1,
		},
	}
}

// Load builds a Config. A missing file at path is not an error; an empty
// path skips the file. A .env in the working directory is loaded without
// overriding variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str(EnvAddr, &c.Server.Addr)
	str(EnvMode, &c.Server.Mode)
	if v, ok := lookup(EnvCORSOrigins); ok && strings.TrimSpace(v) != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	str(EnvDB, &c.Database.DSN)

	str(EnvProvider, &c.LLM.Provider)
	if v, ok := lookup(EnvModel); ok && strings.TrimSpace(v) != "" {
		c.setModel(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvTemperature); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTemperature, err))
		} else {
			c.LLM.Temperature = f
		}
	}
	if v, ok := lookup(EnvMaxTokens); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxTokens, err))
		} else {
			c.LLM.MaxTokens = n
		}
	}
	if v, ok := lookup(EnvLLMTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLLMTimeout, err))
		} else {
			c.LLM.Timeout = d
		}
	}
	str(llm.EnvOpenAIKey, &c.LLM.OpenAI.APIKey)
	str(EnvOpenAIBase, &c.LLM.OpenAI.BaseURL)
	str(llm.EnvAnthropicKey, &c.LLM.Anthropic.APIKey)
	str(llm.EnvGeminiKey, &c.LLM.Gemini.APIKey)
	str(llm.EnvOpenRouterKey, &c.LLM.OpenRouter.APIKey)

	str(EnvJWTSecret, &c.Auth.JWTSecret)
	boolean(EnvDevAuth, &c.Auth.DevHeader)

	str(EnvLogMode, &c.Logging.Mode)

	boolean(EnvOtelEnabled, &c.Otel.Enabled)
	str(EnvOTLPEndpoint, &c.Otel.Endpoint)
	str(EnvOtelEnv, &c.Otel.Environment)
	if v, ok := lookup(EnvOtelRatio); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvOtelRatio, err))
		} else {
			c.Otel.SampleRatio = f
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config env: %w", errors.Join(errs...))
	}
	return nil
}

// setModel applies a model override to the selected provider only.
func (c *Config) setModel(model string) {
	switch c.LLM.Provider {
	case llm.ProviderOpenAI:
		c.LLM.OpenAI.Model = model
	case llm.ProviderAnthropic:
		c.LLM.Anthropic.Model = model
	case llm.ProviderGemini:
		c.LLM.Gemini.Model = model
	case llm.ProviderOpenRouter:
		c.LLM.OpenRouter.Model = model
	}
}

// EnvCheck reports which secrets and connection settings are present.
// Values are never included.
func (c *Config) EnvCheck() map[string]bool {
	out := c.LLM.Credentials()
	out[EnvDB] = c.Database.DSN != ""
	out[EnvJWTSecret] = c.Auth.JWTSecret != ""
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
