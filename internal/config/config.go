// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/llm"
)

// Config represents the process configuration read from the environment.
// Every field has a usable default except the credentials; without a key the
// service runs on templates only.
type Config struct {
	// Server
	Port          string `envconfig:"PORT" default:"3000"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"` // Prefix for csv and share links
	BuildDate     string `envconfig:"BUILD_DATE"`      // YYYY-MM-DD or YYYYMMDD; used in the version string

	// Model
	LLMProvider   string `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_JSON_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	UseMock       bool   `envconfig:"USE_MOCK" default:"true"` // Templates for generation; set false to call the model

	// Timeouts
	GenerateTimeout time.Duration `envconfig:"GENERATE_TIMEOUT" default:"20s"`
	PolishTimeout   time.Duration `envconfig:"POLISH_TIMEOUT" default:"5s"`

	// Content
	ExportDir      string `envconfig:"EXPORT_DIR" default:"public/exports"`
	KBPath         string `envconfig:"KB_PATH" default:"kb.md"`
	VocabularyFile string `envconfig:"VOCABULARY_FILE"`

	// Storage
	StoreCapacity int           `envconfig:"STORE_CAPACITY" default:"1000"`
	StoreTTL      time.Duration `envconfig:"STORE_TTL" default:"24h"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"` // Selects the PostgreSQL result store

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config error: PORT must not be empty")
	}

	switch llm.Provider(strings.ToLower(c.LLMProvider)) {
	case llm.ProviderOpenAI, llm.ProviderGemini:
	default:
		return fmt.Errorf("config error: LLM_PROVIDER must be %q or %q, got %q", llm.ProviderOpenAI, llm.ProviderGemini, c.LLMProvider)
	}

	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("config error: GENERATE_TIMEOUT must be positive")
	}
	if c.PolishTimeout <= 0 {
		return fmt.Errorf("config error: POLISH_TIMEOUT must be positive")
	}
	if c.StoreCapacity <= 0 {
		return fmt.Errorf("config error: STORE_CAPACITY must be positive")
	}
	if c.StoreTTL <= 0 {
		return fmt.Errorf("config error: STORE_TTL must be positive")
	}

	switch c.LogEncoding {
	case "json", "console":
	default:
		return fmt.Errorf("config error: LOG_ENCODING must be json or console, got %q", c.LogEncoding)
	}

	return nil
}

// Provider returns the configured model provider.
func (c *Config) Provider() llm.Provider {
	return llm.Provider(strings.ToLower(c.LLMProvider))
}

// APIKey returns the credential of the configured provider.
func (c *Config) APIKey() string {
	if c.Provider() == llm.ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// LLMConfig returns the model configuration for the configured provider.
func (c *Config) LLMConfig() *llm.Config {
	if c.Provider() == llm.ProviderGemini {
		return llm.DefaultGeminiConfig()
	}
	cfg := llm.DefaultOpenAIConfig(c.OpenAIModel)
	cfg.BaseURL = c.OpenAIBaseURL
	return cfg
}

// ModelName is the model reported by the health endpoint.
func (c *Config) ModelName() string {
	return c.LLMConfig().GetModel(llm.TierStandard)
}

// Catalog returns the vocabulary file's catalog, or the built-in one when no file is set.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.VocabularyFile == "" {
		return catalog.Default(), nil
	}
	vocab, err := LoadVocabulary(c.VocabularyFile)
	if err != nil {
		return nil, err
	}
	return vocab.Catalog()
}

// Version returns the service version string "v1.2.YYYYMMDD". The date comes from
// buildDate when it parses, otherwise from now.
func Version(buildDate string, now time.Time) string {
	date := now
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, strings.TrimSpace(buildDate)); err == nil {
			date = t
			break
		}
	}
	return "v1.2." + date.Format("20060102")
}
