package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/variant-studio/internal/llm"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_JSON_MODEL",
		"GENERATE_TIMEOUT", "POLISH_TIMEOUT", "STORE_CAPACITY", "STORE_TTL", "EXPORT_DIR", "LOG_ENCODING", "USE_MOCK")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, llm.ProviderOpenAI, cfg.Provider())
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 20*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, 5*time.Second, cfg.PolishTimeout)
	assert.Equal(t, 1000, cfg.StoreCapacity)
	assert.Equal(t, 24*time.Hour, cfg.StoreTTL)
	assert.Equal(t, "public/exports", cfg.ExportDir)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.True(t, cfg.UseMock)
	assert.Empty(t, cfg.APIKey())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_JSON_MODEL", "gpt-4.1-mini")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("USE_MOCK", "true")
	t.Setenv("GENERATE_TIMEOUT", "3s")
	t.Setenv("STORE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.UseMock)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, 3*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, time.Hour, cfg.StoreTTL)

	llmCfg := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, llmCfg.Provider)
	assert.Equal(t, "http://localhost:9999/v1", llmCfg.BaseURL)
	assert.Equal(t, "gpt-4.1-mini", cfg.ModelName())
}

func TestLoad_UseMock(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  bool
	}{
		{"unset defaults to templates", "", false, true},
		{"true", "true", true, true},
		{"false", "false", true, false},
		{"zero", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "PORT", "LLM_PROVIDER", "LOG_ENCODING", "USE_MOCK")
			if tt.set {
				t.Setenv("USE_MOCK", tt.value)
			}

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.UseMock)
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	unsetEnv(t, "PORT", "LLM_PROVIDER", "LOG_ENCODING")
	t.Setenv("POLISH_TIMEOUT", "soon")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read environment")
}

func TestConfig_GeminiProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProvider = "Gemini"
	cfg.OpenAIAPIKey = "sk-openai"
	cfg.GeminiAPIKey = "gm-key"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, llm.ProviderGemini, cfg.Provider())
	assert.Equal(t, "gm-key", cfg.APIKey())
	assert.Equal(t, llm.ProviderGemini, cfg.LLMConfig().Provider)
}

func validConfig() *Config {
	return &Config{
		Port:            "3000",
		LLMProvider:     "openai",
		GenerateTimeout: time.Second,
		PolishTimeout:   time.Second,
		StoreCapacity:   10,
		StoreTTL:        time.Minute,
		LogEncoding:     "json",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty port", func(c *Config) { c.Port = " " }, "PORT"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "ollama" }, "LLM_PROVIDER"},
		{"zero generate timeout", func(c *Config) { c.GenerateTimeout = 0 }, "GENERATE_TIMEOUT"},
		{"negative polish timeout", func(c *Config) { c.PolishTimeout = -time.Second }, "POLISH_TIMEOUT"},
		{"zero capacity", func(c *Config) { c.StoreCapacity = 0 }, "STORE_CAPACITY"},
		{"zero ttl", func(c *Config) { c.StoreTTL = 0 }, "STORE_TTL"},
		{"bad encoding", func(c *Config) { c.LogEncoding = "xml" }, "LOG_ENCODING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVersion(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "v1.2.20250301", Version("2025-03-01", now))
	assert.Equal(t, "v1.2.20250301", Version("20250301", now))
	assert.Equal(t, "v1.2.20261015", Version("", now))
	assert.Equal(t, "v1.2.20261015", Version("yesterday", now))
}
