package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, DefaultOpenAIModel, config.GetModel(TierLite))
	assert.Equal(t, DefaultOpenAIModel, config.GetModel(TierStandard))
	assert.Equal(t, DefaultOpenAIModel, config.GetModel(TierAdvanced))
}

func TestDefaultOpenAIConfig_EmptyModel(t *testing.T) {
	assert.Equal(t, DefaultOpenAIModel, DefaultOpenAIConfig("").GetModel(TierStandard))
	assert.Equal(t, "gpt-4.1", DefaultOpenAIConfig("gpt-4.1").GetModel(TierLite))
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderOpenAI, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultGeminiConfig()
	config.BaseURL = "http://example.test"
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))

	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, "http://example.test", newConfig.BaseURL)
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultConfig(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(context.Background(), DefaultGeminiConfig(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "anthropic"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestNewClient_OpenAI(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "sk-test")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, ok := client.(*OpenAIClient)
	assert.True(t, ok)
	assert.Equal(t, DefaultOpenAIModel, client.GetModel(TierStandard))
}
