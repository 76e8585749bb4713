package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/conduitllm/conduit"
)

func TestCalculateCost(t *testing.T) {
	pricing := ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}

	t.Run("per million scaling", func(t *testing.T) {
		usage := ai.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
		assert.InDelta(t, 18.0, CalculateCost(usage, pricing), 1e-9)
	})

	t.Run("small usage", func(t *testing.T) {
		usage := ai.Usage{InputTokens: 1000, OutputTokens: 500}
		assert.InDelta(t, 0.0105, CalculateCost(usage, pricing), 1e-9)
	})

	t.Run("zero usage", func(t *testing.T) {
		assert.Zero(t, CalculateCost(ai.Usage{}, pricing))
	})
}

func TestHasCachedPricing(t *testing.T) {
	assert.True(t, GPT4o.Pricing().HasCachedPricing())
	assert.False(t, ClaudeSonnet45.Pricing().HasCachedPricing())
}

func TestForID(t *testing.T) {
	m, ok := ForID("claude-sonnet-4-5")
	require.True(t, ok)
	assert.Equal(t, ai.ProviderClaude, m.Provider())

	_, ok = ForID("nonexistent-model")
	assert.False(t, ok)
}

func TestDefaultFor(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-5", DefaultFor(ai.ProviderClaude).String())
	assert.Equal(t, "gpt-4o", DefaultFor(ai.ProviderOpenAIStandard).String())
	assert.Equal(t, "gpt-4o", DefaultFor(ai.ProviderAzureOpenAI).String())
	assert.Equal(t, "gpt-4o", DefaultFor(ai.ProviderOpenAI).String())
}

func TestCostUSD(t *testing.T) {
	usage := ai.Usage{InputTokens: 1_000_000}

	t.Run("catalog model", func(t *testing.T) {
		assert.InDelta(t, 2.50, CostUSD("gpt-4o", ai.ProviderOpenAIStandard, usage), 1e-9)
	})

	t.Run("unknown model falls back to provider default", func(t *testing.T) {
		assert.InDelta(t, 3.00, CostUSD("claude-3-opus-latest", ai.ProviderClaude, usage), 1e-9)
		assert.InDelta(t, 2.50, CostUSD("gpt-5-preview", ai.ProviderOpenAIStandard, usage), 1e-9)
	})
}
