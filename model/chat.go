// Package model provides a catalog of known chat and embedding models with
// pricing, used for provider defaults and USD cost calculation.
package model

import ai "github.com/conduitllm/conduit"

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the USD cost of the given token usage at this model's pricing.
func (m ChatModel) Cost(usage ai.Usage) float64 {
	return CalculateCost(usage, m.pricing)
}

// Anthropic Claude models.
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderClaude, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderClaude, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderClaude, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI models. Azure deployments of the same models share this pricing.
var (
	GPT4o     = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00, CachedInputPerMillion: 1.25}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60, CachedInputPerMillion: 0.075}}
	GPT41     = ChatModel{id: "gpt-4.1", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 8.00, CachedInputPerMillion: 0.50}}
	GPT41Mini = ChatModel{id: "gpt-4.1-mini", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 0.40, OutputPerMillion: 1.60, CachedInputPerMillion: 0.10}}
	O3        = ChatModel{id: "o3", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 16.00, CachedInputPerMillion: 0.50}}
	O4Mini    = ChatModel{id: "o4-mini", provider: ai.ProviderOpenAIStandard, pricing: ChatPricing{InputPerMillion: 0.50, OutputPerMillion: 2.00, CachedInputPerMillion: 0.125}}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT4o
)

// catalog indexes every known chat model by API identifier.
var catalog = func() map[string]ChatModel {
	known := []ChatModel{
		ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
		GPT4o, GPT4oMini, GPT41, GPT41Mini, O3, O4Mini,
	}
	m := make(map[string]ChatModel, len(known))
	for _, cm := range known {
		m[cm.id] = cm
	}
	return m
}()

// ForID looks up a known chat model by its API identifier.
func ForID(id string) (ChatModel, bool) {
	m, ok := catalog[id]
	return m, ok
}

// DefaultFor returns the default chat model for a provider. The alias
// provider and Azure share the OpenAI default.
func DefaultFor(provider ai.Provider) ChatModel {
	if provider == ai.ProviderClaude {
		return DefaultClaudeModel
	}
	return DefaultGPTModel
}
