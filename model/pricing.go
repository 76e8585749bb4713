package model

import ai "github.com/conduitllm/conduit"

// ChatPricing contains pricing per million tokens (USD) for chat models.
// Fields are zero if not applicable to a specific provider's model.
type ChatPricing struct {
	// InputPerMillion is the standard input token pricing (all providers).
	InputPerMillion float64
	// OutputPerMillion is the standard output token pricing (all providers).
	OutputPerMillion float64
	// CachedInputPerMillion is for cached/prompt-cached input tokens
	// (OpenAI only). Check HasCachedPricing() before using.
	CachedInputPerMillion float64
}

// HasCachedPricing returns true if the model supports cached input pricing.
func (p ChatPricing) HasCachedPricing() bool {
	return p.CachedInputPerMillion > 0
}

// CalculateCost returns the USD cost of the given token usage at the given
// pricing.
func CalculateCost(usage ai.Usage, pricing ChatPricing) float64 {
	inputCost := float64(usage.InputTokens) / 1_000_000 * pricing.InputPerMillion
	outputCost := float64(usage.OutputTokens) / 1_000_000 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// CostUSD returns the USD cost of the given usage for the named model.
// When the model id is not in the catalog it falls back to the pricing of
// the provider's default model, so callers always get an estimate rather
// than a zero.
func CostUSD(modelID string, provider ai.Provider, usage ai.Usage) float64 {
	if m, ok := ForID(modelID); ok {
		return m.Cost(usage)
	}
	return DefaultFor(provider).Cost(usage)
}
