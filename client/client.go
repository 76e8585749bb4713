package client

import (
	"context"
	"strings"
	"time"

	ai "github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/internal/provider/anthropic"
	"github.com/conduitllm/conduit/internal/provider/openai"
	"github.com/conduitllm/conduit/model"
	"github.com/conduitllm/conduit/retry"
)

// Feature represents a capability that a provider may support.
type Feature string

const (
	FeatureChat      Feature = "chat"
	FeatureEmbedding Feature = "embedding"
	FeatureVision    Feature = "vision"
)

// defaultAzureAPIVersion is used when Config.AzureAPIVersion is empty.
const defaultAzureAPIVersion = "2024-06-01"

// Config holds configuration for creating a resilient provider client.
// All values must be fully resolved; the client never reads the process
// environment.
type Config struct {
	// Provider selects the backend. One of conduit.Providers; the
	// "openai" alias resolves per DefaultOpenAIBackend.
	Provider ai.Provider

	// Model is the default model (or Azure deployment name) for requests.
	// When empty, the provider's default model is used.
	Model string

	// APIKey authenticates with the selected provider.
	APIKey string

	// AzureEndpoint is the Azure OpenAI resource URL. Required for
	// azure-openai, ignored otherwise.
	AzureEndpoint string

	// AzureAPIVersion selects the Azure API version (default "2024-06-01").
	AzureAPIVersion string

	// DefaultOpenAIBackend resolves the "openai" alias. Must be
	// openai-standard (default) or azure-openai.
	DefaultOpenAIBackend ai.Provider

	// Retry configures retry behavior for transient errors.
	// If nil, the defaults apply (3 retries with exponential backoff).
	Retry *retry.Config

	// Breaker configures the circuit breaker.
	// If nil, the defaults apply (trip after 5 failures, 60s cooldown).
	Breaker *retry.BreakerConfig

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client wraps a provider adapter with retry, circuit breaking, and
// request metrics. Every network-bound operation passes through the same
// resilience pipeline; pure extraction helpers on the response types are
// untouched.
//
// Resilience state (breaker, metrics) is scoped to the instance. To share
// breaker state across call sites, share the *Client.
type Client struct {
	provider ai.Provider
	modelID  string

	chat  ai.ChatProvider
	embed ai.EmbeddingProvider // nil when the provider has no embeddings

	retryCfg retry.Config
	breaker  *retry.Breaker
	metrics  *retry.Metrics
	events   chan<- Event

	defaultChatOpts []ai.Option
}

// New creates a client for the configured provider. Construction fails
// fast: an unrecognized provider name or missing credentials surface here
// rather than on the first request. There is no fallback to another
// provider; a misconfigured client is an error, never a silent swap.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	provider, err := resolveProvider(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, &ErrMissingAPIKey{Provider: provider}
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = model.DefaultFor(provider).String()
	}

	c := &Client{
		provider: provider,
		modelID:  modelID,
		retryCfg: retry.DefaultConfig(),
		metrics:  retry.NewMetrics(),
		events:   cfg.Events,
	}
	if cfg.Retry != nil {
		c.retryCfg = *cfg.Retry
	}
	breakerCfg := retry.DefaultBreakerConfig()
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}
	c.breaker = retry.NewBreaker(breakerCfg)

	switch provider {
	case ai.ProviderClaude:
		c.chat = anthropic.New(cfg.APIKey, anthropic.WithModel(modelID))
	case ai.ProviderOpenAIStandard:
		oc := openai.New(cfg.APIKey, openai.WithModel(modelID))
		c.chat = oc
		c.embed = oc
	case ai.ProviderAzureOpenAI:
		if cfg.AzureEndpoint == "" {
			return nil, &ErrMissingEndpoint{Provider: provider}
		}
		apiVersion := cfg.AzureAPIVersion
		if apiVersion == "" {
			apiVersion = defaultAzureAPIVersion
		}
		oc := openai.NewAzure(cfg.AzureEndpoint, cfg.APIKey, apiVersion, openai.WithModel(modelID))
		c.chat = oc
		c.embed = oc
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromName is like New but takes the provider as a raw name, as
// supplied on a CLI or in configuration files.
func NewFromName(name string, cfg Config, opts ...ClientOption) (*Client, error) {
	provider, err := ai.ParseProvider(name)
	if err != nil {
		return nil, &ErrUnsupportedProvider{Name: name}
	}
	cfg.Provider = provider
	return New(cfg, opts...)
}

// resolveProvider validates the configured provider and resolves the
// "openai" alias to a concrete backend.
func resolveProvider(cfg Config) (ai.Provider, error) {
	provider := cfg.Provider
	if provider == "" {
		return "", &ErrUnsupportedProvider{Name: ""}
	}
	if _, err := ai.ParseProvider(provider.String()); err != nil {
		return "", &ErrUnsupportedProvider{Name: provider.String()}
	}

	if provider == ai.ProviderOpenAI {
		switch cfg.DefaultOpenAIBackend {
		case ai.ProviderAzureOpenAI:
			provider = ai.ProviderAzureOpenAI
		case "", ai.ProviderOpenAIStandard:
			provider = ai.ProviderOpenAIStandard
		default:
			return "", &ErrUnsupportedProvider{Name: cfg.DefaultOpenAIBackend.String()}
		}
	}
	return provider, nil
}

// Provider returns the resolved provider backing this client.
func (c *Client) Provider() ai.Provider { return c.provider }

// Model returns the default model identifier for this client.
func (c *Client) Model() string { return c.modelID }

// SupportsFeature returns true if the given feature is available on this
// client's provider.
func (c *Client) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureChat, FeatureVision:
		return true
	case FeatureEmbedding:
		return c.embed != nil
	default:
		return false
	}
}

// run executes fn through the resilience pipeline: circuit breaker check,
// per-call metrics accounting, and retry with backoff.
//
// A call rejected by an open breaker never contacts the provider, consumes
// no retry attempts, and is not counted in TotalRequests; only calls that
// reach the retry executor are. Terminal outcomes are recorded exactly
// once per call in both metrics and breaker, however many attempts were
// made internally.
func run[T any](ctx context.Context, c *Client, operation string, fn func() (T, error)) (T, error) {
	var zero T

	if err := c.breaker.Allow(); err != nil {
		emit(c.events, Event{
			Type:      EventCircuitRejected,
			Operation: operation,
			Provider:  c.provider,
			Model:     c.modelID,
			Error:     err,
		})
		return zero, err
	}

	c.metrics.RecordStart()
	start := time.Now()
	emit(c.events, Event{
		Type:      EventRequestStart,
		Operation: operation,
		Provider:  c.provider,
		Model:     c.modelID,
	})

	var retryEvents chan retry.Event
	if c.events != nil {
		retryEvents = make(chan retry.Event, 10)
		go c.forwardRetryEvents(retryEvents, operation)
	}

	attempts := 0
	result, err := retry.DoWithEvents(ctx, c.retryCfg, retryEvents, func() (T, error) {
		attempts++
		if attempts > 1 {
			c.metrics.RecordRetry()
		}
		return fn()
	})

	if retryEvents != nil {
		close(retryEvents)
	}

	if err != nil {
		c.metrics.RecordFailure()
		if c.breaker.RecordFailure() {
			c.metrics.RecordTrip()
			emit(c.events, Event{
				Type:      EventCircuitTripped,
				Operation: operation,
				Provider:  c.provider,
				Model:     c.modelID,
				Error:     err,
			})
		}
		emit(c.events, Event{
			Type:      EventRequestError,
			Operation: operation,
			Provider:  c.provider,
			Model:     c.modelID,
			Duration:  time.Since(start),
			Error:     err,
		})
		return zero, err
	}

	c.metrics.RecordSuccess()
	c.breaker.RecordSuccess()
	emit(c.events, Event{
		Type:      EventRequestComplete,
		Operation: operation,
		Provider:  c.provider,
		Model:     c.modelID,
		Duration:  time.Since(start),
	})
	return result, nil
}

// chatOptions merges client defaults with per-request options so that
// per-request options win.
func (c *Client) chatOptions(opts []ai.Option) []ai.Option {
	if len(c.defaultChatOpts) == 0 {
		return opts
	}
	merged := make([]ai.Option, 0, len(c.defaultChatOpts)+len(opts))
	merged = append(merged, c.defaultChatOpts...)
	merged = append(merged, opts...)
	return merged
}

// Chat sends a conversation and returns a complete response.
// Transient failures are retried and terminal outcomes feed the circuit
// breaker and metrics.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	opts = c.chatOptions(opts)
	return run(ctx, c, "chat", func() (*ai.Response, error) {
		return c.chat.Chat(ctx, messages, opts...)
	})
}

// ChatWithTools is Chat with tool definitions attached. Definitions may
// use either the "parameters" or "input_schema" convention; extraction of
// tool calls from the response goes through Response.ToolUseBlocks either way.
func (c *Client) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.Tool, opts ...ai.Option) (*ai.Response, error) {
	return c.Chat(ctx, messages, append(opts, ai.WithTools(tools...))...)
}

// ChatStream sends a conversation and returns a channel of streaming
// events. Retry applies to establishing the stream, not to individual
// chunks; a stream that fails mid-flight surfaces the error as a
// StreamEvent.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	opts = c.chatOptions(opts)
	return run(ctx, c, "chat_stream", func() (<-chan ai.StreamEvent, error) {
		return c.chat.ChatStream(ctx, messages, opts...)
	})
}

// ChatStreamText streams a conversation, invoking onDelta once per
// received fragment in arrival order, and returns the concatenated text
// after the stream ends. onDelta may be nil; the full text is still
// accumulated and returned.
func (c *Client) ChatStreamText(ctx context.Context, messages []ai.Message, onDelta func(string), opts ...ai.Option) (string, error) {
	stream, err := c.ChatStream(ctx, messages, opts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for event := range stream {
		if event.Err != nil {
			return "", event.Err
		}
		if event.Delta != "" {
			sb.WriteString(event.Delta)
			if onDelta != nil {
				onDelta(event.Delta)
			}
		}
	}
	return sb.String(), nil
}

// AnalyzeImage asks the model about an image. The image part may be a URL
// or base64 part built with conduit.NewImageURLPart / NewImageBase64Part.
func (c *Client) AnalyzeImage(ctx context.Context, prompt string, image ai.ContentPart, opts ...ai.Option) (*ai.Response, error) {
	messages := []ai.Message{
		{
			Role: ai.RoleUser,
			Parts: []ai.ContentPart{
				ai.NewTextPart(prompt),
				image,
			},
		},
	}
	return c.Chat(ctx, messages, opts...)
}

// Embed generates embeddings for the provided texts. Providers without an
// embeddings endpoint (claude) return ErrFeatureNotSupported, which is
// never retried and does not touch resilience state.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	if c.embed == nil {
		return nil, &ErrFeatureNotSupported{Provider: c.provider, Feature: FeatureEmbedding}
	}
	return run(ctx, c, "embed", func() (*ai.EmbeddingResponse, error) {
		return c.embed.Embed(ctx, texts, opts...)
	})
}

// Cost returns the USD cost of the given usage at this client's model
// pricing, falling back to the provider default model's pricing when the
// model is not in the catalog.
func (c *Client) Cost(usage ai.Usage) float64 {
	return model.CostUSD(c.modelID, c.provider, usage)
}

// Metrics returns a snapshot of the client's request counters.
func (c *Client) Metrics() retry.Snapshot {
	return c.metrics.Snapshot()
}

// CircuitState returns the circuit breaker's current state.
func (c *Client) CircuitState() retry.BreakerState {
	return c.breaker.State()
}

// Reset zeroes all counters and forces the breaker closed.
// Intended for test isolation, not production use.
func (c *Client) Reset() {
	c.metrics.Reset()
	c.breaker.Reset()
}

// forwardRetryEvents reads from a retry events channel and forwards events
// to the client's event channel as EventRetry events.
func (c *Client) forwardRetryEvents(retryEvents <-chan retry.Event, operation string) {
	for re := range retryEvents {
		reCopy := re
		emit(c.events, Event{
			Type:       EventRetry,
			Operation:  operation,
			Provider:   c.provider,
			Model:      c.modelID,
			RetryEvent: &reCopy,
		})
	}
}
