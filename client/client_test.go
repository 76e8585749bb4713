package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/retry"
)

// fakeChat is a scripted ChatProvider. Each call pops the next step; a nil
// step error yields the step's response.
type fakeChat struct {
	steps    []fakeStep
	calls    int
	lastOpts *ai.Options
}

type fakeStep struct {
	resp   *ai.Response
	stream []ai.StreamEvent
	err    error
}

// next returns the step for the current call; the last step repeats once
// the script runs out.
func (f *fakeChat) next() fakeStep {
	i := f.calls
	f.calls++
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	return f.steps[i]
}

func (f *fakeChat) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	f.lastOpts = ai.ApplyOptions(opts...)
	step := f.next()
	if step.err != nil {
		return nil, step.err
	}
	return step.resp, nil
}

func (f *fakeChat) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	f.lastOpts = ai.ApplyOptions(opts...)
	step := f.next()
	if step.err != nil {
		return nil, step.err
	}
	out := make(chan ai.StreamEvent, len(step.stream))
	for _, ev := range step.stream {
		out <- ev
	}
	close(out)
	return out, nil
}

type fakeEmbed struct {
	calls int
	err   error
}

func (f *fakeEmbed) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	embeddings := make([][]float64, len(texts))
	for i := range texts {
		embeddings[i] = []float64{0.1, 0.2, 0.3}
	}
	return &ai.EmbeddingResponse{Embeddings: embeddings, Usage: ai.Usage{InputTokens: 5}}, nil
}

// newTestClient builds a claude client and swaps in the scripted fake,
// with retry delays short enough not to matter.
func newTestClient(t *testing.T, fake *fakeChat, cfg Config) *Client {
	t.Helper()
	cfg.Provider = ai.ProviderClaude
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	if cfg.Retry == nil {
		cfg.Retry = &retry.Config{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	}
	c, err := New(cfg)
	require.NoError(t, err)
	c.chat = fake
	return c
}

func transientErr() error {
	return ai.NewTransientError("overloaded", 529, nil)
}

var userMsg = []ai.Message{{Role: ai.RoleUser, Content: "hello"}}

func TestNew(t *testing.T) {
	t.Run("unsupported provider", func(t *testing.T) {
		_, err := New(Config{Provider: "gemini", APIKey: "k"})
		require.Error(t, err)

		var unsupported *ErrUnsupportedProvider
		require.ErrorAs(t, err, &unsupported)
		assert.Contains(t, err.Error(), `unsupported provider "gemini"`)
		assert.Contains(t, err.Error(), "openai, openai-standard, azure-openai, claude")
	})

	t.Run("empty provider", func(t *testing.T) {
		_, err := New(Config{APIKey: "k"})
		var unsupported *ErrUnsupportedProvider
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := New(Config{Provider: ai.ProviderClaude})
		var missing *ErrMissingAPIKey
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, ai.ProviderClaude, missing.Provider)
	})

	t.Run("azure requires endpoint", func(t *testing.T) {
		_, err := New(Config{Provider: ai.ProviderAzureOpenAI, APIKey: "k"})
		var missing *ErrMissingEndpoint
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, ai.ProviderAzureOpenAI, missing.Provider)
	})

	t.Run("openai alias resolves to standard by default", func(t *testing.T) {
		c, err := New(Config{Provider: ai.ProviderOpenAI, APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderOpenAIStandard, c.Provider())
	})

	t.Run("openai alias resolves to azure when configured", func(t *testing.T) {
		c, err := New(Config{
			Provider:             ai.ProviderOpenAI,
			APIKey:               "k",
			DefaultOpenAIBackend: ai.ProviderAzureOpenAI,
			AzureEndpoint:        "https://example.openai.azure.com",
		})
		require.NoError(t, err)
		assert.Equal(t, ai.ProviderAzureOpenAI, c.Provider())
	})

	t.Run("invalid default backend", func(t *testing.T) {
		_, err := New(Config{
			Provider:             ai.ProviderOpenAI,
			APIKey:               "k",
			DefaultOpenAIBackend: ai.ProviderClaude,
		})
		var unsupported *ErrUnsupportedProvider
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("default model per provider", func(t *testing.T) {
		c, err := New(Config{Provider: ai.ProviderClaude, APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-5", c.Model())

		c, err = New(Config{Provider: ai.ProviderOpenAIStandard, APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", c.Model())
	})

	t.Run("explicit model wins", func(t *testing.T) {
		c, err := New(Config{Provider: ai.ProviderClaude, APIKey: "k", Model: "claude-haiku-4-5"})
		require.NoError(t, err)
		assert.Equal(t, "claude-haiku-4-5", c.Model())
	})

	t.Run("feature support", func(t *testing.T) {
		claude, err := New(Config{Provider: ai.ProviderClaude, APIKey: "k"})
		require.NoError(t, err)
		assert.True(t, claude.SupportsFeature(FeatureChat))
		assert.True(t, claude.SupportsFeature(FeatureVision))
		assert.False(t, claude.SupportsFeature(FeatureEmbedding))

		gpt, err := New(Config{Provider: ai.ProviderOpenAIStandard, APIKey: "k"})
		require.NoError(t, err)
		assert.True(t, gpt.SupportsFeature(FeatureEmbedding))
	})
}

func TestNewFromName(t *testing.T) {
	c, err := NewFromName("claude", Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderClaude, c.Provider())

	_, err = NewFromName("gemini", Config{APIKey: "k"})
	var unsupported *ErrUnsupportedProvider
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "gemini", unsupported.Name)
}

func TestChat(t *testing.T) {
	t.Run("success passes response through", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			{resp: &ai.Response{Content: "hi there", Usage: ai.Usage{InputTokens: 10, OutputTokens: 5}}},
		}}
		c := newTestClient(t, fake, Config{})

		resp, err := c.Chat(context.Background(), userMsg)
		require.NoError(t, err)
		assert.Equal(t, "hi there", resp.Text())
		assert.Equal(t, 15, resp.Usage.TotalTokens())

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.SuccessfulRequests)
		assert.Equal(t, uint64(0), snap.RetriedRequests)
	})

	t.Run("transient failures are retried to success", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			{err: transientErr()},
			{err: transientErr()},
			{resp: &ai.Response{Content: "recovered"}},
		}}
		c := newTestClient(t, fake, Config{})

		resp, err := c.Chat(context.Background(), userMsg)
		require.NoError(t, err)
		assert.Equal(t, "recovered", resp.Text())
		assert.Equal(t, 3, fake.calls)

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.SuccessfulRequests)
		assert.Equal(t, uint64(2), snap.RetriedRequests)
	})

	t.Run("exhausted retries count as one failed request", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{{err: transientErr()}}}
		c := newTestClient(t, fake, Config{
			Retry: &retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
		})

		_, err := c.Chat(context.Background(), userMsg)
		require.Error(t, err)
		assert.Equal(t, 3, fake.calls)

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.TotalRequests)
		assert.Equal(t, uint64(0), snap.SuccessfulRequests)
		assert.Equal(t, uint64(1), snap.FailedRequests)
		assert.Equal(t, uint64(2), snap.RetriedRequests)
	})

	t.Run("permanent error fails without retry", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{{err: ai.NewPermanentError("invalid api key", 401, nil)}}}
		c := newTestClient(t, fake, Config{})

		_, err := c.Chat(context.Background(), userMsg)
		require.Error(t, err)
		assert.Equal(t, 1, fake.calls)

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.FailedRequests)
		assert.Equal(t, uint64(0), snap.RetriedRequests)
	})

	t.Run("default options merge with per-request options winning", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{{resp: &ai.Response{Content: "ok"}}}}
		cfg := Config{Provider: ai.ProviderClaude, APIKey: "k", Retry: &retry.Config{}}
		c, err := New(cfg, WithDefaultTemperature(0.2), WithDefaultMaxTokens(256))
		require.NoError(t, err)
		c.chat = fake

		_, err = c.Chat(context.Background(), userMsg, ai.WithTemperature(0.9))
		require.NoError(t, err)
		require.NotNil(t, fake.lastOpts.Temperature)
		assert.Equal(t, 0.9, *fake.lastOpts.Temperature)
		assert.Equal(t, 256, fake.lastOpts.MaxTokens)
	})
}

func TestChatWithTools(t *testing.T) {
	fake := &fakeChat{steps: []fakeStep{
		{resp: &ai.Response{ToolCalls: []ai.ToolCall{
			{ID: "call-1", Name: "get_weather", Arguments: `{"location":"Paris"}`},
		}}},
	}}
	c := newTestClient(t, fake, Config{})

	tools := []ai.Tool{{Name: "get_weather", Description: "Get current weather"}}
	resp, err := c.ChatWithTools(context.Background(), userMsg, tools, ai.WithToolChoice(ai.ToolChoiceRequired))
	require.NoError(t, err)

	require.Len(t, fake.lastOpts.Tools, 1)
	assert.Equal(t, "get_weather", fake.lastOpts.Tools[0].Name)
	assert.Equal(t, ai.ToolChoiceRequired, fake.lastOpts.ToolChoice)

	require.True(t, resp.HasToolUse())
	blocks := resp.ToolUseBlocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "call-1", blocks[0].ID)
	assert.Equal(t, `{"location":"Paris"}`, blocks[0].Arguments)
}

func TestCircuitBreaker(t *testing.T) {
	failStep := fakeStep{err: ai.NewPermanentError("backend down", 500, nil)}

	t.Run("trips after threshold and rejects without counting", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{failStep}}
		c := newTestClient(t, fake, Config{
			Breaker: &retry.BreakerConfig{Threshold: 2, Cooldown: time.Minute},
		})

		for i := 0; i < 2; i++ {
			_, err := c.Chat(context.Background(), userMsg)
			require.Error(t, err)
		}
		assert.Equal(t, retry.StateOpen, c.CircuitState())

		before := c.Metrics()
		assert.Equal(t, uint64(2), before.TotalRequests)
		assert.Equal(t, uint64(1), before.CircuitTrips)

		_, err := c.Chat(context.Background(), userMsg)
		var coe *retry.CircuitOpenError
		require.ErrorAs(t, err, &coe)
		assert.Greater(t, coe.RetryAfter, time.Duration(0))

		// Rejected calls never reach the provider and are not counted.
		after := c.Metrics()
		assert.Equal(t, uint64(2), after.TotalRequests)
		assert.Equal(t, 2, fake.calls)
	})

	t.Run("success closes and resets failure count", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			failStep,
			{resp: &ai.Response{Content: "ok"}},
			failStep,
		}}
		c := newTestClient(t, fake, Config{
			Breaker: &retry.BreakerConfig{Threshold: 2, Cooldown: time.Minute},
		})

		_, err := c.Chat(context.Background(), userMsg)
		require.Error(t, err)
		_, err = c.Chat(context.Background(), userMsg)
		require.NoError(t, err)

		// One more failure is below the threshold again.
		_, err = c.Chat(context.Background(), userMsg)
		require.Error(t, err)
		assert.Equal(t, retry.StateClosed, c.CircuitState())
	})

	t.Run("reset reopens the pipeline", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			failStep,
			failStep,
			{resp: &ai.Response{Content: "back"}},
		}}
		c := newTestClient(t, fake, Config{
			Breaker: &retry.BreakerConfig{Threshold: 2, Cooldown: time.Hour},
		})

		for i := 0; i < 2; i++ {
			_, _ = c.Chat(context.Background(), userMsg)
		}
		require.Equal(t, retry.StateOpen, c.CircuitState())

		c.Reset()
		assert.Equal(t, retry.StateClosed, c.CircuitState())
		assert.Equal(t, retry.Snapshot{}, c.Metrics())

		resp, err := c.Chat(context.Background(), userMsg)
		require.NoError(t, err)
		assert.Equal(t, "back", resp.Text())
	})
}

func TestChatStream(t *testing.T) {
	t.Run("events arrive in order", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			{stream: []ai.StreamEvent{
				{Delta: "Hel"},
				{Delta: "lo"},
				{Done: true, Response: &ai.Response{Content: "Hello", Usage: ai.Usage{OutputTokens: 2}}},
			}},
		}}
		c := newTestClient(t, fake, Config{})

		stream, err := c.ChatStream(context.Background(), userMsg)
		require.NoError(t, err)

		var deltas []string
		var final *ai.Response
		for ev := range stream {
			require.NoError(t, ev.Err)
			if ev.Delta != "" {
				deltas = append(deltas, ev.Delta)
			}
			if ev.Done {
				final = ev.Response
			}
		}
		assert.Equal(t, []string{"Hel", "lo"}, deltas)
		require.NotNil(t, final)
		assert.Equal(t, "Hello", final.Content)
	})

	t.Run("establishment failures are retried", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			{err: transientErr()},
			{stream: []ai.StreamEvent{{Delta: "ok"}, {Done: true}}},
		}}
		c := newTestClient(t, fake, Config{})

		stream, err := c.ChatStream(context.Background(), userMsg)
		require.NoError(t, err)
		assert.Equal(t, 2, fake.calls)
		for range stream {
		}

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.RetriedRequests)
	})
}

func TestChatStreamText(t *testing.T) {
	streamStep := fakeStep{stream: []ai.StreamEvent{
		{Delta: "The "},
		{Delta: "answer "},
		{Delta: "is 42"},
		{Done: true, Response: &ai.Response{Content: "The answer is 42"}},
	}}

	t.Run("accumulates deltas in order", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{streamStep}}
		c := newTestClient(t, fake, Config{})

		var seen []string
		text, err := c.ChatStreamText(context.Background(), userMsg, func(delta string) {
			seen = append(seen, delta)
		})
		require.NoError(t, err)
		assert.Equal(t, "The answer is 42", text)
		assert.Equal(t, []string{"The ", "answer ", "is 42"}, seen)
	})

	t.Run("nil callback is allowed", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{streamStep}}
		c := newTestClient(t, fake, Config{})

		text, err := c.ChatStreamText(context.Background(), userMsg, nil)
		require.NoError(t, err)
		assert.Equal(t, "The answer is 42", text)
	})

	t.Run("mid-stream error surfaces", func(t *testing.T) {
		fake := &fakeChat{steps: []fakeStep{
			{stream: []ai.StreamEvent{
				{Delta: "partial"},
				{Err: errors.New("connection lost")},
			}},
		}}
		c := newTestClient(t, fake, Config{})

		_, err := c.ChatStreamText(context.Background(), userMsg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection lost")
	})
}

func TestEmbed(t *testing.T) {
	t.Run("unsupported on claude", func(t *testing.T) {
		c := newTestClient(t, &fakeChat{steps: []fakeStep{{}}}, Config{})

		_, err := c.Embed(context.Background(), []string{"hello"})
		var unsupported *ErrFeatureNotSupported
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, FeatureEmbedding, unsupported.Feature)

		// Capability errors never touch resilience state.
		assert.Equal(t, retry.Snapshot{}, c.Metrics())
		assert.Equal(t, retry.StateClosed, c.CircuitState())
	})

	t.Run("delegates to the embedder", func(t *testing.T) {
		c := newTestClient(t, &fakeChat{steps: []fakeStep{{}}}, Config{})
		embed := &fakeEmbed{}
		c.embed = embed

		resp, err := c.Embed(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 1, embed.calls)
		require.Len(t, resp.Embeddings, 2)

		snap := c.Metrics()
		assert.Equal(t, uint64(1), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.SuccessfulRequests)
	})
}

func TestAnalyzeImage(t *testing.T) {
	fake := &fakeChat{steps: []fakeStep{{resp: &ai.Response{Content: "a cat"}}}}
	c := newTestClient(t, fake, Config{})

	resp, err := c.AnalyzeImage(context.Background(), "What is in this image?",
		ai.NewImageURLPart("https://example.com/cat.png"))
	require.NoError(t, err)
	assert.Equal(t, "a cat", resp.Text())
}

func TestCost(t *testing.T) {
	t.Run("catalog model", func(t *testing.T) {
		c, err := New(Config{Provider: ai.ProviderClaude, APIKey: "k"})
		require.NoError(t, err)

		// claude-sonnet-4-5: $3/M input, $15/M output.
		cost := c.Cost(ai.Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000})
		assert.InDelta(t, 18.0, cost, 1e-9)
	})

	t.Run("unknown model falls back to provider default pricing", func(t *testing.T) {
		c, err := New(Config{Provider: ai.ProviderOpenAIStandard, APIKey: "k", Model: "gpt-4o-2024-11-20"})
		require.NoError(t, err)

		// gpt-4o pricing: $2.50/M input, $10/M output.
		cost := c.Cost(ai.Usage{InputTokens: 2_000_000})
		assert.InDelta(t, 5.0, cost, 1e-9)
	})
}

func TestEvents(t *testing.T) {
	t.Run("failure with retries emits lifecycle events", func(t *testing.T) {
		events := make(chan Event, 64)
		fake := &fakeChat{steps: []fakeStep{{err: transientErr()}}}
		c := newTestClient(t, fake, Config{
			Events: events,
			Retry:  &retry.Config{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		})

		_, err := c.Chat(context.Background(), userMsg)
		require.Error(t, err)

		seen := drainEvents(events)
		assert.Contains(t, seen, EventRequestStart)
		assert.Contains(t, seen, EventRequestError)
	})

	t.Run("circuit events", func(t *testing.T) {
		events := make(chan Event, 64)
		fake := &fakeChat{steps: []fakeStep{{err: ai.NewPermanentError("down", 500, nil)}}}
		c := newTestClient(t, fake, Config{
			Events:  events,
			Breaker: &retry.BreakerConfig{Threshold: 1, Cooldown: time.Hour},
		})

		_, err := c.Chat(context.Background(), userMsg)
		require.Error(t, err)
		_, err = c.Chat(context.Background(), userMsg)
		var coe *retry.CircuitOpenError
		require.ErrorAs(t, err, &coe)

		seen := drainEvents(events)
		assert.Contains(t, seen, EventCircuitTripped)
		assert.Contains(t, seen, EventCircuitRejected)
	})
}

// drainEvents waits briefly for async event forwarding, then collects the
// event types seen so far.
func drainEvents(events chan Event) []EventType {
	time.Sleep(20 * time.Millisecond)
	var seen []EventType
	for {
		select {
		case ev := <-events:
			seen = append(seen, ev.Type)
		default:
			return seen
		}
	}
}
