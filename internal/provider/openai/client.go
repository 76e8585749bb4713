// Package openai adapts the unified chat contract to the OpenAI
// Chat Completions API. The same adapter serves both the standard
// api.openai.com endpoint and Azure OpenAI deployments.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	ai "github.com/conduitllm/conduit"
)

// DefaultChatModel is used when no model is configured or requested.
const DefaultChatModel = "gpt-4o"

// DefaultEmbeddingModel is used when no embedding model is requested.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Client wraps the OpenAI SDK to implement ai.ChatProvider and
// ai.EmbeddingProvider.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a client for the standard OpenAI endpoint.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAzure creates a client for an Azure OpenAI deployment.
// The endpoint is the resource URL (https://<resource>.openai.azure.com)
// and apiVersion selects the Azure API version (e.g. "2024-06-01").
func NewAzure(endpoint, apiKey, apiVersion string, opts ...ClientOption) *Client {
	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests. For Azure this is the
// deployment name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// buildParams converts unified messages and options into Chat Completions
// request parameters. Unrecognized Extra keys become request-body overrides.
func (c *Client) buildParams(messages []ai.Message, options *ai.Options) (openai.ChatCompletionNewParams, []option.RequestOption, error) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	convertedMessages, err := convertMessages(messages, options.System)
	if err != nil {
		return openai.ChatCompletionNewParams{}, nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertedMessages,
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.TopP != nil {
		params.TopP = openai.Float(*options.TopP)
	}
	if options.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*options.FrequencyPenalty)
	}
	if options.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*options.PresencePenalty)
	}
	if len(options.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: options.Stop,
		}
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}

	if options.ResponseSchema != nil {
		params.ResponseFormat = buildSchemaFormat(options.ResponseSchema)
	} else if options.ResponseFormat == ai.ResponseFormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	var reqOpts []option.RequestOption
	for key, value := range options.Extra {
		reqOpts = append(reqOpts, option.WithJSONSet(key, value))
	}

	return params, reqOpts, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)

	params, reqOpts, err := c.buildParams(messages, options)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewPermanentError("openai returned no choices", 0, nil)
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(resp.Choices[0].Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Deltas are forwarded in arrival order from a single goroutine.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)

	params, reqOpts, err := c.buildParams(messages, options)
	if err != nil {
		return nil, err
	}
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params, reqOpts...)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				ch <- ai.StreamEvent{
					Delta: chunk.Choices[0].Delta.Content,
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.StreamEvent{Err: wrapError(err)}
			return
		}
		if len(acc.Choices) == 0 {
			ch <- ai.StreamEvent{Err: ai.NewPermanentError("openai returned no choices", 0, nil)}
			return
		}

		completion := acc.Choices[0]
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      completion.Message.Content,
				FinishReason: string(completion.FinishReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.PromptTokens),
					OutputTokens: int(acc.Usage.CompletionTokens),
				},
				ToolCalls: extractToolCalls(completion.Message.ToolCalls),
			},
		}
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.EmbeddingProvider = (*Client)(nil)
