// Package anthropic adapts the unified chat contract to the Anthropic
// Messages API. It absorbs the format differences the Claude family has
// with the OpenAI family: tool calls arrive as tool_use content blocks,
// tool results are re-submitted as user messages wrapping tool_result
// blocks, and tool schemas use the input_schema field name.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/conduitllm/conduit"
)

// DefaultChatModel is used when no model is configured or requested.
const DefaultChatModel = "claude-sonnet-4-5"

// defaultMaxTokens applies when the caller does not set one; the Messages
// API requires max_tokens on every request.
const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
// It intentionally does not implement ai.EmbeddingProvider: the Claude
// family has no embeddings endpoint.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// buildParams converts unified messages and options into Messages API
// request parameters. The returned bool reports whether a synthetic JSON
// tool was installed for structured output.
func (c *Client) buildParams(messages []ai.Message, options *ai.Options) (anthropic.MessageNewParams, []option.RequestOption, bool) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages, options.System)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if options.TopP != nil {
		params.TopP = anthropic.Float(*options.TopP)
	}
	if len(options.Stop) > 0 {
		params.StopSequences = options.Stop
	}

	useJSONTool := options.ResponseFormat == ai.ResponseFormatJSON || options.ResponseSchema != nil
	if useJSONTool {
		jsonTool, jsonToolChoice := buildJSONTool(options)
		if len(options.Tools) > 0 {
			params.Tools = append(convertTools(options.Tools), jsonTool)
		} else {
			params.Tools = []anthropic.ToolUnionParam{jsonTool}
		}
		params.ToolChoice = jsonToolChoice
	} else if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" && options.ToolChoice != ai.ToolChoiceNone {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}

	var reqOpts []option.RequestOption
	for key, value := range options.Extra {
		reqOpts = append(reqOpts, option.WithJSONSet(key, value))
	}

	return params, reqOpts, useJSONTool
}

// collectContent normalizes Claude content blocks into extracted text and
// vendor-agnostic tool calls.
func collectContent(blocks []anthropic.ContentBlockUnion, useJSONTool bool) (string, []ai.ToolCall) {
	content := ""
	var toolCalls []ai.ToolCall
	for _, block := range blocks {
		switch block.Type {
		case "text":
			content += block.Text
		case "tool_use":
			if useJSONTool && block.Name == jsonResponseToolName {
				content = string(block.Input)
			} else {
				toolCalls = append(toolCalls, ai.ToolCall{
					ID:        block.ID,
					Name:      block.Name,
					Arguments: string(block.Input),
				})
			}
		}
	}
	return content, toolCalls
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	params, reqOpts, useJSONTool := c.buildParams(messages, options)

	resp, err := c.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, wrapError(err)
	}

	content, toolCalls := collectContent(resp.Content, useJSONTool)
	return &ai.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: toolCalls,
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Deltas are forwarded in arrival order from a single goroutine.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	params, reqOpts, useJSONTool := c.buildParams(messages, options)

	stream := c.client.Messages.NewStreaming(ctx, params, reqOpts...)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- ai.StreamEvent{
						Delta: textDelta.Text,
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.StreamEvent{Err: wrapError(err)}
			return
		}

		content, toolCalls := collectContent(acc.Content, useJSONTool)
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content,
				FinishReason: string(acc.StopReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.InputTokens),
					OutputTokens: int(acc.Usage.OutputTokens),
				},
				ToolCalls: toolCalls,
			},
		}
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
