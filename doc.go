// Package conduit provides a unified interface for interacting with LLM
// providers, with built-in resilience.
//
// The conduit library abstracts away provider-specific APIs, allowing you to
// write code once and switch between Anthropic (Claude), standard OpenAI, and
// Azure OpenAI with minimal changes. Every client constructed through the
// [github.com/conduitllm/conduit/client] package is wrapped with retry,
// exponential backoff, and a circuit breaker.
//
// # Core Interfaces
//
// The library defines two provider interfaces:
//
//   - [ChatProvider]: Send conversations and receive responses (text, streaming, tool calls)
//   - [EmbeddingProvider]: Generate vector embeddings for text
//
// Use the [github.com/conduitllm/conduit/client] package as the entry point
// for provider access, and the [github.com/conduitllm/conduit/model] package
// for model selection and cost calculation.
//
// # Basic Usage
//
// Send a simple chat message:
//
//	c, err := client.New(client.Config{
//	    Provider: conduit.ProviderClaude,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	messages := []conduit.Message{
//	    {Role: conduit.RoleUser, Content: "What is the capital of France?"},
//	}
//
//	resp, err := c.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text())
//
// # Streaming Responses
//
// For real-time output, use ChatStream:
//
//	stream, err := c.ChatStream(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// Or collect the full text with a per-fragment callback:
//
//	text, err := c.ChatStreamText(ctx, messages, func(delta string) {
//	    fmt.Print(delta)
//	})
//
// # Tool Calling
//
// Define tools that the model can invoke. Schemas may use either the OpenAI
// "parameters" convention or the Claude "input_schema" convention; both are
// normalized before reaching the vendor:
//
//	tools := []conduit.Tool{
//	    {
//	        Name:        "get_weather",
//	        Description: "Get current weather for a location",
//	        Parameters: json.RawMessage(`{
//	            "type": "object",
//	            "properties": {
//	                "location": {"type": "string", "description": "City name"}
//	            },
//	            "required": ["location"]
//	        }`),
//	    },
//	}
//
//	resp, err := c.ChatWithTools(ctx, messages, tools)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, call := range resp.ToolUseBlocks() {
//	    fmt.Printf("Tool: %s, Args: %s\n", call.Name, call.Arguments)
//	}
//
// # Resilience
//
// Clients retry transient failures (HTTP 429, 5xx, network faults) with
// exponential backoff and jitter, and trip a circuit breaker after repeated
// failures so a struggling vendor is not hammered. See
// [github.com/conduitllm/conduit/retry] for the policy details and
// Client.Metrics for per-client request accounting.
package conduit
