package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/client"
	"github.com/conduitllm/conduit/tool"
)

var reader = bufio.NewReader(os.Stdin)

func main() {
	godotenv.Load()
	ctx := context.Background()

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║        conduit - LLM Client Demo       ║")
	fmt.Println("╚════════════════════════════════════════╝")
	fmt.Println()

	candidates := []struct {
		provider conduit.Provider
		envKey   string
		label    string
	}{
		{conduit.ProviderClaude, "ANTHROPIC_API_KEY", "Anthropic (Claude)"},
		{conduit.ProviderOpenAIStandard, "OPENAI_API_KEY", "OpenAI (GPT-4o)"},
		{conduit.ProviderAzureOpenAI, "AZURE_OPENAI_API_KEY", "Azure OpenAI"},
	}

	var available []struct {
		provider conduit.Provider
		apiKey   string
		label    string
	}

	fmt.Println("Available providers:")
	for _, cand := range candidates {
		if key := os.Getenv(cand.envKey); key != "" {
			fmt.Printf("  [%d] %s\n", len(available)+1, cand.label)
			available = append(available, struct {
				provider conduit.Provider
				apiKey   string
				label    string
			}{cand.provider, key, cand.label})
		}
	}

	if len(available) == 0 {
		fmt.Println("  ✗ No API keys found. Set ANTHROPIC_API_KEY, OPENAI_API_KEY, or AZURE_OPENAI_API_KEY.")
		return
	}
	fmt.Println()

	var selected int
	if len(available) == 1 {
		fmt.Printf("Using %s (only available provider)\n", available[0].label)
	} else {
		fmt.Printf("Select provider [1-%d]: ", len(available))
		answer, _ := reader.ReadString('\n')
		fmt.Sscanf(strings.TrimSpace(answer), "%d", &selected)
		selected--
		if selected < 0 || selected >= len(available) {
			selected = 0
		}
		fmt.Printf("Using %s\n", available[selected].label)
	}
	fmt.Println()

	c, err := client.New(client.Config{
		Provider:      available[selected].provider,
		APIKey:        available[selected].apiKey,
		AzureEndpoint: os.Getenv("AZURE_OPENAI_ENDPOINT"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		return
	}

	fmt.Println("Supported features:")
	fmt.Printf("  Chat:       ✓\n")
	if c.SupportsFeature(client.FeatureEmbedding) {
		fmt.Printf("  Embeddings: ✓\n")
	} else {
		fmt.Printf("  Embeddings: ✗\n")
	}
	fmt.Println()

	if askYesNo("Demo chat streaming?") {
		demoChatStreaming(ctx, c)
	}

	if askYesNo("Demo vision/image input?") {
		demoVisionInput(ctx, c)
	}

	if askYesNo("Demo tool/function calling?") {
		demoToolCalling(ctx, c)
	}

	if askYesNo("Demo JSON mode / structured output?") {
		demoJSONMode(ctx, c)
	}

	if c.SupportsFeature(client.FeatureEmbedding) {
		if askYesNo("Demo embeddings?") {
			demoEmbeddings(ctx, c)
		}
	}

	printMetrics(c)
	fmt.Println("\n✨ Demo complete!")
}

func askYesNo(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func demoChatStreaming(ctx context.Context, c *client.Client) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│          Chat Streaming Demo            │")
	fmt.Println("└─────────────────────────────────────────┘")

	messages := []conduit.Message{
		{Role: conduit.RoleUser, Content: "Say hello in 3 different languages, one per line."},
	}

	fmt.Printf("\n%s:\n", c.Provider())
	_, err := c.ChatStreamText(ctx, messages, func(delta string) {
		fmt.Print(delta)
	})
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stream error: %v\n", err)
	}
}

func demoVisionInput(ctx context.Context, c *client.Client) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│         Vision/Image Input Demo         │")
	fmt.Println("└─────────────────────────────────────────┘")

	imageURL := "https://upload.wikimedia.org/wikipedia/commons/thumb/4/47/PNG_transparency_demonstration_1.png/300px-PNG_transparency_demonstration_1.png"
	fmt.Printf("Image URL: %s\n\n", imageURL)

	resp, err := c.AnalyzeImage(ctx, "Describe this image in one sentence.",
		conduit.NewImageURLPart(imageURL))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Printf("Response: %s\n", resp.Text())
	fmt.Printf("[Tokens: %d in, %d out | cost: $%.6f]\n",
		resp.Usage.InputTokens, resp.Usage.OutputTokens, c.Cost(resp.Usage))
}

func demoToolCalling(ctx context.Context, c *client.Client) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│          Tool Calling Demo              │")
	fmt.Println("└─────────────────────────────────────────┘")

	type weatherArgs struct {
		Location string `json:"location" desc:"The city name, e.g. San Francisco" required:"true"`
	}

	registry := tool.NewRegistry()
	tool.MustRegisterFunc(registry, "get_weather", "Get the current weather for a location",
		func(ctx context.Context, args weatherArgs) (string, error) {
			return fmt.Sprintf(`{"location": %q, "temperature": 18, "conditions": "partly cloudy"}`, args.Location), nil
		})

	messages := []conduit.Message{
		{Role: conduit.RoleUser, Content: "What's the weather like in Tokyo right now?"},
	}

	resp, err := c.ChatWithTools(ctx, messages, registry.Tools())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	if !resp.HasToolUse() {
		fmt.Printf("Model answered directly: %s\n", resp.Text())
		return
	}

	for _, call := range resp.ToolUseBlocks() {
		fmt.Printf("Tool call: %s(%s)\n", call.Name, call.Arguments)
	}

	resultMsg, err := registry.ExecuteAll(ctx, resp.ToolUseBlocks())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	messages = append(messages,
		conduit.Message{Role: conduit.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls},
		resultMsg,
	)

	final, err := c.Chat(ctx, messages, conduit.WithTools(registry.Tools()...))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("Final answer: %s\n", final.Text())
}

func demoJSONMode(ctx context.Context, c *client.Client) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│      JSON / Structured Output Demo      │")
	fmt.Println("└─────────────────────────────────────────┘")

	messages := []conduit.Message{
		{Role: conduit.RoleUser, Content: "List 3 programming languages with their release year."},
	}

	resp, err := c.Chat(ctx, messages,
		conduit.WithResponseFormat(conduit.ResponseFormatJSON),
		conduit.WithResponseSchema(&conduit.ResponseSchema{
			Name:        "languages",
			Description: "Programming languages with release years",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"languages": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"name": {"type": "string"},
								"year": {"type": "integer"}
							},
							"required": ["name", "year"]
						}
					}
				},
				"required": ["languages"]
			}`),
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Printf("Structured response:\n%s\n", resp.Text())
}

func demoEmbeddings(ctx context.Context, c *client.Client) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│           Embeddings Demo               │")
	fmt.Println("└─────────────────────────────────────────┘")

	texts := []string{
		"The quick brown fox jumps over the lazy dog",
		"A fast auburn fox leaps above a sleepy canine",
		"The stock market closed higher today",
	}

	resp, err := c.Embed(ctx, texts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	for i, text := range texts {
		fmt.Printf("  [%d] %q → %d dimensions\n", i+1, text, len(resp.Embeddings[i]))
	}
}

func printMetrics(c *client.Client) {
	snap := c.Metrics()
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Println("│           Request Metrics               │")
	fmt.Println("└─────────────────────────────────────────┘")
	fmt.Printf("  Total requests:   %d\n", snap.TotalRequests)
	fmt.Printf("  Successful:       %d\n", snap.SuccessfulRequests)
	fmt.Printf("  Failed:           %d\n", snap.FailedRequests)
	fmt.Printf("  Retries:          %d\n", snap.RetriedRequests)
	fmt.Printf("  Circuit trips:    %d\n", snap.CircuitTrips)
	fmt.Printf("  Success rate:     %.1f%%\n", snap.SuccessRate())
	fmt.Printf("  Circuit state:    %s\n", c.CircuitState())
}
