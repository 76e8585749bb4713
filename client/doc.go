// Package client constructs resilient provider clients.
//
// The Client wraps a provider adapter and provides:
//
//   - Provider selection from a closed name set: openai, openai-standard,
//     azure-openai, claude
//   - Automatic retries: exponential backoff with jitter for transient errors
//   - Circuit breaking: repeated failures trip the breaker open so a
//     struggling vendor is not hammered; a half-open probe detects recovery
//   - Request metrics: total/successful/failed/retried counts and trip counter
//   - Event emission: observable operations via channel
//
// # Basic Usage
//
// Create a client with a provider and API key:
//
//	c, err := client.New(client.Config{
//	    Provider: conduit.ProviderClaude,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Chat(ctx, []conduit.Message{
//	    {Role: conduit.RoleUser, Content: "Hello!"},
//	})
//
// Construction fails fast: unknown provider names and missing credentials
// are reported by New, not on the first request, and there is never a
// silent fallback to a different provider.
//
// # Provider Selection
//
// The "openai" name is an alias resolved through Config.DefaultOpenAIBackend:
//
//	// Resolves to openai-standard (the default)
//	c, _ := client.NewFromName("openai", client.Config{APIKey: key})
//
//	// Resolves to azure-openai
//	c, _ := client.NewFromName("openai", client.Config{
//	    APIKey:               key,
//	    AzureEndpoint:        "https://my-resource.openai.azure.com",
//	    DefaultOpenAIBackend: conduit.ProviderAzureOpenAI,
//	})
//
// # Resilience Configuration
//
// Retry and breaker policies are configurable per client:
//
//	c, _ := client.New(client.Config{
//	    Provider: conduit.ProviderOpenAIStandard,
//	    APIKey:   key,
//	    Retry: &retry.Config{
//	        MaxRetries: 5,
//	        BaseDelay:  500 * time.Millisecond,
//	        MaxDelay:   30 * time.Second,
//	    },
//	    Breaker: &retry.BreakerConfig{
//	        Threshold: 3,
//	        Cooldown:  time.Minute,
//	    },
//	})
//
// Resilience state is per instance. Call sites that should share one
// breaker (e.g. all traffic to a single vendor account) share the *Client;
// there are no package-level globals.
//
// # Metrics
//
// Request accounting is available at any time:
//
//	m := c.Metrics()
//	fmt.Printf("%d requests, %.1f%% success, %d retries, %d trips\n",
//	    m.TotalRequests, m.SuccessRate(), m.RetriedRequests, m.CircuitTrips)
//
// A call rejected by an open breaker does not count toward TotalRequests;
// only calls that reach the provider-facing retry executor do.
//
// # Events
//
// Observe operations via an event channel:
//
//	events := make(chan client.Event, 100)
//	c, _ := client.New(client.Config{
//	    Provider: conduit.ProviderOpenAIStandard,
//	    APIKey:   key,
//	    Events:   events,
//	})
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Operation, e.Duration)
//	    }
//	}()
package client
