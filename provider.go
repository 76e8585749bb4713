package conduit

import (
	"fmt"
	"strings"
)

// Provider identifies an AI provider backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	// ProviderOpenAI is an alias that resolves to either ProviderOpenAIStandard
	// or ProviderAzureOpenAI depending on the configured default backend.
	ProviderOpenAI Provider = "openai"

	// ProviderOpenAIStandard targets the standard api.openai.com endpoint.
	ProviderOpenAIStandard Provider = "openai-standard"

	// ProviderAzureOpenAI targets an Azure OpenAI deployment.
	ProviderAzureOpenAI Provider = "azure-openai"

	// ProviderClaude targets the Anthropic Messages API.
	ProviderClaude Provider = "claude"
)

// Providers lists every recognized provider name.
var Providers = []Provider{
	ProviderOpenAI,
	ProviderOpenAIStandard,
	ProviderAzureOpenAI,
	ProviderClaude,
}

// ParseProvider converts a provider name into a Provider.
// The set of names is closed; anything else returns an error listing
// the valid names.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	valid := make([]string, len(Providers))
	for i, known := range Providers {
		valid[i] = known.String()
	}
	return "", fmt.Errorf("unsupported provider %q (valid providers: %s)", name, strings.Join(valid, ", "))
}
