package client

import (
	"fmt"
	"strings"

	ai "github.com/conduitllm/conduit"
)

// ErrUnsupportedProvider is returned when the requested provider name is
// not in the closed set of recognized providers.
type ErrUnsupportedProvider struct {
	Name string
}

func (e *ErrUnsupportedProvider) Error() string {
	valid := make([]string, len(ai.Providers))
	for i, p := range ai.Providers {
		valid[i] = p.String()
	}
	return fmt.Sprintf("unsupported provider %q (valid providers: %s)", e.Name, strings.Join(valid, ", "))
}

// ErrMissingAPIKey is returned at construction time when no API key is
// configured for the selected provider.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for provider %s", e.Provider)
}

// ErrMissingEndpoint is returned at construction time when the Azure
// OpenAI provider is selected without a resource endpoint.
type ErrMissingEndpoint struct {
	Provider ai.Provider
}

func (e *ErrMissingEndpoint) Error() string {
	return fmt.Sprintf("no endpoint configured for provider %s", e.Provider)
}

// ErrFeatureNotSupported is returned when a capability is unavailable for
// the selected provider (e.g. embeddings on claude). It is never retried.
type ErrFeatureNotSupported struct {
	Provider ai.Provider
	Feature  Feature
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Feature)
}
