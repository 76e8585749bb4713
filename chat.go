package conduit

import "context"

// ChatProvider defines the interface for AI chat providers.
// Adapters satisfy it structurally; there is no shared base state.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// ChatStream sends a conversation and returns a channel of streaming events.
	// The channel is closed when the stream is complete or an error occurs.
	// Callers should check StreamEvent.Err for any errors.
	ChatStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}

// EmbeddingProvider defines the interface for AI embedding providers.
// Adapters without embedding capability simply do not implement it; the
// client surfaces a typed unsupported-feature error instead.
type EmbeddingProvider interface {
	// Embed generates embeddings for the provided texts.
	// Returns an error if texts is empty. The returned vectors match the
	// input order.
	Embed(ctx context.Context, texts []string, opts ...EmbeddingOption) (*EmbeddingResponse, error)
}
