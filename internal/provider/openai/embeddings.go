package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	ai "github.com/conduitllm/conduit"
)

// Embed generates embeddings for the provided texts using the embeddings API.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: at least one text is required for embedding", ai.ErrEmptyInput)
	}

	options := ai.ApplyEmbeddingOptions(opts...)

	model := DefaultEmbeddingModel
	if options.Model != "" {
		model = options.Model
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}
	if options.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(options.Dimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	// Vectors come back in input order.
	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return &ai.EmbeddingResponse{
		Embeddings: embeddings,
		Usage: ai.Usage{
			InputTokens: int(resp.Usage.PromptTokens),
		},
	}, nil
}
