package conduit

import "encoding/json"

// ResponseFormat controls the output format of a chat response.
type ResponseFormat string

const (
	// ResponseFormatText is the default free-form text output.
	ResponseFormatText ResponseFormat = "text"
	// ResponseFormatJSON requests structured JSON output.
	ResponseFormatJSON ResponseFormat = "json"
)

// ResponseSchema describes the expected shape of a structured JSON response.
type ResponseSchema struct {
	// Name identifies the schema (required by OpenAI structured outputs).
	Name string
	// Description explains what the response represents.
	Description string
	// Schema is a JSON Schema object describing the response.
	Schema json.RawMessage
}

// Options contains configuration for a chat request.
// Unrecognized keys supplied via WithExtra pass through untouched so new
// vendor parameters can be used before this library knows about them.
type Options struct {
	Model            string
	MaxTokens        int
	Temperature      *float64
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             []string
	System           string
	ResponseFormat   ResponseFormat
	ResponseSchema   *ResponseSchema
	Tools            []Tool
	ToolChoice       ToolChoice
	Extra            map[string]any
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTopP sets the nucleus sampling probability mass (0.0 to 1.0).
func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = &p
	}
}

// WithFrequencyPenalty sets the frequency penalty (-2.0 to 2.0).
// Only honored by the OpenAI family; Claude ignores it.
func WithFrequencyPenalty(p float64) Option {
	return func(o *Options) {
		o.FrequencyPenalty = &p
	}
}

// WithPresencePenalty sets the presence penalty (-2.0 to 2.0).
// Only honored by the OpenAI family; Claude ignores it.
func WithPresencePenalty(p float64) Option {
	return func(o *Options) {
		o.PresencePenalty = &p
	}
}

// WithStop sets stop sequences that end generation when encountered.
func WithStop(sequences ...string) Option {
	return func(o *Options) {
		o.Stop = sequences
	}
}

// WithSystem sets a system prompt for the request. It takes precedence
// over RoleSystem messages in the conversation for providers that accept
// a dedicated system field.
func WithSystem(prompt string) Option {
	return func(o *Options) {
		o.System = prompt
	}
}

// WithResponseFormat requests a specific output format (e.g., JSON mode).
func WithResponseFormat(format ResponseFormat) Option {
	return func(o *Options) {
		o.ResponseFormat = format
	}
}

// WithResponseSchema requests structured JSON output matching the schema.
// Implies JSON mode.
func WithResponseSchema(schema *ResponseSchema) Option {
	return func(o *Options) {
		o.ResponseSchema = schema
	}
}

// WithTools provides tool definitions the model may invoke.
// Definitions may use either the "parameters" or "input_schema" convention;
// they are normalized before reaching the vendor.
func WithTools(tools ...Tool) Option {
	return func(o *Options) {
		o.Tools = append(o.Tools, tools...)
	}
}

// WithToolChoice controls how the model selects tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithExtra attaches a provider-specific parameter that passes through
// untouched. Adapters forward recognized keys and ignore the rest.
func WithExtra(key string, value any) Option {
	return func(o *Options) {
		if o.Extra == nil {
			o.Extra = make(map[string]any)
		}
		o.Extra[key] = value
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
