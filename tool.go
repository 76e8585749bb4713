package conduit

import (
	"encoding/json"
)

// Tool defines a function that can be called by the model.
//
// The two vendor families disagree on the schema field name: OpenAI-style
// definitions use "parameters" while Claude-style definitions use
// "input_schema". Tool accepts either convention; Schema returns the
// canonical schema and adapters convert it to their vendor's field at the
// call site. Callers never need to know which vendor is behind the client.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does.
	Description string
	// Parameters is a JSON Schema object in the OpenAI "parameters" convention.
	Parameters json.RawMessage
	// InputSchema is a JSON Schema object in the Claude "input_schema"
	// convention. When both Parameters and InputSchema are set, Parameters wins.
	InputSchema json.RawMessage
}

// Schema returns the canonical JSON Schema for the tool's arguments,
// regardless of which field convention was used to populate it.
func (t Tool) Schema() json.RawMessage {
	if len(t.Parameters) > 0 {
		return t.Parameters
	}
	return t.InputSchema
}

// Normalize returns a copy of the tool with both schema fields populated
// from whichever was set, so either vendor family can consume it.
func (t Tool) Normalize() Tool {
	schema := t.Schema()
	t.Parameters = schema
	t.InputSchema = schema
	return t
}

// toolJSON is the wire representation for Tool, carrying both field
// conventions.
type toolJSON struct {
	Type        string          `json:"type,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
	Function    *toolJSON       `json:"function,omitempty"`
}

// MarshalJSON emits the tool with both schema field names populated.
func (t Tool) MarshalJSON() ([]byte, error) {
	schema := t.Schema()
	return json.Marshal(toolJSON{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
		InputSchema: schema,
	})
}

// UnmarshalJSON accepts tool definitions in any of three shapes: flat with
// "parameters", flat with "input_schema", or the OpenAI function wrapper
// {"type":"function","function":{...}}.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var raw toolJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Function != nil {
		raw = *raw.Function
	}
	t.Name = raw.Name
	t.Description = raw.Description
	t.Parameters = raw.Parameters
	t.InputSchema = raw.InputSchema
	return nil
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ToolResult represents the result of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content to return to the model.
	Content string `json:"content"`
	// IsError indicates if the result represents an error.
	IsError bool `json:"isError,omitempty"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

// NewToolResultMessage creates a message containing tool results.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}
