package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/conduitllm/conduit"
)

// jsonResponseToolName is the name of the synthetic tool used for JSON mode.
const jsonResponseToolName = "__conduit_json_response__"

// convertTools translates canonical tool definitions into the Claude
// input_schema shape. Tool.Schema absorbs the parameters/input_schema
// duality, so an OpenAI-style definition produces the same request here as
// a Claude-style one.
func convertTools(tools []ai.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		var schema map[string]any
		if raw := t.Schema(); len(raw) > 0 {
			json.Unmarshal(raw, &schema)
		}

		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   requiredFields(schema),
			},
		}

		result[i] = anthropic.ToolUnionParam{
			OfTool: &toolParam,
		}
	}
	return result
}

// requiredFields extracts the "required" list from a parsed JSON Schema.
func requiredFields(schema map[string]any) []string {
	var required []string
	if reqVal, ok := schema["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}
	return required
}

func convertToolChoice(choice ai.ToolChoice) anthropic.ToolChoiceUnionParam {
	switch choice {
	case ai.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{
			OfNone: &anthropic.ToolChoiceNoneParam{},
		}
	case ai.ToolChoiceRequired:
		return anthropic.ToolChoiceUnionParam{
			OfAny: &anthropic.ToolChoiceAnyParam{},
		}
	default:
		return anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}
	}
}

// buildJSONTool creates the synthetic forced tool used to coax structured
// JSON out of models without a native JSON response mode.
func buildJSONTool(options *ai.Options) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	var schema map[string]any
	if options.ResponseSchema != nil && len(options.ResponseSchema.Schema) > 0 {
		json.Unmarshal(options.ResponseSchema.Schema, &schema)
	} else {
		// Generic object schema for basic JSON mode.
		schema = map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		}
	}

	description := "Output the response as structured JSON"
	if options.ResponseSchema != nil && options.ResponseSchema.Description != "" {
		description = options.ResponseSchema.Description
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonResponseToolName,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   requiredFields(schema),
			},
		},
	}

	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{
			Name: jsonResponseToolName,
		},
	}

	return tool, toolChoice
}
