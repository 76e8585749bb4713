package conduit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestSchemaFrom(t *testing.T) {
	t.Run("simple types", func(t *testing.T) {
		type Args struct {
			Name   string  `json:"name"`
			Age    int     `json:"age"`
			Score  float64 `json:"score"`
			Active bool    `json:"active"`
		}

		result := decodeSchema(t, SchemaFrom[Args]().Build())
		assert.Equal(t, "object", result["type"])

		props := result["properties"].(map[string]any)
		assert.Equal(t, "string", props["name"].(map[string]any)["type"])
		assert.Equal(t, "integer", props["age"].(map[string]any)["type"])
		assert.Equal(t, "number", props["score"].(map[string]any)["type"])
		assert.Equal(t, "boolean", props["active"].(map[string]any)["type"])
	})

	t.Run("arrays and nested structs", func(t *testing.T) {
		type Inner struct {
			Value string `json:"value"`
		}
		type Args struct {
			Tags  []string `json:"tags"`
			Inner Inner    `json:"inner"`
		}

		result := decodeSchema(t, SchemaFrom[Args]().Build())
		props := result["properties"].(map[string]any)

		tags := props["tags"].(map[string]any)
		assert.Equal(t, "array", tags["type"])
		assert.Equal(t, "string", tags["items"].(map[string]any)["type"])

		inner := props["inner"].(map[string]any)
		assert.Equal(t, "object", inner["type"])
	})

	t.Run("fluent overrides", func(t *testing.T) {
		type Args struct {
			Location string `json:"location"`
			Unit     string `json:"unit"`
		}

		result := decodeSchema(t, SchemaFrom[Args]().
			Desc("location", "City name").
			Required("location").
			Enum("unit", "celsius", "fahrenheit").
			Build())

		props := result["properties"].(map[string]any)
		assert.Equal(t, "City name", props["location"].(map[string]any)["description"])
		assert.Equal(t, []any{"celsius", "fahrenheit"}, props["unit"].(map[string]any)["enum"])
		assert.Equal(t, []any{"location"}, result["required"])
	})

	t.Run("unknown fields ignored", func(t *testing.T) {
		type Args struct {
			Name string `json:"name"`
		}
		result := decodeSchema(t, SchemaFrom[Args]().Required("nope").Desc("nope", "x").Build())
		_, hasRequired := result["required"]
		assert.False(t, hasRequired)
	})

	t.Run("skips unexported and dashed fields", func(t *testing.T) {
		type Args struct {
			Public  string `json:"public"`
			Ignored string `json:"-"`
			hidden  string
		}
		result := decodeSchema(t, SchemaFrom[Args]().Build())
		props := result["properties"].(map[string]any)
		assert.Len(t, props, 1)
		assert.Contains(t, props, "public")
	})
}

func TestSchemaFor(t *testing.T) {
	type WeatherArgs struct {
		Location string `json:"location" desc:"City name" required:"true"`
		Unit     string `json:"unit" enum:"celsius,fahrenheit"`
	}

	result := decodeSchema(t, SchemaFor[WeatherArgs]())
	props := result["properties"].(map[string]any)

	location := props["location"].(map[string]any)
	assert.Equal(t, "City name", location["description"])
	assert.Equal(t, []any{"location"}, result["required"])

	unit := props["unit"].(map[string]any)
	assert.Equal(t, []any{"celsius", "fahrenheit"}, unit["enum"])
}
