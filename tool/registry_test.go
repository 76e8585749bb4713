package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/conduitllm/conduit"
)

func echoHandler(ctx context.Context, call ai.ToolCall) (string, error) {
	return call.Arguments, nil
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echoHandler))

		h, ok := r.Get("echo")
		require.True(t, ok)
		assert.NotNil(t, h)

		def, ok := r.GetTool("echo")
		require.True(t, ok)
		assert.Equal(t, "echo", def.Name)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "echo"}, echoHandler))

		err := r.Register(ai.Tool{Name: "echo"}, echoHandler)
		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "echo", dup.Name)
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)
		r.Unregister("echo")
		_, ok := r.Get("echo")
		assert.False(t, ok)
		r.Unregister("echo") // no-op
	})

	t.Run("tools and names", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "a"}, echoHandler)
		r.MustRegister(ai.Tool{Name: "b"}, echoHandler)
		assert.Len(t, r.Tools(), 2)
		assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
	})
}

func TestRegisterFunc(t *testing.T) {
	type WeatherArgs struct {
		Location string `json:"location" desc:"City name" required:"true"`
	}

	r := NewRegistry()
	require.NoError(t, RegisterFunc(r, "get_weather", "Get current weather",
		func(ctx context.Context, args WeatherArgs) (string, error) {
			return `{"temp": 18, "city": "` + args.Location + `"}`, nil
		}))

	t.Run("generates the parameter schema", func(t *testing.T) {
		def, ok := r.GetTool("get_weather")
		require.True(t, ok)
		assert.Equal(t, "Get current weather", def.Description)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(def.Schema(), &schema))
		assert.Equal(t, "object", schema["type"])
		assert.Equal(t, []any{"location"}, schema["required"])
	})

	t.Run("unmarshals arguments into the typed handler", func(t *testing.T) {
		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call-1",
			Name:      "get_weather",
			Arguments: `{"location":"Tokyo"}`,
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content, "Tokyo")
	})

	t.Run("malformed arguments surface as tool error result", func(t *testing.T) {
		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call-2",
			Name:      "get_weather",
			Arguments: `{not json`,
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestExecute(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "nope"})
		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "nope", notFound.Name)
	})

	t.Run("handler errors become error results", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "boom"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", errors.New("kaboom")
		})

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "call-1", Name: "boom"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "kaboom", result.Content)
		assert.Equal(t, "call-1", result.ToolCallID)
	})
}

func TestExecuteAll(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(ai.Tool{Name: "echo"}, echoHandler)

	msg, err := r.ExecuteAll(context.Background(), []ai.ToolCall{
		{ID: "call-1", Name: "echo", Arguments: `{"a":1}`},
		{ID: "call-2", Name: "echo", Arguments: `{"b":2}`},
	})
	require.NoError(t, err)
	assert.Equal(t, ai.RoleTool, msg.Role)
	require.Len(t, msg.ToolResults, 2)
	assert.Equal(t, "call-1", msg.ToolResults[0].ToolCallID)
	assert.Equal(t, `{"b":2}`, msg.ToolResults[1].Content)

	t.Run("stops on unknown tool", func(t *testing.T) {
		_, err := r.ExecuteAll(context.Background(), []ai.ToolCall{
			{ID: "call-3", Name: "missing"},
		})
		assert.Error(t, err)
	})
}
