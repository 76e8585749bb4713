// Package tool provides a registry for executing model tool calls.
//
// Register tool definitions with handlers, pass Registry.Tools to a chat
// request, then feed the model's tool calls back through Execute or
// ExecuteAll to complete the round trip:
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterFunc(registry, "get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return lookupWeather(args.Location)
//	    })
//
//	resp, err := c.ChatWithTools(ctx, messages, registry.Tools())
//	if resp.HasToolUse() {
//	    resultMsg, err := registry.ExecuteAll(ctx, resp.ToolUseBlocks())
//	    ...
//	}
package tool
