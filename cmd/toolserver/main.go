// Toolserver is a small MCP server spoken over stdio. It gives
// MCP-capable chat frontends the utility tools the voice skill provides
// natively, so a locally hosted model can answer time questions the
// same way the skill does.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	s := server.NewMCPServer("voxbridge-tools", "1.0.0",
		server.WithToolCapabilities(false),
	)

	currentTime := mcp.NewTool("current_time",
		mcp.WithDescription("Returns the current date and time, optionally in a specific IANA timezone."),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone name, e.g. Europe/Berlin. Defaults to server local time."),
		),
	)
	s.AddTool(currentTime, handleCurrentTime)

	if err := server.ServeStdio(s); err != nil {
		fmt.Printf("Server error: %v\n", err)
	}
}

func handleCurrentTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc := time.Local
	if tz := req.GetString("timezone", ""); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown timezone %q: %v", tz, err)), nil
		}
		loc = parsed
	}

	now := time.Now().In(loc)
	return mcp.NewToolResultText(now.Format("Monday, January 2, 2006 at 3:04 PM MST")), nil
}
