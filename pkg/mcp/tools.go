package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Get the current chime type, last action and whether the bell is chiming"),
		),
		s.handleGetStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("chime",
			mcp.WithDescription("Start or stop a chime pattern. Alarm strikes 10 times, meditate strikes until stopped, doorbell strikes twice."),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("Chime pattern"),
				mcp.Enum("alarm", "meditate", "doorbell"),
			),
			mcp.WithString("action",
				mcp.Required(),
				mcp.Description("start or stop"),
				mcp.Enum("start", "stop"),
			),
		),
		s.handleChime,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("calibrate",
			mcp.WithDescription("Hold the mallet in position for 10 seconds so the bowl can be aligned. Without an angle the mallet sweeps to its calibration angle. The bell does nothing else while calibrating."),
			mcp.WithNumber("angle",
				mcp.Description("Servo angle to hold, 0 to 180"),
				mcp.Min(0),
				mcp.Max(180),
			),
		),
		s.handleCalibrate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_history",
			mcp.WithDescription("List recent chime state changes, newest first"),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of events (default 20, max 200)"),
			),
		),
		s.handleGetHistory,
	)
}
