package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Diamond Plans", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Diamond Plans youth baseball practice planner. Look up the roster and weekly curriculum, generate 60-minute practice plans from attendance, and record practices."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListRoster, Handler: h.listRoster},
		server.ServerTool{Tool: toolGetWeekCurriculum, Handler: h.getWeekCurriculum},
		server.ServerTool{Tool: toolGeneratePracticePlan, Handler: h.generatePracticePlan},
		server.ServerTool{Tool: toolStartPractice, Handler: h.startPractice},
		server.ServerTool{Tool: toolGetSessionPlan, Handler: h.getSessionPlan},
		server.ServerTool{Tool: toolCompletePractice, Handler: h.completePractice},
	)

	s.AddResources(
		server.ServerResource{Resource: resRoster, Handler: h.roster},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resRoster = mcp.NewResource(
	"diamondplans://roster",
	"Roster",
	mcp.WithResourceDescription("Active players with skill levels and all coaches with their roles"),
	mcp.WithMIMEType("application/json"),
)
