// Package mcp exposes the bell as MCP tools.
//
// Every tool call goes through the same request loop as HTTP, so tool calls and
// HTTP requests are served one at a time in arrival order.
package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/version"
)

// Submitter hands a request to the request loop and waits for the reply.
type Submitter interface {
	Submit(ctx context.Context, req controller.Request) (controller.Reply, error)
}

// Server wraps the MCP server with the bell tools
type Server struct {
	mcpServer *server.MCPServer
	submitter Submitter
}

// NewServer creates a new MCP server for the bell
func NewServer(submitter Submitter) *Server {
	s := &Server{
		submitter: submitter,
	}

	s.mcpServer = server.NewMCPServer(
		"singingbell",
		version.Short(),
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// Handler returns the streamable HTTP transport for mounting on a router.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}
