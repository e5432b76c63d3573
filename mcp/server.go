package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/junwei-lu/pricelens/internal/aggregate"
)

// Deps carries everything the tool handlers need.
type Deps struct {
	Aggregator *aggregate.Aggregator
	Platforms  []string
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(deps Deps) error {
	s := newServer(deps)
	return server.ServeStdio(s)
}

func newServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"pricelens",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	registerTools(s, deps)
	return s
}
