package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/modeldeps/pkg/config"
)

// Server wraps the MCP server and registers the modeldeps tools.
type Server struct {
	server *mcp.Server
	config *config.Config
}

// Option configures a Server.
type Option func(*Server)

// WithConfig fixes the configuration used by every tool call. Without it
// each call loads the configuration of the requested project root.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "modeldeps",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_types",
		Description: describeAnalyzeTypes(),
	}, s.handleAnalyzeTypes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "type_references",
		Description: describeTypeReferences(),
	}, s.handleTypeReferences)
}
