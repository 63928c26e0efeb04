package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/famlink/internal/logger"
)

// DefaultVersion is reported to clients unless WithVersion overrides it.
const DefaultVersion = "0.1.0"

const instructions = `famlink serves a catalogue of families. Use search_families for name
lookups, search_families_by_tags or search_families_by_criteria to narrow by
tags, category and parameters, and get_family for one family's parameters.
The famlink://schemas resource lists the command schema of every family.`

// Server exposes the family catalogue to MCP clients.
type Server struct {
	ports     *Ports
	server    *mcp.Server
	transport mcp.Transport
	version   string
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported in the initialize handshake.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// WithTransport replaces the stdio transport, e.g. with an in-memory one.
func WithTransport(t mcp.Transport) Option {
	return func(s *Server) {
		s.transport = t
	}
}

// NewServer builds a server over ports. Tools and resources are
// registered immediately; nothing is served until Run.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:     ports,
		transport: &mcp.StdioTransport{},
		version:   DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "famlink", Version: s.version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client session on the configured transport. It returns
// when the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp server %s starting", s.version)
	return s.server.Run(ctx, s.transport)
}
