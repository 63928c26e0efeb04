// Package mcp provides an MCP (Model Context Protocol) server adapter for famlink.
// It lets AI assistants search and read the family library when the worker
// runs with --mode mcp.
package mcp

import "errors"

var (
	// ErrInvalidPorts is returned when no ports are provided.
	ErrInvalidPorts = errors.New("mcp: ports are required")

	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")
)
