package mcp

import (
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// Ports holds the services the MCP tools and resources read from.
type Ports struct {
	// Search provides search capabilities.
	Search driving.FamilySearchService

	// Library reads families and schemas.
	Library driving.FamilyReader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Library is optional; without it get_family and the resources report
	// nothing found.
	return nil
}
