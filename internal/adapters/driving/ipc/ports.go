package ipc

import (
	"github.com/aretw0/introspection"

	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// Ports aggregates the driving ports the handlers call.
type Ports struct {
	// Search answers search queries.
	Search driving.FamilySearchService

	// Library answers reads, mutations, imports and schema listings.
	Library driving.FamilyLibraryService

	// Store is reported by the status query when set.
	Store introspection.Introspectable
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
