// Package tui provides the interactive family browser started by
// famlink browse. It is a driving adapter over the search and library
// ports.
package tui

import (
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser needs.
type Ports struct {
	// Search runs name and tag searches.
	Search driving.FamilySearchService

	// Library loads a family for the detail view. Optional: without it
	// the detail view shows the search result as is.
	Library driving.FamilyReader

	// MaxResults is passed with every search; zero defers to the service.
	MaxResults int
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
