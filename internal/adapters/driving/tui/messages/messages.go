// Package messages defines the messages passed between TUI components.
package messages

import (
	"github.com/custodia-labs/famlink/internal/core/domain"
)

// SearchMode selects which search a query runs.
type SearchMode int

const (
	// ModeNatural matches family names by free text.
	ModeNatural SearchMode = iota
	// ModeTags matches families sharing any of the space-separated tags.
	ModeTags
)

// String returns the label shown next to the search input.
func (m SearchMode) String() string {
	switch m {
	case ModeNatural:
		return "name"
	case ModeTags:
		return "tags"
	default:
		return "unknown"
	}
}

// Next cycles to the following mode.
func (m SearchMode) Next() SearchMode {
	if m == ModeTags {
		return ModeNatural
	}
	return m + 1
}

// SearchCompleted carries the families found by a search.
type SearchCompleted struct {
	Query    string
	Mode     SearchMode
	Families []domain.FamilyMetadata
	Err      error
}

// FamilySelected asks the app to open a family.
type FamilySelected struct {
	ID string
}

// FamilyLoaded carries a family fetched for the detail view.
type FamilyLoaded struct {
	Family *domain.FamilyMetadata
	Err    error
}

// ViewChanged signals a view transition.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies a view.
type ViewType int

const (
	// ViewSearch is the search input and result list.
	ViewSearch ViewType = iota
	// ViewFamily shows one family.
	ViewFamily
	// ViewHelp lists the key bindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewFamily:
		return "family"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
