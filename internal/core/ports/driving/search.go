package driving

import (
	"context"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// FamilySearchService answers read-only family searches.
// maxResults <= 0 uses the configured default.
type FamilySearchService interface {
	// SearchByNaturalLanguage matches a case-insensitive substring of the name.
	// An empty query matches every family.
	SearchByNaturalLanguage(ctx context.Context, query string, maxResults int) ([]domain.FamilyMetadata, error)

	// SearchByTags matches families sharing at least one tag.
	// An empty tag list matches nothing.
	SearchByTags(ctx context.Context, tags []string, maxResults int) ([]domain.FamilyMetadata, error)

	// SearchByCriteria matches families satisfying every set filter.
	SearchByCriteria(ctx context.Context, criteria domain.SearchCriteria, maxResults int) ([]domain.FamilyMetadata, error)
}
