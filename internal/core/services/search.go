package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
	"github.com/custodia-labs/famlink/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.FamilySearchService = (*SearchService)(nil)

// SearchService answers family searches from the store. It never writes.
type SearchService struct {
	store      driven.FamilyStore
	maxResults int
}

// NewSearchService creates a new search service. maxResults is the limit
// applied when a query has none; values <= 0 mean domain.DefaultMaxResults.
func NewSearchService(store driven.FamilyStore, maxResults int) *SearchService {
	return &SearchService{
		store:      store,
		maxResults: domain.ResolveMaxResults(maxResults, 0),
	}
}

// SearchByNaturalLanguage matches a case-insensitive substring of the name.
func (s *SearchService) SearchByNaturalLanguage(
	ctx context.Context,
	query string,
	maxResults int,
) ([]domain.FamilyMetadata, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	logger.Debug("natural search: %q (max %d)", needle, maxResults)

	return s.filter(ctx, maxResults, func(f *domain.FamilyMetadata) bool {
		return needle == "" || strings.Contains(strings.ToLower(f.Name), needle)
	})
}

// SearchByTags matches families sharing at least one tag, ignoring case.
func (s *SearchService) SearchByTags(
	ctx context.Context,
	tags []string,
	maxResults int,
) ([]domain.FamilyMetadata, error) {
	if len(tags) == 0 {
		logger.Debug("tag search: empty tag set matches nothing")
		return []domain.FamilyMetadata{}, nil
	}
	logger.Debug("tag search: %v (max %d)", tags, maxResults)

	return s.filter(ctx, maxResults, func(f *domain.FamilyMetadata) bool {
		return f.Tags.IntersectsFold(tags)
	})
}

// SearchByCriteria matches families satisfying every set filter.
func (s *SearchService) SearchByCriteria(
	ctx context.Context,
	criteria domain.SearchCriteria,
	maxResults int,
) ([]domain.FamilyMetadata, error) {
	logger.Debug("criteria search: %+v (max %d)", criteria, maxResults)
	return s.filter(ctx, maxResults, func(f *domain.FamilyMetadata) bool {
		return matchesCriteria(f, criteria)
	})
}

func (s *SearchService) filter(
	ctx context.Context,
	maxResults int,
	match func(*domain.FamilyMetadata) bool,
) ([]domain.FamilyMetadata, error) {
	families, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}

	limit := domain.ResolveMaxResults(maxResults, s.maxResults)
	results := make([]domain.FamilyMetadata, 0, min(limit, len(families)))
	for i := range families {
		if len(results) == limit {
			break
		}
		if match(&families[i]) {
			results = append(results, families[i])
		}
	}

	logger.Debug("search matched %d of %d families", len(results), len(families))
	return results, nil
}

func matchesCriteria(f *domain.FamilyMetadata, c domain.SearchCriteria) bool {
	if kw := strings.TrimSpace(c.NameKeyword); kw != "" &&
		!strings.Contains(strings.ToLower(f.Name), strings.ToLower(kw)) {
		return false
	}
	if cat := strings.TrimSpace(c.Category); cat != "" && !strings.EqualFold(f.Category, cat) {
		return false
	}
	if len(c.Tags) > 0 && !f.Tags.IntersectsFold(c.Tags) {
		return false
	}

	if name := strings.TrimSpace(c.ParameterName); name != "" {
		if _, ok := f.Parameters[name]; !ok {
			return false
		}
	}
	if value := strings.TrimSpace(c.ParameterValue); value != "" && !hasDefaultValue(f, value) {
		return false
	}
	return true
}

// hasDefaultValue reports whether any parameter's default renders as value.
func hasDefaultValue(f *domain.FamilyMetadata, value string) bool {
	for _, p := range f.Parameters {
		if domain.FormatParameterValue(p.DefaultValue) == value {
			return true
		}
	}
	return false
}
