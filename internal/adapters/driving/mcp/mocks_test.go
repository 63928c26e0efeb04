package mcp

import (
	"context"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.FamilySearchService.
type mockSearchService struct {
	results []domain.FamilyMetadata
	err     error

	lastQuery    string
	lastTags     []string
	lastCriteria domain.SearchCriteria
	lastLimit    int
}

func (m *mockSearchService) SearchByNaturalLanguage(
	_ context.Context,
	query string,
	limit int,
) ([]domain.FamilyMetadata, error) {
	m.lastQuery, m.lastLimit = query, limit
	return m.results, m.err
}

func (m *mockSearchService) SearchByTags(
	_ context.Context,
	tags []string,
	limit int,
) ([]domain.FamilyMetadata, error) {
	m.lastTags, m.lastLimit = tags, limit
	return m.results, m.err
}

func (m *mockSearchService) SearchByCriteria(
	_ context.Context,
	criteria domain.SearchCriteria,
	limit int,
) ([]domain.FamilyMetadata, error) {
	m.lastCriteria, m.lastLimit = criteria, limit
	return m.results, m.err
}

// mockFamilyReader is a mock implementation of driving.FamilyReader.
type mockFamilyReader struct {
	families []domain.FamilyMetadata
	family   *domain.FamilyMetadata
	schemas  []domain.CommandSchema
	err      error
}

func (m *mockFamilyReader) Get(_ context.Context, _ string) (*domain.FamilyMetadata, error) {
	return m.family, m.err
}

func (m *mockFamilyReader) List(_ context.Context) ([]domain.FamilyMetadata, error) {
	return m.families, m.err
}

func (m *mockFamilyReader) Schemas(_ context.Context) ([]domain.CommandSchema, error) {
	return m.schemas, m.err
}

func sampleFamily() domain.FamilyMetadata {
	return domain.FamilyMetadata{
		ID:       "door-1",
		Name:     "Single Flush Door",
		Category: "Doors",
		Tags:     domain.NewTagSet("wood", "interior"),
		Parameters: map[string]domain.Parameter{
			"Width":  {Name: "Width", Type: "Length", Unit: "mm", Required: true, DefaultValue: float64(900)},
			"Finish": {Name: "Finish", Type: "Text", DefaultValue: "Oak"},
		},
		CreatedBy: "alice",
	}
}
