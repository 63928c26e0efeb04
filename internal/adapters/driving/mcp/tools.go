package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// SearchInput is the input schema for the search_families tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find in family names; empty matches every family"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// TagSearchInput is the input schema for the search_families_by_tags tool.
type TagSearchInput struct {
	Tags  []string `json:"tags" jsonschema:"families carrying any of these tags match; case-insensitive"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// CriteriaSearchInput is the input schema for the search_families_by_criteria tool.
type CriteriaSearchInput struct {
	Name           string   `json:"name,omitempty" jsonschema:"text to find in family names"`
	Category       string   `json:"category,omitempty" jsonschema:"exact category, case-insensitive"`
	Tags           []string `json:"tags,omitempty" jsonschema:"at least one of these tags"`
	ParameterName  string   `json:"parameter_name,omitempty" jsonschema:"family must define this parameter"`
	ParameterValue string   `json:"parameter_value,omitempty" jsonschema:"default value to match, as text"`
	Limit          int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// GetFamilyInput is the input schema for the get_family tool.
type GetFamilyInput struct {
	ID string `json:"id" jsonschema:"the family id"`
}

// SearchOutput is the output schema for the search tools.
type SearchOutput struct {
	Families []FamilyOutput `json:"families"`
	Count    int            `json:"count"`
}

// FamilyOutput represents a single family.
type FamilyOutput struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Tags         []string          `json:"tags,omitempty"`
	Parameters   []ParameterOutput `json:"parameters,omitempty"`
	Description  string            `json:"description,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
}

// ParameterOutput represents a family parameter with its default rendered as text.
type ParameterOutput struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Required bool   `json:"required,omitempty"`
	Default  string `json:"default,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_families",
		Description: "Search families by name",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_families_by_tags",
		Description: "Find families carrying any of the given tags",
	}, s.handleSearchByTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_families_by_criteria",
		Description: "Find families matching every given filter",
	}, s.handleSearchByCriteria)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_family",
		Description: "Get one family with all its parameters",
	}, s.handleGetFamily)
}

// handleSearch handles the search_families tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	families, err := s.ports.Search.SearchByNaturalLanguage(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(families), nil
}

// handleSearchByTags handles the search_families_by_tags tool invocation.
func (s *Server) handleSearchByTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TagSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	families, err := s.ports.Search.SearchByTags(ctx, input.Tags, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(families), nil
}

// handleSearchByCriteria handles the search_families_by_criteria tool invocation.
func (s *Server) handleSearchByCriteria(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CriteriaSearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	criteria := domain.SearchCriteria{
		NameKeyword:    input.Name,
		Category:       input.Category,
		Tags:           input.Tags,
		ParameterName:  input.ParameterName,
		ParameterValue: input.ParameterValue,
	}
	families, err := s.ports.Search.SearchByCriteria(ctx, criteria, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, searchOutput(families), nil
}

// handleGetFamily handles the get_family tool invocation.
func (s *Server) handleGetFamily(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetFamilyInput,
) (*mcp.CallToolResult, FamilyOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, FamilyOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if s.ports.Library == nil {
		return nil, FamilyOutput{}, fmt.Errorf("family %q: %w", input.ID, domain.ErrNotFound)
	}

	family, err := s.ports.Library.Get(ctx, input.ID)
	if err != nil {
		return nil, FamilyOutput{}, err
	}
	return nil, familyOutput(family), nil
}

func searchOutput(families []domain.FamilyMetadata) SearchOutput {
	out := SearchOutput{
		Families: make([]FamilyOutput, len(families)),
		Count:    len(families),
	}
	for i := range families {
		out.Families[i] = familyOutput(&families[i])
	}
	return out
}

func familyOutput(f *domain.FamilyMetadata) FamilyOutput {
	out := FamilyOutput{
		ID:          f.ID,
		Name:        f.Name,
		Category:    f.Category,
		Tags:        f.Tags.Slice(),
		Description: f.Description,
		CreatedBy:   f.CreatedBy,
	}
	if !f.LastModified.IsZero() {
		out.LastModified = f.LastModified.UTC().Format(time.RFC3339)
	}
	for _, name := range f.ParameterNames() {
		p := f.Parameters[name]
		out.Parameters = append(out.Parameters, ParameterOutput{
			Name:     name,
			Type:     p.Type,
			Unit:     p.Unit,
			Required: p.Required,
			Default:  domain.FormatParameterValue(p.DefaultValue),
		})
	}
	return out
}
