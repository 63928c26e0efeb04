package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/famlink/internal/protocol"
)

const uriScheme = "famlink://"

// registerResources adds the catalogue listing, single families by id and
// the command schemas.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "families",
		Name:        "families",
		Description: "Every family in the library",
		MIMEType:    "application/json",
	}, s.handleFamiliesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "families/{familyId}",
		Name:        "family",
		Description: "One family with all its parameters",
		MIMEType:    "application/json",
	}, s.handleFamilyResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "schemas",
		Name:        "schemas",
		Description: "Command schemas of every family",
		MIMEType:    "application/json",
	}, s.handleSchemasResource)
}

// handleFamiliesResource returns every family.
func (s *Server) handleFamiliesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Library == nil {
		return jsonResource(req.Params.URI, []FamilyOutput{})
	}

	families, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing families: %w", err)
	}
	return jsonResource(req.Params.URI, searchOutput(families).Families)
}

// handleFamilyResource returns one family.
func (s *Server) handleFamilyResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Library == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractFamilyID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	family, err := s.ports.Library.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, familyOutput(family))
}

// handleSchemasResource returns the command schemas.
func (s *Server) handleSchemasResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Library == nil {
		return jsonResource(req.Params.URI, []protocol.SchemaRecord{})
	}

	schemas, err := s.ports.Library.Schemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	return jsonResource(req.Params.URI, protocol.SchemaRecordsFromSchemas(schemas))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFamilyID returns the id in famlink://families/{familyId}, or ""
// for any other shape.
func extractFamilyID(uri string) string {
	id, ok := strings.CutPrefix(uri, uriScheme+"families/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
