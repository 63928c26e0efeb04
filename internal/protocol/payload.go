package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Query types.
const (
	TypePing           = "ping"
	TypeStatus         = "status"
	TypeFamilyGet      = "family.get"
	TypeFamilyList     = "family.list"
	TypeFamilyUpsert   = "family.upsert"
	TypeFamilyDelete   = "family.delete"
	TypeFamilyImport   = "family.import"
	TypeSearchNatural  = "search.natural"
	TypeSearchTags     = "search.tags"
	TypeSearchCriteria = "search.criteria"
	TypeSchemaList     = "schema.list"
)

// Payload is the typed body of a query. Each query type has exactly one
// payload type; RawPayload carries the body of types this build does not
// know.
type Payload interface {
	QueryType() string
}

// PingPayload checks liveness.
type PingPayload struct{}

// StatusPayload asks for worker statistics.
type StatusPayload struct{}

// GetFamilyPayload fetches one family.
type GetFamilyPayload struct {
	ID string `json:"id"`
}

// ListFamiliesPayload lists every family.
type ListFamiliesPayload struct{}

// UpsertFamilyPayload saves one family.
type UpsertFamilyPayload struct {
	Family FamilyRecord `json:"family"`
}

// DeleteFamilyPayload deletes one family.
type DeleteFamilyPayload struct {
	ID string `json:"id"`
}

// ImportFamiliesPayload bulk-loads families.
type ImportFamiliesPayload struct {
	Families []FamilyRecord `json:"families"`
}

// NaturalSearchPayload searches names by free text.
type NaturalSearchPayload struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// TagSearchPayload searches by tag intersection.
type TagSearchPayload struct {
	Tags       []string `json:"tags"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// CriteriaSearchPayload searches by combined filters.
type CriteriaSearchPayload struct {
	Criteria   CriteriaRecord `json:"criteria"`
	MaxResults int            `json:"maxResults,omitempty"`
}

// ListSchemasPayload lists the command schemas.
type ListSchemasPayload struct{}

// RawPayload is the undecoded body of an unknown query type.
type RawPayload struct {
	Type string
	Data json.RawMessage
}

func (PingPayload) QueryType() string           { return TypePing }
func (StatusPayload) QueryType() string         { return TypeStatus }
func (GetFamilyPayload) QueryType() string      { return TypeFamilyGet }
func (ListFamiliesPayload) QueryType() string   { return TypeFamilyList }
func (UpsertFamilyPayload) QueryType() string   { return TypeFamilyUpsert }
func (DeleteFamilyPayload) QueryType() string   { return TypeFamilyDelete }
func (ImportFamiliesPayload) QueryType() string { return TypeFamilyImport }
func (NaturalSearchPayload) QueryType() string  { return TypeSearchNatural }
func (TagSearchPayload) QueryType() string      { return TypeSearchTags }
func (CriteriaSearchPayload) QueryType() string { return TypeSearchCriteria }
func (ListSchemasPayload) QueryType() string    { return TypeSchemaList }
func (p RawPayload) QueryType() string          { return p.Type }

// DecodePayload decodes raw into the payload type registered for
// queryType. Unknown types yield a RawPayload. A missing or null body
// decodes to the zero payload.
func DecodePayload(queryType string, raw json.RawMessage) (Payload, error) {
	switch queryType {
	case TypePing:
		return decodeInto[PingPayload](raw)
	case TypeStatus:
		return decodeInto[StatusPayload](raw)
	case TypeFamilyGet:
		return decodeInto[GetFamilyPayload](raw)
	case TypeFamilyList:
		return decodeInto[ListFamiliesPayload](raw)
	case TypeFamilyUpsert:
		return decodeInto[UpsertFamilyPayload](raw)
	case TypeFamilyDelete:
		return decodeInto[DeleteFamilyPayload](raw)
	case TypeFamilyImport:
		return decodeInto[ImportFamiliesPayload](raw)
	case TypeSearchNatural:
		return decodeInto[NaturalSearchPayload](raw)
	case TypeSearchTags:
		return decodeInto[TagSearchPayload](raw)
	case TypeSearchCriteria:
		return decodeInto[CriteriaSearchPayload](raw)
	case TypeSchemaList:
		return decodeInto[ListSchemasPayload](raw)
	default:
		return RawPayload{Type: queryType, Data: raw}, nil
	}
}

func decodeInto[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return p, nil
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrInvalidPayload, p.QueryType(), err)
	}
	return p, nil
}

// StatusResult is the data of a status response.
type StatusResult struct {
	PID      int `json:"pid"`
	Families int `json:"families"`

	// Store is the repository's introspection state.
	Store any `json:"store,omitempty"`
}

// FamilyResult is the data of a family.get response.
type FamilyResult struct {
	Family FamilyRecord `json:"family"`
}

// FamiliesResult is the data of list and search responses.
type FamiliesResult struct {
	Families []FamilyRecord `json:"families"`
	Count    int            `json:"count"`
}

// ImportResult is the data of a family.import response.
type ImportResult struct {
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// SchemasResult is the data of a schema.list response.
type SchemasResult struct {
	Schemas []SchemaRecord `json:"schemas"`
}
