package ipc

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// handlers implements the standard route table over the driving ports.
type handlers struct {
	ports *Ports
}

func registerHandlers(d *Dispatcher, h *handlers) {
	d.Handle(protocol.TypePing, h.ping)
	d.Handle(protocol.TypeStatus, h.status)
	d.Handle(protocol.TypeFamilyGet, h.getFamily)
	d.Handle(protocol.TypeFamilyList, h.listFamilies)
	d.Handle(protocol.TypeFamilyUpsert, h.upsertFamily)
	d.Handle(protocol.TypeFamilyDelete, h.deleteFamily)
	d.Handle(protocol.TypeFamilyImport, h.importFamilies)
	d.Handle(protocol.TypeSearchNatural, h.searchNatural)
	d.Handle(protocol.TypeSearchTags, h.searchTags)
	d.Handle(protocol.TypeSearchCriteria, h.searchCriteria)
	d.Handle(protocol.TypeSchemaList, h.listSchemas)
}

// payloadAs asserts the decoded payload type for a route.
func payloadAs[T protocol.Payload](req *Request) (T, error) {
	p, ok := req.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s got %T", protocol.ErrInvalidPayload, req.Query.Method(), req.Payload)
	}
	return p, nil
}

func (h *handlers) ping(_ context.Context, _ *Request) (Result, error) {
	return Result{Message: protocol.PongMessage}, nil
}

func (h *handlers) status(ctx context.Context, _ *Request) (Result, error) {
	families, err := h.ports.Library.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing families: %w", err)
	}

	status := protocol.StatusResult{
		PID:      os.Getpid(),
		Families: len(families),
	}
	if h.ports.Store != nil {
		status.Store = h.ports.Store.State()
	}
	return Result{Data: status}, nil
}

func (h *handlers) getFamily(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.GetFamilyPayload](req)
	if err != nil {
		return Result{}, err
	}
	if p.ID == "" {
		return Result{}, fmt.Errorf("%w: id is required", protocol.ErrInvalidPayload)
	}

	family, err := h.ports.Library.Get(ctx, p.ID)
	if err != nil {
		return Result{}, fmt.Errorf("family %q: %w", p.ID, err)
	}
	return Result{Data: protocol.FamilyResult{Family: protocol.RecordFromFamily(family)}}, nil
}

func (h *handlers) listFamilies(ctx context.Context, _ *Request) (Result, error) {
	families, err := h.ports.Library.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing families: %w", err)
	}
	return familiesResult(families), nil
}

func (h *handlers) upsertFamily(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.UpsertFamilyPayload](req)
	if err != nil {
		return Result{}, err
	}

	family, err := p.Family.ToFamily()
	if err != nil {
		if result, ok := domain.MutationResultFrom(err); ok {
			return mutationResult(result), nil
		}
		return Result{}, err
	}

	result, err := h.ports.Library.Save(ctx, req.Principal, family)
	if err != nil {
		return Result{}, fmt.Errorf("saving family %q: %w", family.ID, err)
	}
	return mutationResult(result), nil
}

func (h *handlers) deleteFamily(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.DeleteFamilyPayload](req)
	if err != nil {
		return Result{}, err
	}
	if p.ID == "" {
		return Result{}, fmt.Errorf("%w: id is required", protocol.ErrInvalidPayload)
	}

	result, err := h.ports.Library.Delete(ctx, req.Principal, p.ID)
	if err != nil {
		return Result{}, fmt.Errorf("deleting family %q: %w", p.ID, err)
	}
	return mutationResult(result), nil
}

func (h *handlers) importFamilies(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.ImportFamiliesPayload](req)
	if err != nil {
		return Result{}, err
	}

	// Records that do not map onto a valid family are rejected here and
	// reported alongside the service's own rejections.
	valid := make([]domain.FamilyMetadata, 0, len(p.Families))
	var rejected []string
	for i, record := range p.Families {
		family, convErr := record.ToFamily()
		if convErr != nil {
			rejected = append(rejected, fmt.Sprintf("record %d (%q): %v", i, record.ID, convErr))
			continue
		}
		valid = append(valid, family)
	}

	report, err := h.ports.Library.Import(ctx, valid)
	if err != nil {
		return Result{}, err
	}

	errs := append(rejected, report.Errors...)
	sort.Strings(errs)
	return Result{
		Message: fmt.Sprintf("imported %d families", report.Imported),
		Data: protocol.ImportResult{
			Imported: report.Imported,
			Rejected: report.Rejected + len(rejected),
			Errors:   errs,
		},
	}, nil
}

func (h *handlers) searchNatural(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.NaturalSearchPayload](req)
	if err != nil {
		return Result{}, err
	}

	families, err := h.ports.Search.SearchByNaturalLanguage(ctx, p.Query, p.MaxResults)
	if err != nil {
		return Result{}, fmt.Errorf("natural search: %w", err)
	}
	return familiesResult(families), nil
}

func (h *handlers) searchTags(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.TagSearchPayload](req)
	if err != nil {
		return Result{}, err
	}

	families, err := h.ports.Search.SearchByTags(ctx, p.Tags, p.MaxResults)
	if err != nil {
		return Result{}, fmt.Errorf("tag search: %w", err)
	}
	return familiesResult(families), nil
}

func (h *handlers) searchCriteria(ctx context.Context, req *Request) (Result, error) {
	p, err := payloadAs[protocol.CriteriaSearchPayload](req)
	if err != nil {
		return Result{}, err
	}

	families, err := h.ports.Search.SearchByCriteria(ctx, p.Criteria.ToCriteria(), p.MaxResults)
	if err != nil {
		return Result{}, fmt.Errorf("criteria search: %w", err)
	}
	return familiesResult(families), nil
}

func (h *handlers) listSchemas(ctx context.Context, _ *Request) (Result, error) {
	schemas, err := h.ports.Library.Schemas(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing schemas: %w", err)
	}
	return Result{Data: protocol.SchemasResult{Schemas: protocol.SchemaRecordsFromSchemas(schemas)}}, nil
}

func familiesResult(families []domain.FamilyMetadata) Result {
	return Result{
		Message: fmt.Sprintf("%d families", len(families)),
		Data: protocol.FamiliesResult{
			Families: protocol.RecordsFromFamilies(families),
			Count:    len(families),
		},
	}
}

// mutationResult answers a mutation. Invalid and denied results become
// failed responses that still carry the result record.
func mutationResult(r domain.MutationResult) Result {
	out := Result{Message: string(r.Status), Data: protocol.MutationRecordFrom(r)}
	switch r.Status {
	case domain.MutationInvalid:
		out.Message = r.Reason
		out.ErrorCode = protocol.CodeValidation
	case domain.MutationDenied:
		out.Message = r.Reason
		out.ErrorCode = protocol.CodeUnauthorized
	}
	return out
}
