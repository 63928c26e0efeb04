// Package worker drives a famlink worker process from the host side.
// Launch starts the process through a process.Supervisor and returns a
// Remote that implements the driving ports by sending queries over the
// worker's stdio.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/famlink/internal/adapters/driven/process"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// Ensure Remote implements the driving ports.
var (
	_ driving.FamilySearchService  = (*Remote)(nil)
	_ driving.FamilyLibraryService = (*Remote)(nil)
)

// DefaultReadyTimeout bounds the ping that confirms a fresh worker.
const DefaultReadyTimeout = 10 * time.Second

// LaunchOptions describes how to start the worker.
type LaunchOptions struct {
	// Executable is the worker binary. Empty means the running binary.
	Executable string

	// Args are passed to the worker, e.g. worker --mode ipc.
	Args []string

	// Sender identifies the host user on every query.
	Sender string

	// ReadyTimeout bounds the initial ping. Zero means DefaultReadyTimeout.
	ReadyTimeout time.Duration
}

// Remote is a running worker reached over its stdio.
type Remote struct {
	supervisor *process.Supervisor
	handle     *process.Handle
	client     *protocol.Client
	sender     string
}

// Launch starts the worker and waits until it answers ping. On failure the
// process is stopped before returning.
func Launch(ctx context.Context, supervisor *process.Supervisor, opts LaunchOptions) (*Remote, error) {
	exe := opts.Executable
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating worker executable: %w", err)
		}
		exe = self
	}

	handle, err := supervisor.Start(ctx, exe, opts.Args...)
	if err != nil {
		return nil, err
	}

	r := &Remote{
		supervisor: supervisor,
		handle:     handle,
		client:     protocol.NewClient(protocol.NewChannel(handle.Stdout(), handle.Stdin())),
		sender:     opts.Sender,
	}

	timeout := opts.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := r.client.Ping(pingCtx); err != nil {
		_ = r.Close(context.Background())
		return nil, fmt.Errorf("worker %d not ready: %w", handle.PID(), err)
	}
	logger.Debug("worker %d ready in %s", handle.PID(), time.Since(start).Round(time.Microsecond))

	return r, nil
}

// Handle returns the process handle.
func (r *Remote) Handle() *process.Handle {
	return r.handle
}

// Ping round-trips a ping query.
func (r *Remote) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Status asks the worker for its statistics.
func (r *Remote) Status(ctx context.Context) (protocol.StatusResult, error) {
	var out protocol.StatusResult
	if _, err := r.client.Call(ctx, protocol.StatusPayload{}, r.sender, &out); err != nil {
		return protocol.StatusResult{}, fmt.Errorf("status: %w", err)
	}
	return out, nil
}

// SearchByNaturalLanguage implements driving.FamilySearchService.
func (r *Remote) SearchByNaturalLanguage(ctx context.Context, query string, maxResults int) ([]domain.FamilyMetadata, error) {
	return r.families(ctx, protocol.NaturalSearchPayload{Query: query, MaxResults: maxResults})
}

// SearchByTags implements driving.FamilySearchService.
func (r *Remote) SearchByTags(ctx context.Context, tags []string, maxResults int) ([]domain.FamilyMetadata, error) {
	return r.families(ctx, protocol.TagSearchPayload{Tags: tags, MaxResults: maxResults})
}

// SearchByCriteria implements driving.FamilySearchService.
func (r *Remote) SearchByCriteria(
	ctx context.Context,
	criteria domain.SearchCriteria,
	maxResults int,
) ([]domain.FamilyMetadata, error) {
	return r.families(ctx, protocol.CriteriaSearchPayload{
		Criteria:   protocol.CriteriaRecordFrom(criteria),
		MaxResults: maxResults,
	})
}

// Get implements driving.FamilyReader.
func (r *Remote) Get(ctx context.Context, id string) (*domain.FamilyMetadata, error) {
	var out protocol.FamilyResult
	if _, err := r.client.Call(ctx, protocol.GetFamilyPayload{ID: id}, r.sender, &out); err != nil {
		return nil, fmt.Errorf("get family %q: %w", id, err)
	}
	family, err := out.Family.ToFamily()
	if err != nil {
		return nil, fmt.Errorf("%w: family %q: %v", protocol.ErrUnexpectedReply, id, err)
	}
	return &family, nil
}

// List implements driving.FamilyReader.
func (r *Remote) List(ctx context.Context) ([]domain.FamilyMetadata, error) {
	return r.families(ctx, protocol.ListFamiliesPayload{})
}

// Schemas implements driving.FamilyReader.
func (r *Remote) Schemas(ctx context.Context) ([]domain.CommandSchema, error) {
	var out protocol.SchemasResult
	if _, err := r.client.Call(ctx, protocol.ListSchemasPayload{}, r.sender, &out); err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	schemas := make([]domain.CommandSchema, len(out.Schemas))
	for i, s := range out.Schemas {
		schemas[i] = s.ToSchema()
	}
	return schemas, nil
}

// Save implements driving.FamilyLibraryService. The principal's user id is
// sent as the query sender; the worker resolves its role.
func (r *Remote) Save(
	ctx context.Context,
	principal domain.Principal,
	family domain.FamilyMetadata,
) (domain.MutationResult, error) {
	return r.mutate(ctx, protocol.UpsertFamilyPayload{Family: protocol.RecordFromFamily(&family)}, principal.UserID)
}

// Delete implements driving.FamilyLibraryService.
func (r *Remote) Delete(ctx context.Context, principal domain.Principal, id string) (domain.MutationResult, error) {
	return r.mutate(ctx, protocol.DeleteFamilyPayload{ID: id}, principal.UserID)
}

// Import implements driving.FamilyLibraryService.
func (r *Remote) Import(ctx context.Context, families []domain.FamilyMetadata) (driving.ImportReport, error) {
	var out protocol.ImportResult
	payload := protocol.ImportFamiliesPayload{Families: protocol.RecordsFromFamilies(families)}
	if _, err := r.client.Call(ctx, payload, r.sender, &out); err != nil {
		return driving.ImportReport{}, fmt.Errorf("import families: %w", err)
	}
	return driving.ImportReport{Imported: out.Imported, Rejected: out.Rejected, Errors: out.Errors}, nil
}

// Close closes the channel, which ends the worker's input, and stops the
// process.
func (r *Remote) Close(ctx context.Context) error {
	closeErr := r.client.Close()
	stopErr := r.supervisor.Stop(ctx, r.handle)
	if stopErr != nil {
		return fmt.Errorf("stopping worker: %w", stopErr)
	}
	if closeErr != nil && !errors.Is(closeErr, protocol.ErrChannelClosed) {
		logger.Debug("closing worker channel: %v", closeErr)
	}
	return nil
}

func (r *Remote) families(ctx context.Context, p protocol.Payload) ([]domain.FamilyMetadata, error) {
	var out protocol.FamiliesResult
	if _, err := r.client.Call(ctx, p, r.sender, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", p.QueryType(), err)
	}
	families, err := protocol.FamiliesFromRecords(out.Families)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", protocol.ErrUnexpectedReply, p.QueryType(), err)
	}
	return families, nil
}

// mutate sends a mutation. Validation and authorization failures come back
// as failed responses carrying the result record.
func (r *Remote) mutate(ctx context.Context, p protocol.Payload, sender string) (domain.MutationResult, error) {
	resp, err := r.client.Call(ctx, p, sender, nil)
	if resp == nil {
		return domain.MutationResult{}, fmt.Errorf("%s: %w", p.QueryType(), err)
	}

	var record protocol.MutationRecord
	if decodeErr := resp.DecodeData(&record); decodeErr != nil || record.Status == "" {
		if err != nil {
			return domain.MutationResult{}, fmt.Errorf("%s: %w", p.QueryType(), err)
		}
		return domain.MutationResult{}, fmt.Errorf("%w: %s carried no result", protocol.ErrUnexpectedReply, p.QueryType())
	}
	return record.ToResult(), nil
}
