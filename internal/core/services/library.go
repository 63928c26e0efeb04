package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
	"github.com/custodia-labs/famlink/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.FamilyLibraryService = (*LibraryService)(nil)

// LibraryService manages the family library on top of a FamilyStore.
type LibraryService struct {
	store    driven.FamilyStore
	poolSize int
	now      func() time.Time
}

// LibraryOption configures a LibraryService.
type LibraryOption func(*LibraryService)

// WithImportPoolSize sets the number of concurrent import workers.
func WithImportPoolSize(n int) LibraryOption {
	return func(s *LibraryService) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithClock overrides the clock used to stamp LastModified.
func WithClock(now func() time.Time) LibraryOption {
	return func(s *LibraryService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLibraryService creates a new library service.
func NewLibraryService(store driven.FamilyStore, opts ...LibraryOption) *LibraryService {
	s := &LibraryService{
		store:    store,
		poolSize: domain.DefaultSettings().Import.PoolSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a family by id.
func (s *LibraryService) Get(ctx context.Context, id string) (*domain.FamilyMetadata, error) {
	return s.store.Get(ctx, id)
}

// List returns every family ordered by id.
func (s *LibraryService) List(ctx context.Context) ([]domain.FamilyMetadata, error) {
	return s.store.List(ctx)
}

// Save validates, authorizes, stamps and stores a family.
// A family without an author is attributed to the existing entity's
// author, or to the principal when it is new. The owner check and the
// write happen under the store's lock for that id.
func (s *LibraryService) Save(
	ctx context.Context,
	principal domain.Principal,
	family domain.FamilyMetadata,
) (domain.MutationResult, error) {
	if err := family.Validate(); err != nil {
		return classify(err, "")
	}

	err := s.store.Mutate(ctx, family.ID, func(existing *domain.FamilyMetadata) (*domain.FamilyMetadata, error) {
		next := family
		if next.CreatedBy == "" {
			next.CreatedBy = principal.UserID
			if existing != nil {
				next.CreatedBy = existing.CreatedBy
			}
		}
		if err := domain.AuthorizeSave(principal, existing, &next); err != nil {
			logger.Warn("save %s denied for %q: %v", family.ID, principal.UserID, err)
			return nil, err
		}
		next.LastModified = s.now().UTC()
		return &next, nil
	})
	if err != nil {
		return classify(err, "save family %s", family.ID)
	}

	logger.Debug("saved family %s for %q", family.ID, principal.UserID)
	return domain.MutationResult{Status: domain.MutationApplied}, nil
}

// Delete authorizes and removes a family. Absent families are applied.
func (s *LibraryService) Delete(
	ctx context.Context,
	principal domain.Principal,
	id string,
) (domain.MutationResult, error) {
	err := s.store.Mutate(ctx, id, func(existing *domain.FamilyMetadata) (*domain.FamilyMetadata, error) {
		if err := domain.AuthorizeDelete(principal, existing); err != nil {
			logger.Warn("delete %s denied for %q: %v", id, principal.UserID, err)
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return classify(err, "delete family %s", id)
	}

	logger.Debug("deleted family %s for %q", id, principal.UserID)
	return domain.MutationResult{Status: domain.MutationApplied}, nil
}

// Import upserts families on a worker pool. Invalid families are counted
// and reported; the rest are stored. Families without a LastModified are
// stamped with the import time.
func (s *LibraryService) Import(ctx context.Context, families []domain.FamilyMetadata) (driving.ImportReport, error) {
	var report driving.ImportReport
	if len(families) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(min(s.poolSize, len(families)))
	if err != nil {
		return report, fmt.Errorf("create import pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	stamp := s.now().UTC()
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Rejected++
			report.Errors = append(report.Errors, err.Error())
			return
		}
		report.Imported++
	}

	logger.Section("Import")
	for i := range families {
		if ctx.Err() != nil {
			break
		}
		family := families[i]
		if family.LastModified.IsZero() {
			family.LastModified = stamp
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.store.Upsert(ctx, family); err != nil {
				record(fmt.Errorf("family %q: %w", family.ID, err))
				return
			}
			record(nil)
		})
		if submitErr != nil {
			wg.Done()
			record(fmt.Errorf("family %q: %w", family.ID, submitErr))
		}
	}
	wg.Wait()

	sort.Strings(report.Errors)
	logger.Debug("imported %d families, rejected %d", report.Imported, report.Rejected)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("import interrupted: %w", err)
	}
	return report, nil
}

// Schemas returns one command schema per family ordered by family name.
func (s *LibraryService) Schemas(ctx context.Context) ([]domain.CommandSchema, error) {
	families, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}

	schemas := make([]domain.CommandSchema, len(families))
	for i := range families {
		schemas[i] = domain.SchemaFromFamily(&families[i])
	}
	sort.SliceStable(schemas, func(i, j int) bool {
		return schemas[i].FamilyName < schemas[j].FamilyName
	})
	return schemas, nil
}

// classify turns validation and authorization failures into a result.
// Anything else is an error, prefixed with the formatted op when given.
func classify(err error, op string, args ...any) (domain.MutationResult, error) {
	if result, ok := domain.MutationResultFrom(err); ok {
		return result, nil
	}
	if op == "" {
		return domain.MutationResult{}, err
	}
	return domain.MutationResult{}, fmt.Errorf(op+": %w", append(args, err)...)
}
