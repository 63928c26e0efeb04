package driving

import (
	"context"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// ImportReport summarises a bulk import.
type ImportReport struct {
	Imported int
	Rejected int

	// Errors holds one message per rejected family.
	Errors []string
}

// FamilyReader reads the library. Both the in-process service and the
// remote worker adapter implement it.
type FamilyReader interface {
	// Get retrieves a family by id.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.FamilyMetadata, error)

	// List returns every family.
	List(ctx context.Context) ([]domain.FamilyMetadata, error)

	// Schemas returns one command schema per family, ordered by family name.
	Schemas(ctx context.Context) ([]domain.CommandSchema, error)
}

// FamilyLibraryService manages the family library.
type FamilyLibraryService interface {
	FamilyReader

	// Save stores a family on behalf of principal. Validation and
	// authorization failures are reported in the result; the error is
	// reserved for infrastructure failures.
	Save(ctx context.Context, principal domain.Principal, family domain.FamilyMetadata) (domain.MutationResult, error)

	// Delete removes a family on behalf of principal. Deleting an absent
	// family is applied.
	Delete(ctx context.Context, principal domain.Principal, id string) (domain.MutationResult, error)

	// Import stores many families concurrently without access checks.
	Import(ctx context.Context, families []domain.FamilyMetadata) (ImportReport, error)
}
