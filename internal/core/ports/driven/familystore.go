package driven

import (
	"context"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

// MutateFunc computes the next value of one family; see FamilyStore.Mutate.
type MutateFunc func(current *domain.FamilyMetadata) (*domain.FamilyMetadata, error)

// FamilyStore persists family metadata.
// Implementations must be safe for concurrent use and must not share
// tag or parameter storage with callers.
type FamilyStore interface {
	// List returns every stored family, ordered by id.
	List(ctx context.Context) ([]domain.FamilyMetadata, error)

	// Get retrieves a family by id.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.FamilyMetadata, error)

	// Upsert inserts the family or fully replaces the one with the same id.
	// Returns a *domain.ValidationError and leaves the store unchanged if
	// the family breaks its invariants.
	Upsert(ctx context.Context, family domain.FamilyMetadata) error

	// Delete removes a family. Deleting an absent id succeeds.
	Delete(ctx context.Context, id string) error

	// Mutate reads and replaces the family under id as one step. fn gets
	// a copy of the current family, or nil when absent, and returns the
	// family to store, or nil to delete it. An error from fn, or a
	// returned family that fails validation, leaves the store unchanged.
	// fn must not call back into the store.
	Mutate(ctx context.Context, id string, fn MutateFunc) error

	// Search returns families whose name contains keyword, ordered by id.
	// An empty keyword matches every family. maxResults <= 0 means
	// domain.DefaultMaxResults.
	Search(ctx context.Context, keyword string, maxResults int) ([]domain.FamilyMetadata, error)

	// Len returns the number of stored families.
	Len(ctx context.Context) int
}
