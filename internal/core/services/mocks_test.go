package services

import (
	"context"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
)

// failingStore implements driven.FamilyStore and fails every call with err.
type failingStore struct {
	err error
}

var _ driven.FamilyStore = (*failingStore)(nil)

func (m *failingStore) List(_ context.Context) ([]domain.FamilyMetadata, error) {
	return nil, m.err
}

func (m *failingStore) Get(_ context.Context, _ string) (*domain.FamilyMetadata, error) {
	return nil, m.err
}

func (m *failingStore) Upsert(_ context.Context, _ domain.FamilyMetadata) error {
	return m.err
}

func (m *failingStore) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *failingStore) Mutate(_ context.Context, _ string, _ driven.MutateFunc) error {
	return m.err
}

func (m *failingStore) Search(_ context.Context, _ string, _ int) ([]domain.FamilyMetadata, error) {
	return nil, m.err
}

func (m *failingStore) Len(_ context.Context) int {
	return 0
}
