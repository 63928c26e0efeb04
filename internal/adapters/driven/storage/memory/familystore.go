package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
)

// Ensure FamilyStore implements the interfaces.
var (
	_ driven.FamilyStore           = (*FamilyStore)(nil)
	_ introspection.Introspectable = (*FamilyStore)(nil)
	_ introspection.Component      = (*FamilyStore)(nil)
)

// DefaultShards is the number of lock stripes when none is configured.
const DefaultShards = 32

// FamilyStore is a lock-striped in-memory implementation of driven.FamilyStore.
// Each id hashes to one shard; writers to different shards never contend.
// Reads that span shards lock them one at a time, so List and Search are
// not a point-in-time snapshot of the whole store.
type FamilyStore struct {
	shards []*familyShard
}

type familyShard struct {
	mu       sync.RWMutex
	families map[string]domain.FamilyMetadata
}

// FamilyStoreOption configures a FamilyStore.
type FamilyStoreOption func(*FamilyStore)

// WithShards sets the number of lock stripes. Values below 1 are ignored.
func WithShards(n int) FamilyStoreOption {
	return func(s *FamilyStore) {
		if n > 0 {
			s.shards = newShards(n)
		}
	}
}

// NewFamilyStore creates a new in-memory family store.
func NewFamilyStore(opts ...FamilyStoreOption) *FamilyStore {
	s := &FamilyStore{
		shards: newShards(DefaultShards),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newShards(n int) []*familyShard {
	shards := make([]*familyShard, n)
	for i := range shards {
		shards[i] = &familyShard{families: make(map[string]domain.FamilyMetadata)}
	}
	return shards
}

func (s *FamilyStore) shardFor(id string) *familyShard {
	return s.shards[xxhash.Sum64String(id)%uint64(len(s.shards))]
}

// List returns every stored family, ordered by id.
func (s *FamilyStore) List(_ context.Context) ([]domain.FamilyMetadata, error) {
	return s.collect(func(*domain.FamilyMetadata) bool { return true }, 0), nil
}

// Get retrieves a family by id.
func (s *FamilyStore) Get(_ context.Context, id string) (*domain.FamilyMetadata, error) {
	shard := s.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	f, ok := shard.families[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := f.Clone()
	return &c, nil
}

// Upsert inserts or fully replaces a family.
func (s *FamilyStore) Upsert(_ context.Context, family domain.FamilyMetadata) error {
	if err := family.Validate(); err != nil {
		return err
	}

	stored := family.Clone()

	shard := s.shardFor(stored.ID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.families[stored.ID] = stored
	return nil
}

// Delete removes a family. Absent ids are ignored.
func (s *FamilyStore) Delete(_ context.Context, id string) error {
	shard := s.shardFor(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.families, id)
	return nil
}

// Mutate runs fn and applies its result while holding the id's shard lock.
func (s *FamilyStore) Mutate(_ context.Context, id string, fn driven.MutateFunc) error {
	shard := s.shardFor(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	var current *domain.FamilyMetadata
	if f, ok := shard.families[id]; ok {
		c := f.Clone()
		current = &c
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		delete(shard.families, id)
		return nil
	}
	if next.ID != id {
		return domain.NewValidationError("id", fmt.Sprintf("must stay %q", id))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	shard.families[id] = next.Clone()
	return nil
}

// Search returns families whose name contains keyword.
func (s *FamilyStore) Search(_ context.Context, keyword string, maxResults int) ([]domain.FamilyMetadata, error) {
	limit := domain.ResolveMaxResults(maxResults, 0)
	if keyword == "" {
		return s.collect(func(*domain.FamilyMetadata) bool { return true }, limit), nil
	}
	return s.collect(func(f *domain.FamilyMetadata) bool {
		return strings.Contains(f.Name, keyword)
	}, limit), nil
}

// Len returns the number of stored families.
func (s *FamilyStore) Len(_ context.Context) int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		n += len(shard.families)
		shard.mu.RUnlock()
	}
	return n
}

// collect gathers clones of matching families ordered by id, truncated to
// limit when limit > 0.
func (s *FamilyStore) collect(match func(*domain.FamilyMetadata) bool, limit int) []domain.FamilyMetadata {
	var out []domain.FamilyMetadata
	for _, shard := range s.shards {
		shard.mu.RLock()
		for id := range shard.families {
			f := shard.families[id]
			if match(&f) {
				out = append(out, f.Clone())
			}
		}
		shard.mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []domain.FamilyMetadata{}
	}
	return out
}

// FamilyStoreState exposes internal state for observability.
type FamilyStoreState struct {
	Shards       int   `json:"shards"`
	Families     int   `json:"families"`
	LargestShard int   `json:"largest_shard"`
	ShardSizes   []int `json:"shard_sizes"`
}

// State implements introspection.Introspectable.
func (s *FamilyStore) State() any {
	state := FamilyStoreState{
		Shards:     len(s.shards),
		ShardSizes: make([]int, len(s.shards)),
	}
	for i, shard := range s.shards {
		shard.mu.RLock()
		n := len(shard.families)
		shard.mu.RUnlock()

		state.ShardSizes[i] = n
		state.Families += n
		if n > state.LargestShard {
			state.LargestShard = n
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *FamilyStore) ComponentType() string {
	return "family-store"
}
