package memory

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/famlink/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// MemoryPath is what Path reports for a store with no backing file.
const MemoryPath = ":memory:"

// ConfigStore keeps settings in a map. The file store layers persistence
// on top of it, the CLI falls back to it when config.toml cannot be read,
// and settings validation resolves single keys through it.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns a store holding a copy of seed.
func NewConfigStore(seed map[string]any) *ConfigStore {
	s := &ConfigStore{}
	s.Replace(seed)
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) value(key string) any {
	val, _ := s.Get(key)
	return val
}

func (s *ConfigStore) GetString(key string) string {
	str, _ := s.value(key).(string)
	return str
}

// GetInt accepts the integer shapes TOML and JSON decoding produce.
func (s *ConfigStore) GetInt(key string) int {
	switch n := s.value(key).(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func (s *ConfigStore) GetBool(key string) bool {
	b, _ := s.value(key).(bool)
	return b
}

func (s *ConfigStore) GetStringMap(prefix string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	for key, val := range s.values {
		name, ok := strings.CutPrefix(key, prefix+".")
		if !ok || name == "" {
			continue
		}
		if str, ok := val.(string); ok {
			out[name] = str
		}
	}
	return out
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Path() string { return MemoryPath }

// Keys returns the stored keys in order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Snapshot returns a copy of every stored value.
func (s *ConfigStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Replace swaps the stored values for a copy of values.
func (s *ConfigStore) Replace(values map[string]any) {
	next := make(map[string]any, len(values))
	maps.Copy(next, values)

	s.mu.Lock()
	s.values = next
	s.mu.Unlock()
}
