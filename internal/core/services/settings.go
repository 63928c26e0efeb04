package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkerExecutable = "worker.executable"
	keyWorkerMode       = "worker.mode"
	keyWorkerStopGrace  = "worker.stop_grace"
	keyWorkerLibrary    = "worker.library"
	keyWorkerWatch      = "worker.watch"
	keySearchMaxResults = "search.max_results"
	keyStoreShards      = "store.shards"
	keyImportPoolSize   = "import.pool_size"
	keyAccessDefault    = "access.default_role"
	keyAccessUsers      = "access.users"
)

var knownKeys = []string{
	keyWorkerExecutable,
	keyWorkerMode,
	keyWorkerStopGrace,
	keyWorkerLibrary,
	keyWorkerWatch,
	keySearchMaxResults,
	keyStoreShards,
	keyImportPoolSize,
	keyAccessDefault,
}

// SettingsKeys returns the recognised keys in display order. Per-user
// roles are set under access.users.<id>.
func SettingsKeys() []string {
	return slices.Clone(knownKeys)
}

// IsSettingsKey reports whether key is recognised.
func IsSettingsKey(key string) bool {
	if user, ok := strings.CutPrefix(key, keyAccessUsers+"."); ok {
		return user != ""
	}
	return slices.Contains(knownKeys, key)
}

// SettingsService resolves application settings from a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get resolves settings, filling unset keys with defaults.
// Malformed values are reported as domain.ErrInvalidInput.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	mode := domain.WorkerMode(s.getString(keyWorkerMode, defaults.Worker.Mode.String()))
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, keyWorkerMode, mode)
	}

	grace, err := s.getDuration(keyWorkerStopGrace, defaults.Worker.StopGrace)
	if err != nil {
		return nil, err
	}

	access, err := s.getAccessPolicy(defaults.Access)
	if err != nil {
		return nil, err
	}

	settings := &domain.Settings{
		Worker: domain.WorkerSettings{
			Executable: s.configStore.GetString(keyWorkerExecutable), // empty means the running binary
			Mode:       mode,
			StopGrace:  grace,
			Library:    s.configStore.GetString(keyWorkerLibrary),
			Watch:      s.configStore.GetBool(keyWorkerWatch),
		},
		Search: domain.SearchSettings{
			MaxResults: s.getInt(keySearchMaxResults, defaults.Search.MaxResults),
		},
		Store: domain.StoreSettings{
			Shards: s.getInt(keyStoreShards, defaults.Store.Shards),
		},
		Import: domain.ImportSettings{
			PoolSize: s.getInt(keyImportPoolSize, defaults.Import.PoolSize),
		},
		Access: access,
	}

	return settings, nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := strings.TrimSpace(s.configStore.GetString(key)); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, key, raw)
	}
	return d, nil
}

func (s *SettingsService) getAccessPolicy(defaults domain.AccessPolicy) (domain.AccessPolicy, error) {
	policy := domain.AccessPolicy{DefaultRole: defaults.DefaultRole}

	if raw := s.configStore.GetString(keyAccessDefault); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return policy, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, keyAccessDefault, raw)
		}
		policy.DefaultRole = role
	}

	users := s.configStore.GetStringMap(keyAccessUsers)
	if len(users) > 0 {
		policy.Users = make(map[string]domain.Role, len(users))
	}
	for user, raw := range users {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return policy, fmt.Errorf("%w: %s.%s %q", domain.ErrInvalidInput, keyAccessUsers, user, raw)
		}
		policy.Users[user] = role
	}

	return policy, nil
}
