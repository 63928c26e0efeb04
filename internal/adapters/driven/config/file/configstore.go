package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/famlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigDirEnv overrides the default config directory.
const ConfigDirEnv = "FAMLINK_CONFIG_DIR"

const fileName = "config.toml"

// ConfigStore reads config.toml once and rewrites it on every Set.
//
//	[worker]
//	stop_grace = "3s"
//
// is served as "worker.stop_grace".
type ConfigStore struct {
	*memory.ConfigStore

	writeMu sync.Mutex
	path    string
}

// NewConfigStore opens config.toml in configDir, falling back to
// $FAMLINK_CONFIG_DIR and then ~/.famlink. The directory is created if
// needed; a missing file is an empty config.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	dir, err := resolveDir(configDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	s := &ConfigStore{
		ConfigStore: memory.NewConfigStore(nil),
		path:        filepath.Join(dir, fileName),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if dir = os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home dir: %w", err)
	}
	return filepath.Join(home, ".famlink"), nil
}

// Set stores value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.ConfigStore.Set(key, value); err != nil {
		return err
	}
	return s.write()
}

// Save rewrites the file from the current values.
func (s *ConfigStore) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write()
}

func (s *ConfigStore) write() error {
	data, err := toml.Marshal(nestMap(s.Snapshot()))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", fileName, err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load replaces the values with the file's contents.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return err
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.Replace(flattenMap(tables, ""))
	return nil
}

func (s *ConfigStore) Path() string { return s.path }

// flattenMap turns {"a": {"b": 1}} into {"a.b": 1}.
func flattenMap(tables map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)
	for name, value := range tables {
		if prefix != "" {
			name = prefix + "." + name
		}
		nested, ok := value.(map[string]any)
		if !ok {
			flat[name] = value
			continue
		}
		for k, v := range flattenMap(nested, name) {
			flat[k] = v
		}
	}
	return flat
}

// nestMap undoes flattenMap. When a key is both a scalar and a table
// prefix, the table wins.
func nestMap(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		path := strings.Split(key, ".")
		table := root
		for _, part := range path[:len(path)-1] {
			child, ok := table[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				table[part] = child
			}
			table = child
		}
		leaf := path[len(path)-1]
		if _, ok := table[leaf].(map[string]any); !ok {
			table[leaf] = value
		}
	}
	return root
}
