package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_EnvDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(ConfigDirEnv, tmpDir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewConfigStore(nested)

	require.NoError(t, err)
	assert.DirExists(t, nested)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())
}

func TestNewConfigStore_ReadsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[worker]
mode = "mcp"
stop_grace = "3s"
watch = true

[search]
max_results = 50

[access]
default_role = "readonly"

[access.users]
alice = "editor"
bob = "admin"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "mcp", store.GetString("worker.mode"))
	assert.Equal(t, "3s", store.GetString("worker.stop_grace"))
	assert.True(t, store.GetBool("worker.watch"))
	assert.Equal(t, 50, store.GetInt("search.max_results"))
	assert.Equal(t, "readonly", store.GetString("access.default_role"))
	assert.Equal(t, map[string]string{"alice": "editor", "bob": "admin"}, store.GetStringMap("access.users"))
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[[[not toml"), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Getters_MissingAndWrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("worker.mode", "ipc"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("worker.mode"))
	assert.False(t, store.GetBool("worker.mode"))
	assert.Empty(t, store.GetStringMap("missing"))
}

func TestConfigStore_SaveReload_PreservesNesting(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("worker.library", "/srv/families/**/*.yaml"))
	require.NoError(t, store.Set("worker.args", []string{"--watch"}))
	require.NoError(t, store.Set("store.shards", 16))
	require.NoError(t, store.Set("access.users.alice", "editor"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[worker]")
	assert.Contains(t, string(raw), "[access.users]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/families/**/*.yaml", reloaded.GetString("worker.library"))
	args, ok := reloaded.Get("worker.args")
	require.True(t, ok)
	assert.Equal(t, []any{"--watch"}, args)
	assert.Equal(t, 16, reloaded.GetInt("store.shards"))
	assert.Equal(t, "editor", reloaded.GetStringMap("access.users")["alice"])
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() { _ = store.Set("search.max_results", i) })
		wg.Go(func() { _ = store.GetInt("search.max_results") })
	}
	wg.Wait()

	reloaded, err := NewConfigStore(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Equal(t, store.GetInt("search.max_results"), reloaded.GetInt("search.max_results"))
}

func TestConfigStore_LoadPicksUpExternalEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("worker.mode", "ipc"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[worker]\nmode = \"mcp\"\n"), 0o600))
	require.NoError(t, store.Load())

	assert.Equal(t, "mcp", store.GetString("worker.mode"))
}

func TestConfigStore_LoadMissingFileEmptiesStore(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("worker.mode", "ipc"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("worker.mode")
	assert.False(t, ok)
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"worker": map[string]any{"mode": "ipc"},
		"access": map[string]any{"users": map[string]any{"alice": "editor"}},
		"top":    true,
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"worker.mode":        "ipc",
		"access.users.alice": "editor",
		"top":                true,
	}, flat)
	assert.Equal(t, nested, nestMap(flat))
}

func TestNestMap_TableWinsOverScalar(t *testing.T) {
	got := nestMap(map[string]any{"a": 1, "a.b": 2})

	assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, got)
}
