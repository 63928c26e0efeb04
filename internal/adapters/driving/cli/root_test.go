package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/services"
)

// fakeSession serves the host commands from an in-process catalogue.
type fakeSession struct {
	*services.SearchService
	*services.LibraryService

	library string
	pingErr error
	pings   int
	closed  bool
}

func (s *fakeSession) Ping(context.Context) error {
	s.pings++
	return s.pingErr
}

func (s *fakeSession) Close(context.Context) error {
	s.closed = true
	return nil
}

func testFamilies() []domain.FamilyMetadata {
	return []domain.FamilyMetadata{
		{
			ID:       "door-1",
			Name:     "Single Flush Door",
			Category: "Doors",
			Tags:     domain.NewTagSet("interior", "wood"),
			Parameters: map[string]domain.Parameter{
				"Width":  {Name: "Width", Type: "Length", Unit: "mm", Required: true, DefaultValue: 900},
				"Finish": {Name: "Finish", Type: "Text", DefaultValue: "Oak"},
			},
			Description: "Standard interior door",
			CreatedBy:   "alice",
		},
		{
			ID:       "door-2",
			Name:     "Double Door",
			Category: "Doors",
			Tags:     domain.NewTagSet("interior"),
		},
		{
			ID:       "win-1",
			Name:     "Casement Window",
			Category: "Windows",
			Tags:     domain.NewTagSet("exterior", "glass"),
		},
	}
}

// useFakeSession replaces openSession with a session over families.
func useFakeSession(t *testing.T, families ...domain.FamilyMetadata) *fakeSession {
	t.Helper()

	store := memory.NewFamilyStore()
	lib := services.NewLibraryService(store)
	report, err := lib.Import(context.Background(), families)
	require.NoError(t, err)
	require.Zero(t, report.Rejected, report.Errors)

	fake := &fakeSession{
		SearchService:  services.NewSearchService(store, 0),
		LibraryService: lib,
	}

	original := openSession
	openSession = func(_ context.Context, library string) (session, error) {
		fake.library = library
		return fake, nil
	}
	t.Cleanup(func() { openSession = original })

	return fake
}

// setTerminal fixes the table/JSON decision for one test.
func setTerminal(t *testing.T, isTerminal bool) {
	t.Helper()
	original := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return isTerminal }
	t.Cleanup(func() { stdoutIsTerminal = original })
}

// execute runs the root command with args against an empty config dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FAMLINK_CONFIG_DIR", t.TempDir())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak
// values or Changed state into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "famlink", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasGlobalFlags(t *testing.T) {
	config := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)

	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	want := []string{"browse", "family", "ping", "schema", "search", "settings", "version", "worker"}

	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}

	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestRootCmd_LoadsDefaultSettings(t *testing.T) {
	_, err := execute(t, "version")

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.WorkerModeIPC, settings.Worker.Mode)
	assert.Equal(t, domain.DefaultMaxResults, settings.Search.MaxResults)
}

func TestRootCmd_ConfigFlagSelectsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--config", dir, "version")

	require.NoError(t, err)
	assert.Contains(t, configStore.Path(), dir)
}

func TestRootCmd_InvalidConfigValue(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[worker]\nmode = \"carrier-pigeon\"\n")

	_, err := execute(t, "--config", dir, "version")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "loading settings")
}

func TestRootCmd_UnreadableConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "this is not toml [")

	out, err := execute(t, "--config", dir, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "famlink version")
	assert.Equal(t, ":memory:", configStore.Path())
	assert.Equal(t, domain.WorkerModeIPC, settings.Worker.Mode)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
