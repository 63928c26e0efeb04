package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
	assert.Equal(t, "Manage application settings", settingsCmd.Short)
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "set", "mode"}, names)
}

func TestSettingsShow_Defaults(t *testing.T) {
	for _, args := range [][]string{{"settings"}, {"settings", "show"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, err := execute(t, args...)

			require.NoError(t, err)
			assert.Contains(t, out, "Config file:")
			assert.Contains(t, out, "config.toml")
			assert.Contains(t, out, "Executable: (this binary)")
			assert.Contains(t, out, "Mode: IPC (line-delimited JSON queries)")
			assert.Contains(t, out, "Stop grace: 5s")
			assert.Contains(t, out, "Library: (none)")
			assert.Contains(t, out, "Watch: no")
			assert.Contains(t, out, "Shards: 32")
			assert.Contains(t, out, "Default role: admin")
		})
	}
}

func TestSettingsShow_ConfiguredUsers(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `[access]
default_role = "readonly"

[access.users]
bob = "editor"
alice = "admin"
`)

	out, err := execute(t, "--config", dir, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Default role: readonly")
	aliceAt := strings.Index(out, "alice: admin")
	bobAt := strings.Index(out, "bob: editor")
	require.NotEqual(t, -1, aliceAt)
	require.NotEqual(t, -1, bobAt)
	assert.Less(t, aliceAt, bobAt, "users should be listed in order")
}

func TestSettingsSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s *domain.Settings)
	}{
		{
			name: "string", key: "worker.library", value: "/srv/*.yaml",
			check: func(t *testing.T, s *domain.Settings) { assert.Equal(t, "/srv/*.yaml", s.Worker.Library) },
		},
		{
			name: "bool", key: "worker.watch", value: "true",
			check: func(t *testing.T, s *domain.Settings) { assert.True(t, s.Worker.Watch) },
		},
		{
			name: "int", key: "search.max_results", value: "7",
			check: func(t *testing.T, s *domain.Settings) { assert.Equal(t, 7, s.Search.MaxResults) },
		},
		{
			name: "duration", key: "worker.stop_grace", value: "250ms",
			check: func(t *testing.T, s *domain.Settings) { assert.Equal(t, "250ms", s.Worker.StopGrace.String()) },
		},
		{
			name: "user role", key: "access.users.carol", value: "readonly",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.RoleReadOnly, s.Access.Users["carol"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			out, err := execute(t, "--config", dir, "settings", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Contains(t, out, tt.key+" = "+tt.value)

			_, err = execute(t, "--config", dir, "version")
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsSet_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "worker.colour", "blue"},
		{"empty user", "access.users.", "admin"},
		{"bad mode", "worker.mode", "carrier-pigeon"},
		{"bad duration", "worker.stop_grace", "soon"},
		{"bad role", "access.default_role", "overlord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			_, err := execute(t, "--config", dir, "settings", "set", tt.key, tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			_, err = execute(t, "--config", dir, "version")
			require.NoError(t, err, "a rejected value must not be saved")
		})
	}
}

func TestSettingsMode(t *testing.T) {
	dir := t.TempDir()
	rootCmd.SetIn(strings.NewReader("2\n"))

	out, err := execute(t, "--config", dir, "settings", "mode")

	require.NoError(t, err)
	assert.Contains(t, out, "1. IPC")
	assert.Contains(t, out, "2. MCP")
	assert.Contains(t, out, "Worker mode set to: MCP")

	_, err = execute(t, "--config", dir, "version")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkerModeMCP, settings.Worker.Mode)
}

func TestSettingsMode_InvalidChoice(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("9\n"))

	_, err := execute(t, "settings", "mode")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid selection")
}

func TestParseSettingValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", int64(42)},
		{"5s", "5s"},
		{"ipc", "ipc"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSettingValue(tt.raw))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty uses default", "", 1},
		{"valid", "2", 2},
		{"too large", "4", 1},
		{"zero", "0", 1},
		{"not a number", "two", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, 3, 1))
		})
	}
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  mcp  \nrest"))

	assert.Equal(t, "mcp", readLine(reader))
	assert.Equal(t, "rest", readLine(reader))
	assert.Empty(t, readLine(reader))
}
