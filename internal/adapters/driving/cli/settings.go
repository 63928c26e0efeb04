package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the settings stored in config.toml.

Use subcommands to set a single key or pick the worker mode interactively.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Long: `Validates and stores one setting. Recognised keys:

  worker.executable    worker binary (default: this binary)
  worker.mode          ipc or mcp
  worker.stop_grace    duration each shutdown step waits, e.g. 5s
  worker.library       glob of seed files, e.g. ~/families/**/*.yaml
  worker.watch         true to re-import seed files on change
  search.max_results   limit for queries without one
  store.shards         lock stripes in the catalogue
  import.pool_size     concurrent import workers
  access.default_role  admin, editor, user or readonly
  access.users.<id>    role for one user`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Choose the worker mode",
	Long: `Choose the protocol a worker started without --mode speaks.

Available modes:
  ipc - line-delimited JSON queries (used by the host commands)
  mcp - Model Context Protocol for AI assistants`,
	Args: cobra.NoArgs,
	RunE: runSettingsMode,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s := settings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Println()

	cmd.Println("[Worker]")
	executable := s.Worker.Executable
	if executable == "" {
		executable = "(this binary)"
	}
	cmd.Printf("  Executable: %s\n", executable)
	cmd.Printf("  Mode: %s\n", s.Worker.Mode.Description())
	cmd.Printf("  Stop grace: %s\n", s.Worker.StopGrace)
	library := s.Worker.Library
	if library == "" {
		library = "(none)"
	}
	cmd.Printf("  Library: %s\n", library)
	cmd.Printf("  Watch: %s\n", yesNo(s.Worker.Watch))
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Max results: %d\n", s.Search.MaxResults)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Shards: %d\n", s.Store.Shards)
	cmd.Printf("  Import pool size: %d\n", s.Import.PoolSize)
	cmd.Println()

	cmd.Println("[Access]")
	cmd.Printf("  Default role: %s\n", s.Access.DefaultRole)
	users := make([]string, 0, len(s.Access.Users))
	for user := range s.Access.Users {
		users = append(users, user)
	}
	sort.Strings(users)
	for _, user := range users {
		cmd.Printf("  %s: %s\n", user, s.Access.Users[user])
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	if !services.IsSettingsKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value := parseSettingValue(raw)
	if err := validateSetting(key, value); err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func runSettingsMode(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Worker Mode")
	cmd.Println("------------------")
	modes := domain.AllWorkerModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice: ")
	idx := parseChoice(readLine(reader), len(modes), 0)
	if idx == 0 {
		return errors.New("invalid selection")
	}

	selected := modes[idx-1]
	if err := configStore.Set("worker.mode", selected.String()); err != nil {
		return fmt.Errorf("failed to set worker mode: %w", err)
	}

	cmd.Printf("Worker mode set to: %s\n", selected.Description())
	return nil
}

// validateSetting resolves key on its own so a bad value never reaches
// the config file.
func validateSetting(key string, value any) error {
	probe := memory.NewConfigStore(map[string]any{key: value})
	if _, err := services.NewSettingsService(probe).Get(); err != nil {
		return err
	}
	return nil
}

// parseSettingValue types raw the way TOML would store it.
func parseSettingValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
