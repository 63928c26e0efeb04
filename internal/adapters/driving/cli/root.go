// Package cli provides the famlink command line. The host commands launch a
// worker process and talk to it over the stdio protocol; the worker command
// is the other end of that conversation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/famlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driven"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
	"github.com/custodia-labs/famlink/internal/core/services"
	"github.com/custodia-labs/famlink/internal/logger"
)

var (
	version   = "dev"
	configDir string
	verbose   bool

	// configStore and settings are resolved before every command runs.
	configStore driven.ConfigStore
	settings    *domain.Settings
)

var rootCmd = &cobra.Command{
	Use:   "famlink",
	Short: "Search a family catalogue served by a worker process",
	Long: `famlink keeps a catalogue of families in a worker process and answers
searches over a line-delimited JSON protocol on the worker's stdio.

Host commands (ping, search, family, schema, browse) start a worker, send
their queries, and stop it again. The worker command runs the worker
itself and is normally started by the host.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default $FAMLINK_CONFIG_DIR or ~/.famlink)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging on stderr")
}

func loadSettings(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		logger.Error("config unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore(nil)
	} else {
		logger.Debug("config: %s", store.Path())
		configStore = store
	}

	var svc driving.SettingsService = services.NewSettingsService(configStore)
	resolved, err := svc.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	settings = resolved
	return nil
}
