package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Start a worker and check that it answers",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func init() {
	addLibraryFlag(pingCmd)
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s session) error {
		start := time.Now()
		if err := s.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		cmd.Printf("Pong (%s)\n", time.Since(start).Round(time.Microsecond))
		return nil
	})
}
