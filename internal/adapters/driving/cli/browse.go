package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui"
)

// runProgram runs a bubbletea model. Tests replace it to avoid a terminal.
var runProgram = func(ctx context.Context, model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the family catalogue interactively",
	Long: `Starts a worker and opens an interactive search over its families.

Controls:
  tab      - Switch between name and tag search
  enter    - Search / open the selected family
  ↑/k, ↓/j - Navigate results
  n        - New search
  esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	addLibraryFlag(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in browser: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	return withSession(cmd, func(ctx context.Context, s session) error {
		families, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("listing families: %w", err)
		}

		app, err := tui.NewApp(&tui.Ports{
			Search:     s,
			Library:    s,
			MaxResults: settings.Search.MaxResults,
		})
		if err != nil {
			return fmt.Errorf("failed to create browser: %w", err)
		}
		app.WithContext(ctx).WithStatus(fmt.Sprintf("%d families loaded", len(families)))

		if err := runProgram(ctx, app); err != nil {
			return fmt.Errorf("browser error: %w", err)
		}
		return nil
	})
}
