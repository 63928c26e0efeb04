package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var familyJSON bool

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Read families from the catalogue",
}

var familyGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one family with its parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyGet,
}

var familyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every family",
	Args:  cobra.NoArgs,
	RunE:  runFamilyList,
}

func init() {
	familyCmd.PersistentFlags().BoolVar(&familyJSON, "json", false, "output as JSON")
	familyCmd.PersistentFlags().StringVar(&hostLibrary, "library", "", "glob of seed files the worker imports (default worker.library)")

	familyCmd.AddCommand(familyGetCmd, familyListCmd)
	rootCmd.AddCommand(familyCmd)
}

func runFamilyGet(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s session) error {
		family, err := s.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("family %q: %w", args[0], err)
		}
		return outputFamily(cmd, family, familyJSON)
	})
}

func runFamilyList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s session) error {
		families, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("listing families: %w", err)
		}
		return outputFamilies(cmd, families, familyJSON)
	})
}
