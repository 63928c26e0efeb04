package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/famlink/internal/adapters/driven/schema"
)

var (
	schemaOut    string
	schemaFormat string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Work with the command schemas derived from families",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the command schemas to a file",
	Long: `Derives one command schema per family and writes them as JSON or
Markdown. The file is left untouched when its content would not change.`,
	Args: cobra.NoArgs,
	RunE: runSchemaExport,
}

func init() {
	schemaExportCmd.Flags().StringVarP(&schemaOut, "out", "o", "", "output file (required)")
	schemaExportCmd.Flags().StringVarP(&schemaFormat, "format", "f", string(schema.FormatJSON), "json or markdown")
	_ = schemaExportCmd.MarkFlagRequired("out")
	schemaCmd.PersistentFlags().StringVar(&hostLibrary, "library", "", "glob of seed files the worker imports (default worker.library)")

	schemaCmd.AddCommand(schemaExportCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaExport(cmd *cobra.Command, _ []string) error {
	format, err := schema.ParseFormat(schemaFormat)
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s session) error {
		schemas, err := s.Schemas(ctx)
		if err != nil {
			return fmt.Errorf("listing schemas: %w", err)
		}

		changed, err := schema.NewExporter().Export(schemaOut, format, schemas)
		if err != nil {
			return err
		}
		if changed {
			cmd.Printf("Wrote %d schemas to %s\n", len(schemas), schemaOut)
		} else {
			cmd.Printf("%s is up to date\n", schemaOut)
		}
		return nil
	})
}
