package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// stdoutIsTerminal decides between table and JSON output.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func wantJSON(flag bool) bool {
	return flag || !stdoutIsTerminal()
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func outputFamilies(cmd *cobra.Command, families []domain.FamilyMetadata, asJSON bool) error {
	if wantJSON(asJSON) {
		return outputJSON(cmd, protocol.FamiliesResult{
			Families: protocol.RecordsFromFamilies(families),
			Count:    len(families),
		})
	}

	if len(families) == 0 {
		cmd.Println("No families found.")
		return nil
	}

	t := newTable("ID", "NAME", "CATEGORY", "TAGS", "PARAMS")
	for i := range families {
		f := &families[i]
		t.Row(f.ID, f.Name, f.Category, strings.Join(f.Tags.Slice(), ", "), strconv.Itoa(len(f.Parameters)))
	}
	cmd.Println(t.String())
	cmd.Printf("%d families\n", len(families))
	return nil
}

func outputFamily(cmd *cobra.Command, f *domain.FamilyMetadata, asJSON bool) error {
	if wantJSON(asJSON) {
		return outputJSON(cmd, protocol.FamilyResult{Family: protocol.RecordFromFamily(f)})
	}

	cmd.Printf("%s (%s)\n", f.Name, f.ID)
	cmd.Printf("  Category:    %s\n", f.Category)
	if tags := f.Tags.Slice(); len(tags) > 0 {
		cmd.Printf("  Tags:        %s\n", strings.Join(tags, ", "))
	}
	if f.Description != "" {
		cmd.Printf("  Description: %s\n", f.Description)
	}
	if f.CreatedBy != "" {
		cmd.Printf("  Created by:  %s\n", f.CreatedBy)
	}
	if !f.LastModified.IsZero() {
		cmd.Printf("  Modified:    %s\n", f.LastModified.Format("2006-01-02 15:04:05"))
	}

	if len(f.Parameters) == 0 {
		return nil
	}
	t := newTable("PARAMETER", "TYPE", "UNIT", "REQUIRED", "DEFAULT")
	for _, name := range f.ParameterNames() {
		p := f.Parameters[name]
		required := ""
		if p.Required {
			required = "yes"
		}
		t.Row(p.Name, p.Type, p.Unit, required, domain.FormatParameterValue(p.DefaultValue))
	}
	cmd.Println(t.String())
	return nil
}
