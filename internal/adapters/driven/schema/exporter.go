// Package schema renders command schemas to JSON or Markdown files.
package schema

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/logger"
	"github.com/custodia-labs/famlink/internal/protocol"
)

// Format is an export format.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format name; "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// Fingerprint returns the BLAKE3 digest of data as blake3:<hex>.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return "blake3:" + hex.EncodeToString(sum[:])
}

// Exporter writes rendered schemas to disk.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders schemas and writes them to path. When the file already
// holds identical content it is left untouched and changed is false.
func (e *Exporter) Export(path string, format Format, schemas []domain.CommandSchema) (bool, error) {
	data, err := Render(format, schemas)
	if err != nil {
		return false, err
	}
	want := Fingerprint(data)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if Fingerprint(existing) == want {
			logger.Debug("schema export %s unchanged (%s)", path, want)
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Debug("schema export wrote %d schemas to %s (%s)", len(schemas), path, want)
	return true, nil
}

// Render renders schemas in format. Output is deterministic for equal input.
func Render(format Format, schemas []domain.CommandSchema) ([]byte, error) {
	switch format {
	case FormatJSON:
		return renderJSON(schemas)
	case FormatMarkdown:
		return renderMarkdown(schemas), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

func renderJSON(schemas []domain.CommandSchema) ([]byte, error) {
	data, err := json.MarshalIndent(protocol.SchemaRecordsFromSchemas(schemas), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schemas: %w", err)
	}
	return append(data, '\n'), nil
}

func renderMarkdown(schemas []domain.CommandSchema) []byte {
	var b bytes.Buffer
	b.WriteString("# Command Schemas\n")

	if len(schemas) == 0 {
		b.WriteString("\nNo families.\n")
		return b.Bytes()
	}

	for _, s := range schemas {
		fmt.Fprintf(&b, "\n## %s\n\n", cell(s.FamilyName))
		fmt.Fprintf(&b, "- Element type: %s\n", cell(s.ElementType))
		fmt.Fprintf(&b, "- Family id: `%s`\n", s.FamilyID)
		if !s.LastUpdated.IsZero() {
			fmt.Fprintf(&b, "- Last updated: %s\n", s.LastUpdated.UTC().Format(time.RFC3339))
		}

		if len(s.Parameters) == 0 {
			b.WriteString("\n_No parameters._\n")
			continue
		}

		names := make([]string, 0, len(s.Parameters))
		for name := range s.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n| Parameter | Type | Unit | Required | Description |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, name := range names {
			p := s.Parameters[name]
			required := "no"
			if p.Required {
				required = "yes"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(name), cell(p.Type), cell(p.Unit), required, cell(p.Description))
		}
	}
	return b.Bytes()
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
