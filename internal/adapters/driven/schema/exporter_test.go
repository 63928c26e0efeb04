package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/protocol"
)

func testSchemas() []domain.CommandSchema {
	return []domain.CommandSchema{
		{
			ElementType: "Doors",
			FamilyID:    "door-1",
			FamilyName:  "Single Flush Door",
			LastUpdated: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Parameters: map[string]domain.ParameterDefinition{
				"Width":  {Name: "Width", Type: "Length", Unit: "mm", Required: true, Description: "Clear | opening"},
				"Finish": {Name: "Finish", Type: "Text"},
			},
		},
		{ElementType: "Furniture", FamilyID: "furn-1", FamilyName: "Desk"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" JSON ", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("schemas"))
	assert.True(t, strings.HasPrefix(a, "blake3:"))
	assert.Len(t, a, len("blake3:")+64)
	assert.Equal(t, a, Fingerprint([]byte("schemas")))
	assert.NotEqual(t, a, Fingerprint([]byte("schemas!")))
}

func TestRender_JSON(t *testing.T) {
	data, err := Render(FormatJSON, testSchemas())
	require.NoError(t, err)

	var records []protocol.SchemaRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "door-1", records[0].FamilyID)
	assert.Equal(t, "mm", records[0].Parameters["Width"].Unit)
	assert.True(t, records[0].Parameters["Width"].Required)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestRender_Markdown(t *testing.T) {
	data, err := Render(FormatMarkdown, testSchemas())
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# Command Schemas\n"))
	assert.Contains(t, out, "## Single Flush Door")
	assert.Contains(t, out, "- Last updated: 2026-03-01T12:00:00Z")
	assert.Contains(t, out, "| Width | Length | mm | yes | Clear \\| opening |")
	assert.Less(t, strings.Index(out, "| Finish |"), strings.Index(out, "| Width |"))
	assert.Contains(t, out, "## Desk")
	assert.Contains(t, out, "_No parameters._")
}

func TestRender_Empty(t *testing.T) {
	data, err := Render(FormatMarkdown, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No families.")

	data, err = Render(FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(Format("xml"), testSchemas())
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExport_SkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "schemas.json")
	e := NewExporter()

	changed, err := e.Export(path, FormatJSON, testSchemas())
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	firstMod := info.ModTime()

	changed, err = e.Export(path, FormatJSON, testSchemas())
	require.NoError(t, err)
	assert.False(t, changed)

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, firstMod, info.ModTime())

	changed, err = e.Export(path, FormatJSON, testSchemas()[:1])
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestExport_OverwritesDifferentFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas.md")
	e := NewExporter()

	_, err := e.Export(path, FormatJSON, testSchemas())
	require.NoError(t, err)

	changed, err := e.Export(path, FormatMarkdown, testSchemas())
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Command Schemas"))
}
