package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

func TestSchemaExport_RequiresOut(t *testing.T) {
	useFakeSession(t)

	_, err := execute(t, "schema", "export")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "out" not set`)
}

func TestSchemaExport_UnsupportedFormat(t *testing.T) {
	fake := useFakeSession(t)
	out := filepath.Join(t.TempDir(), "schemas.xml")

	_, err := execute(t, "schema", "export", "-o", out, "-f", "xml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.False(t, fake.closed, "no session should be opened")
	assert.NoFileExists(t, out)
}

func TestSchemaExport_JSON(t *testing.T) {
	useFakeSession(t, testFamilies()...)
	path := filepath.Join(t.TempDir(), "schemas.json")

	out, err := execute(t, "schema", "export", "--out", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 schemas to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"door-1"`)
	assert.Contains(t, string(data), `"Width"`)
}

func TestSchemaExport_MarkdownUpToDate(t *testing.T) {
	useFakeSession(t, testFamilies()...)
	path := filepath.Join(t.TempDir(), "schemas.md")

	_, err := execute(t, "schema", "export", "-o", path, "-f", "md")
	require.NoError(t, err)

	out, err := execute(t, "schema", "export", "-o", path, "-f", "markdown")

	require.NoError(t, err)
	assert.Contains(t, out, path+" is up to date")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Command Schemas")
	assert.Contains(t, string(data), "## Casement Window")
}
