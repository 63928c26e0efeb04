package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/protocol"
)

func TestFamilyGet_Text(t *testing.T) {
	useFakeSession(t, testFamilies()...)
	setTerminal(t, true)

	out, err := execute(t, "family", "get", "door-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Single Flush Door (door-1)")
	assert.Contains(t, out, "Category:    Doors")
	assert.Contains(t, out, "Tags:        interior, wood")
	assert.Contains(t, out, "Description: Standard interior door")
	assert.Contains(t, out, "Created by:  alice")
	assert.Contains(t, out, "PARAMETER")
	assert.Contains(t, out, "Width")
	assert.Contains(t, out, "900")
	assert.Contains(t, out, "Oak")
}

func TestFamilyGet_JSON(t *testing.T) {
	useFakeSession(t, testFamilies()...)
	setTerminal(t, false)

	out, err := execute(t, "family", "get", "door-1")

	require.NoError(t, err)
	var result protocol.FamilyResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, "door-1", result.Family.ID)
	assert.Equal(t, []string{"interior", "wood"}, result.Family.Tags)
	require.Len(t, result.Family.Parameters, 2)
	assert.Equal(t, "Finish", result.Family.Parameters[0].Name)
}

func TestFamilyGet_NotFound(t *testing.T) {
	fake := useFakeSession(t, testFamilies()...)

	_, err := execute(t, "family", "get", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), `family "missing"`)
	assert.True(t, fake.closed)
}

func TestFamilyGet_RequiresID(t *testing.T) {
	useFakeSession(t)

	_, err := execute(t, "family", "get")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestFamilyList(t *testing.T) {
	useFakeSession(t, testFamilies()...)
	setTerminal(t, false)

	out, err := execute(t, "family", "list")

	require.NoError(t, err)
	result := decodeFamilies(t, out)
	assert.Equal(t, 3, result.Count)
	assert.ElementsMatch(t, []string{"door-1", "door-2", "win-1"}, familyIDs(result))
}

func TestFamilyList_EmptyCatalogue(t *testing.T) {
	useFakeSession(t)
	setTerminal(t, true)

	out, err := execute(t, "family", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No families found.")
}

func TestFamilyList_EmptyCatalogueJSON(t *testing.T) {
	useFakeSession(t)
	setTerminal(t, false)

	out, err := execute(t, "family", "list")

	require.NoError(t, err)
	assert.JSONEq(t, `{"families": [], "count": 0}`, out)
}
