package list

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/famlink/internal/core/domain"
)

func sampleFamilies() []domain.FamilyMetadata {
	return []domain.FamilyMetadata{
		{ID: "door-1", Name: "Single Flush Door", Category: "Doors", Tags: domain.NewTagSet("interior", "wood")},
		{ID: "win-1", Name: "Casement Window", Category: "Windows"},
		{ID: "col-1", Name: "Round Column"},
	}
}

func TestNewFamilyList(t *testing.T) {
	l := NewFamilyList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedFamily())
	assert.Nil(t, l.Init())
}

func TestFamilyList_Navigation(t *testing.T) {
	l := NewFamilyList(nil)
	l.SetFamilies(sampleFamilies())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected(), "selection stops at the last family")
	assert.Equal(t, "col-1", l.SelectedFamily().ID)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, "win-1", l.SelectedFamily().ID)
}

func TestFamilyList_SetFamiliesResetsSelection(t *testing.T) {
	l := NewFamilyList(nil)
	l.SetFamilies(sampleFamilies())
	l.MoveDown()

	l.SetFamilies(sampleFamilies()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Families(), 1)
}

func TestFamilyList_View(t *testing.T) {
	l := NewFamilyList(nil)
	assert.Contains(t, l.View(), "No families")

	l.SetFamilies(sampleFamilies())
	view := l.View()

	assert.Contains(t, view, "Families (3)")
	assert.Contains(t, view, "> Single Flush Door")
	assert.Contains(t, view, "interior, wood")
	assert.Contains(t, view, "Round Column  -")
}

func TestFamilyList_ViewScrollsToSelection(t *testing.T) {
	families := make([]domain.FamilyMetadata, 10)
	for i := range families {
		families[i] = domain.FamilyMetadata{ID: fmt.Sprintf("f-%d", i), Name: fmt.Sprintf("Family %d", i)}
	}
	l := NewFamilyList(nil)
	l.SetDimensions(80, 6) // room for two entries
	l.SetFamilies(families)

	for range 5 {
		l.MoveDown()
	}
	view := l.View()

	assert.Contains(t, view, "Family 5")
	assert.Contains(t, view, "Family 4")
	assert.NotContains(t, view, "Family 0")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
