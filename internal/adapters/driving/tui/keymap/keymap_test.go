package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		keys    []string
		wantKey string
	}{
		{"quit", km.Quit.Keys(), "q"},
		{"quit ctrl+c", km.Quit.Keys(), "ctrl+c"},
		{"help", km.Help.Keys(), "?"},
		{"back", km.Back.Keys(), "esc"},
		{"search", km.Search.Keys(), "enter"},
		{"mode", km.Mode.Keys(), "tab"},
		{"up", km.Up.Keys(), "k"},
		{"down", km.Down.Keys(), "j"},
		{"open", km.Open.Keys(), "enter"},
		{"new search", km.NewSearch.Keys(), "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.keys, tt.wantKey)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.InputHelp(), 3)
	assert.Len(t, km.ResultsHelp(), 5)
	assert.Len(t, km.FullHelp(), 3)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("j", km.Down))
	assert.True(t, Matches("down", km.Down))
	assert.False(t, Matches("x", km.Down))
}

func TestKeyMap_ImplementsHelpKeyMap(t *testing.T) {
	var _ help.KeyMap = DefaultKeyMap()

	view := help.New().View(DefaultKeyMap())

	assert.Contains(t, view, "quit")
}

func TestMatches_DisabledBinding(t *testing.T) {
	km := DefaultKeyMap()
	km.Down.SetEnabled(false)

	assert.False(t, Matches("j", km.Down))
}
