// Package keymap holds the browser's key bindings.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap groups the bindings of every view. Open and Search share enter;
// which one applies depends on whether the input or the list has focus.
type KeyMap struct {
	Quit, Help, Back key.Binding

	// Input.
	Search, Mode key.Binding

	// Result list.
	Up, Down, Open, NewSearch key.Binding
}

func bind(shown, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(shown, desc))
}

// DefaultKeyMap returns vim-style list keys plus the usual quit keys.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
		Back: bind("esc", "back", "esc"),

		Search: bind("enter", "search", "enter"),
		Mode:   bind("tab", "name/tags", "tab"),

		Up:        bind("↑/k", "up", "up", "k"),
		Down:      bind("↓/j", "down", "down", "j"),
		Open:      bind("enter", "open", "enter"),
		NewSearch: bind("n", "new search", "n", "/"),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap; one column per view area.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Mode, k.NewSearch},
		{k.Up, k.Down, k.Open},
		{k.Back, k.Help, k.Quit},
	}
}

// InputHelp is shown while the query has focus.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Search, k.Mode, k.Back}
}

// ResultsHelp is shown while the list has focus.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.NewSearch, k.Quit}
}

// Matches reports whether pressed is one of binding's keys.
func Matches(pressed string, binding key.Binding) bool {
	return binding.Enabled() && slices.Contains(binding.Keys(), pressed)
}
