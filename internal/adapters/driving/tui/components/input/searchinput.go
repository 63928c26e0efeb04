// Package input is the query line of the browser.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/styles"
)

const (
	maxQueryLen = 256
	minWidth    = 20
	labelWidth  = 12
)

var hints = map[messages.SearchMode]string{
	messages.ModeNatural: "Family name, e.g. door",
	messages.ModeTags:    "Tags separated by spaces, e.g. interior wood",
}

// SearchInput is a text input prefixed with the active search mode. Value,
// SetValue, Focus, Blur and Focused come from the embedded model.
type SearchInput struct {
	textinput.Model

	styles *styles.Styles
	mode   messages.SearchMode
}

// NewSearchInput returns a focused input in name mode.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	in := &SearchInput{Model: textinput.New(), styles: s}
	in.CharLimit = maxQueryLen
	in.Model.Width = 50
	in.SetMode(messages.ModeNatural)
	in.Focus()
	return in
}

func (s *SearchInput) Init() tea.Cmd { return textinput.Blink }

func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

func (s *SearchInput) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.styles.Title.Render(s.mode.String()+": "),
		s.styles.InputField.Render(s.Model.View()),
	)
}

// Mode is what the query is matched against.
func (s *SearchInput) Mode() messages.SearchMode { return s.mode }

// SetMode switches the mode and the placeholder that explains it.
func (s *SearchInput) SetMode(mode messages.SearchMode) {
	s.mode = mode
	s.Placeholder = hints[mode]
}

// SetWidth fits the field into width, leaving room for the label.
func (s *SearchInput) SetWidth(width int) {
	s.Model.Width = max(minWidth, width-labelWidth)
}
