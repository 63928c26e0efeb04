// Package styles provides the colour theme and styles for the browse TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the browser's colour palette.
type Theme struct {
	Accent  lipgloss.Color // titles, selection
	Badge   lipgloss.Color // tag badges, subtitles
	Surface lipgloss.Color // badge text, status bar text
	Text    lipgloss.Color
	Subtle  lipgloss.Color // hints, labels, secondary text
	Danger  lipgloss.Color
	Rule    lipgloss.Color // borders, status bar background
}

// DefaultTheme returns the teal and amber palette on stone.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#0EA5A4"),
		Badge:   lipgloss.Color("#F59E0B"),
		Surface: lipgloss.Color("#1C1917"),
		Text:    lipgloss.Color("#E7E5E4"),
		Subtle:  lipgloss.Color("#78716C"),
		Danger:  lipgloss.Color("#F87171"),
		Rule:    lipgloss.Color("#44403C"),
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the search box.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Rule colours table borders. It carries no border of its own, so
	// it can be handed to a table as the border style.
	Rule lipgloss.Style

	// Tag renders one tag badge.
	Tag lipgloss.Style

	// Label is the fixed-width field name column of the family view.
	Label lipgloss.Style
}

// NewStyles derives styles from theme; nil means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Text)
	subtle := lipgloss.NewStyle().Foreground(theme.Subtle)
	frame := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Rule)

	return &Styles{
		theme:      theme,
		Title:      lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle:   lipgloss.NewStyle().Bold(true).Foreground(theme.Badge),
		Normal:     text,
		Muted:      subtle,
		Selected:   text.Bold(true).Background(theme.Accent),
		Error:      lipgloss.NewStyle().Foreground(theme.Danger),
		Help:       subtle,
		InputField: frame.Padding(0, 1),
		StatusBar:  subtle.Background(theme.Rule).Padding(0, 1),
		Rule:       lipgloss.NewStyle().Foreground(theme.Rule),
		Tag:        lipgloss.NewStyle().Foreground(theme.Surface).Background(theme.Badge).Padding(0, 1),
		Label:      subtle.Bold(true).Width(14),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Tags renders tags as a row of badges.
func (s *Styles) Tags(tags []string) string {
	badges := make([]string, 0, len(tags))
	for _, t := range tags {
		badges = append(badges, s.Tag.Render(t))
	}
	return strings.Join(badges, " ")
}
