// Package list provides the navigable family list for the browse TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/famlink/internal/core/domain"
)

// linesPerFamily is the height of one rendered entry.
const linesPerFamily = 2

// FamilyList displays families in a navigable list.
type FamilyList struct {
	families []domain.FamilyMetadata
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewFamilyList creates an empty list.
func NewFamilyList(s *styles.Styles) *FamilyList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &FamilyList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *FamilyList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (l *FamilyList) Update(msg tea.Msg) (*FamilyList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of the list around the selection.
func (l *FamilyList) View() string {
	if len(l.families) == 0 {
		return l.styles.Muted.Render("No families")
	}

	lines := make([]string, 0, len(l.families)*linesPerFamily+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Families (%d)", len(l.families))), "")

	visible := max(1, (l.height-2)/linesPerFamily)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.families))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderFamily(i, &l.families[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *FamilyList) renderFamily(index int, f *domain.FamilyMetadata) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := truncate(f.Name, max(10, l.width-24))
	category := f.Category
	if category == "" {
		category = "-"
	}

	var title string
	if index == l.selected {
		title = l.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, name, category))
	} else {
		title = l.styles.Normal.Render(indicator+name+"  ") + l.styles.Muted.Render(category)
	}

	detail := fmt.Sprintf("%s · %d parameters", f.ID, len(f.Parameters))
	if tags := f.Tags.Slice(); len(tags) > 0 {
		detail += " · " + strings.Join(tags, ", ")
	}
	return title + "\n" + l.styles.Muted.Render("    "+truncate(detail, max(20, l.width-6)))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetFamilies replaces the list content and resets the selection.
func (l *FamilyList) SetFamilies(families []domain.FamilyMetadata) {
	l.families = families
	l.selected = 0
}

// Families returns the current families.
func (l *FamilyList) Families() []domain.FamilyMetadata {
	return l.families
}

// Selected returns the index of the selected family.
func (l *FamilyList) Selected() int {
	return l.selected
}

// SelectedFamily returns the selected family, or nil if the list is empty.
func (l *FamilyList) SelectedFamily() *domain.FamilyMetadata {
	if l.selected < 0 || l.selected >= len(l.families) {
		return nil
	}
	return &l.families[l.selected]
}

// MoveUp moves selection up.
func (l *FamilyList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *FamilyList) MoveDown() {
	if l.selected < len(l.families)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *FamilyList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of families.
func (l *FamilyList) Count() int {
	return len(l.families)
}
