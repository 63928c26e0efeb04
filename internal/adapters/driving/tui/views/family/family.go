// Package family provides the family detail view of the browse TUI.
package family

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/famlink/internal/core/domain"
)

// View shows one family and its parameters.
type View struct {
	styles  *styles.Styles
	family  *domain.FamilyMetadata
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates an empty detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.FamilyLoaded:
		v.loading = false
		v.family = msg.Family
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "h":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// SetLoading clears the view while a family is fetched.
func (v *View) SetLoading() {
	v.loading = true
	v.family = nil
	v.err = nil
}

// Family returns the family on display, or nil.
func (v *View) Family() *domain.FamilyMetadata {
	return v.family
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// View renders the family.
func (v *View) View() string {
	footer := v.styles.Help.Render("esc: back | q: quit")

	switch {
	case v.loading:
		return v.styles.Muted.Render("Loading...")
	case v.err != nil:
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Error.Render("Error: "+v.err.Error()), "", footer)
	case v.family == nil:
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Muted.Render("No family selected"), "", footer)
	}

	f := v.family
	sections := []string{
		v.styles.Title.Render(f.Name) + "  " + v.styles.Muted.Render(f.ID),
		"",
		v.field("Category", f.Category),
	}
	if tags := f.Tags.Slice(); len(tags) > 0 {
		sections = append(sections, v.styles.Label.Render("Tags")+v.styles.Tags(tags))
	}
	if f.Description != "" {
		sections = append(sections, v.field("Description", f.Description))
	}
	if f.CreatedBy != "" {
		sections = append(sections, v.field("Created by", f.CreatedBy))
	}
	if !f.LastModified.IsZero() {
		sections = append(sections, v.field("Modified", f.LastModified.Format("2006-01-02 15:04")))
	}
	if f.PreviewImagePath != "" {
		sections = append(sections, v.field("Preview", f.PreviewImagePath))
	}

	sections = append(sections, "", v.styles.Subtitle.Render("Parameters"))
	if len(f.Parameters) == 0 {
		sections = append(sections, v.styles.Muted.Render("No parameters"))
	} else {
		sections = append(sections, v.parameterTable(f))
	}

	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) field(label, value string) string {
	return v.styles.Label.Render(label) + v.styles.Normal.Render(value)
}

func (v *View) parameterTable(f *domain.FamilyMetadata) string {
	header := v.styles.Subtitle.Padding(0, 1)
	cell := v.styles.Normal.Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(v.styles.Rule).
		Headers("Name", "Type", "Unit", "Required", "Default").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, name := range f.ParameterNames() {
		p := f.Parameters[name]
		required := ""
		if p.Required {
			required = "yes"
		}
		t.Row(p.Name, p.Type, p.Unit, required, domain.FormatParameterValue(p.DefaultValue))
	}

	return strings.TrimRight(t.String(), "\n")
}
