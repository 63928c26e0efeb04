// Package search provides the search view of the browse TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/famlink/internal/core/domain"
	"github.com/custodia-labs/famlink/internal/core/ports/driving"
)

// View is the search input, the family list and the status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.FamilyList
	statusbar *status.Bar

	searchService driving.FamilySearchService
	maxResults    int
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true while typing, false while navigating results
}

// NewView creates a new search view. maxResults is passed with every
// query; zero leaves the limit to the service.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.FamilySearchService, maxResults int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewFamilyList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		maxResults:    maxResults,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		if f := v.list.SelectedFamily(); f != nil {
			id := f.ID
			return v, func() tea.Msg { return messages.FamilySelected{ID: id} }
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.NewSearch), msg.Type == tea.KeyEsc:
		v.focus()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateSearching)
		v.input.Blur()
		v.focusInput = false
		return v, v.performSearch(query, v.input.Mode())

	case tea.KeyTab:
		v.input.SetMode(v.input.Mode().Next())
		return v, nil

	case tea.KeyEsc:
		if v.list.Count() > 0 {
			v.input.Blur()
			v.focusInput = false
			v.statusbar.SetState(status.StateResults)
			return v, nil
		}
		return v, tea.Quit

	case tea.KeyCtrlC:
		return v, tea.Quit
	}

	v.statusbar.SetState(status.StateTyping)
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// performSearch runs query in the background and reports SearchCompleted.
func (v *View) performSearch(query string, mode messages.SearchMode) tea.Cmd {
	svc, ctx, limit := v.searchService, v.ctx, v.maxResults
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		var (
			families []domain.FamilyMetadata
			err      error
		)
		switch mode {
		case messages.ModeTags:
			families, err = svc.SearchByTags(ctx, strings.Fields(query), limit)
		default:
			families, err = svc.SearchByNaturalLanguage(ctx, query, limit)
		}
		return messages.SearchCompleted{Query: query, Mode: mode, Families: families, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focus()
		return
	}

	v.err = nil
	v.list.SetFamilies(msg.Families)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Families))
	v.statusbar.SetState(status.StateResults)
	if len(msg.Families) == 0 {
		v.focusInput = true
		v.input.Focus()
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) focus() {
	v.focusInput = true
	v.input.Focus()
	v.statusbar.SetState(status.StateTyping)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("famlink"), "", v.input.View(), "")
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input, status
	v.statusbar.SetWidth(width)
}

// SetStatus shows an informational message in the status bar.
func (v *View) SetStatus(message string) {
	v.statusbar.SetMessage(message)
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Mode returns the current search mode.
func (v *View) Mode() messages.SearchMode {
	return v.input.Mode()
}

// Families returns the current results.
func (v *View) Families() []domain.FamilyMetadata {
	return v.list.Families()
}

// SelectedFamily returns the highlighted family, or nil.
func (v *View) SelectedFamily() *domain.FamilyMetadata {
	return v.list.SelectedFamily()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
