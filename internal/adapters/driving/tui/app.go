package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/views/family"
	"github.com/custodia-labs/famlink/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/famlink/internal/core/domain"
)

// App is the browser's root model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	searchView *search.View
	familyView *family.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser over ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	h := help.New()
	h.ShowAll = true

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        h,
		searchView:  search.NewView(s, km, ports.Search, ports.MaxResults),
		familyView:  family.NewView(s),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// WithStatus shows message in the status bar until the first search.
func (a *App) WithStatus(message string) *App {
	a.searchView.SetStatus(message)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("famlink"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewFamily:
			a.familyView, cmd = a.familyView.Update(msg)
		case messages.ViewHelp:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			a.currentView = messages.ViewSearch
		default:
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.FamilySelected:
		a.currentView = messages.ViewFamily
		a.familyView.SetLoading()
		return a, a.loadFamily(msg.ID)

	case messages.FamilyLoaded:
		a.familyView, cmd = a.familyView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// loadFamily fetches id through the library port, falling back to the
// search result when no library is wired.
func (a *App) loadFamily(id string) tea.Cmd {
	lib, ctx := a.ports.Library, a.ctx
	var cached *domain.FamilyMetadata
	if f := a.searchView.SelectedFamily(); f != nil && f.ID == id {
		clone := f.Clone()
		cached = &clone
	}

	return func() tea.Msg {
		if lib == nil {
			if cached == nil {
				return messages.FamilyLoaded{Err: fmt.Errorf("family %q: %w", id, domain.ErrNotFound)}
			}
			return messages.FamilyLoaded{Family: cached}
		}
		f, err := lib.Get(ctx, id)
		return messages.FamilyLoaded{Family: f, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewFamily:
		return a.familyView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.View(a.keymap) + "\n\n" +
		a.styles.Help.Render("any key: back | q: quit")
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Families returns the current search results.
func (a *App) Families() []domain.FamilyMetadata {
	return a.searchView.Families()
}

// SelectedFamily returns the family on the detail view, or nil.
func (a *App) SelectedFamily() *domain.FamilyMetadata {
	return a.familyView.Family()
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.searchView.SetDimensions(width, height)
	a.familyView.SetDimensions(width, height)
}
