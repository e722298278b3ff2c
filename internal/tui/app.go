package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/wardrobe/internal/search"
	"github.com/mmcdole/wardrobe/internal/session"
	"github.com/mmcdole/wardrobe/internal/tui/styles"
)

// ChromeHeight is the number of lines around the browser:
// header, blank, status, footer and the tab line pair.
const ChromeHeight = 6

// Details is modal content describing one master data entry
type Details struct {
	Title string
	Lines []string
}

// ThemeFunc maps the dark-mode preference to a theme name
type ThemeFunc func(isDark bool) string

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	store       *session.Store
	search      *search.Service
	themeFor    ThemeFunc
	logger      *slog.Logger
	updates     chan session.State
	unsubscribe func()

	// Latest store snapshot
	State session.State

	// UI Components
	Styles  styles.Styles
	Browser Browser
	Spinner spinner.Model

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	StatusMsg   string
	StatusIsErr bool

	// The refresh that owns the loading spinner
	reloadGen    uint64
	pending      *session.Refresh
	doneStatus   string
	failureTitle string
}

// NewModel creates the application model and subscribes it to store
func NewModel(store *session.Store, searchSvc *search.Service, themeFor ThemeFunc, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if themeFor == nil {
		themeFor = func(bool) string { return styles.DefaultTheme }
	}

	updates := make(chan session.State, 1)
	unsubscribe := store.Subscribe(NewChannelObserver(updates))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:       store,
		search:      searchSvc,
		themeFor:    themeFor,
		logger:      logger,
		updates:     updates,
		unsubscribe: unsubscribe,
		Browser:     NewBrowser(),
		Spinner:     sp,
	}
	m.applyState(store.Snapshot())
	return m
}

// Close stops receiving store updates
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Track shows message until r finishes, as for the refresh started at
// login. A later reload takes the spinner over.
func (m Model) Track(r *session.Refresh, message string) Model {
	if r == nil {
		return m
	}
	m.reloadGen = r.Generation()
	m.pending = r
	m.doneStatus = "Signed in"
	m.failureTitle = "Sign-in refresh failed"
	m.store.ShowLoading(message)
	m.sync()
	return m
}

// Init starts listening to the store and the spinner
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenCmd(m.updates), m.Spinner.Tick}
	if m.pending != nil {
		cmds = append(cmds, waitRefreshCmd(m.pending))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Browser.SetHeight(m.Height - ChromeHeight)
		return m, nil

	case StateChangedMsg:
		m.applyState(msg.State)
		return m, listenCmd(m.updates)

	case RefreshDoneMsg:
		return m.handleRefreshDone(msg)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, clearStatusCmd()

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// applyState adopts s unless a newer state has already been applied
func (m *Model) applyState(s session.State) {
	if s.Version < m.State.Version {
		return
	}
	themeChanged := s.IsDark != m.State.IsDark || m.Styles.Theme == ""
	dataChanged := s.MasterData != m.State.MasterData || s.Version == 0

	m.State = s
	if themeChanged {
		m.Styles = styles.For(m.themeFor(s.IsDark))
	}
	if dataChanged {
		m.Browser.SetMasterData(s.MasterData)
	}
	m.Spinner.Style = m.Styles.Spinner
}

// sync pulls the store state after a local action
func (m *Model) sync() {
	m.applyState(m.store.Snapshot())
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The modal swallows everything but dismissal
	if m.State.ModalVisible {
		if key.Matches(msg, Keys.Escape, Keys.Enter) || msg.String() == "q" {
			m.store.CloseModal()
			m.sync()
		}
		return m, nil
	}

	if m.Browser.Filtering() {
		var cmd tea.Cmd
		m.Browser, cmd = m.Browser.UpdateFilter(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.ToggleDark):
		m.store.SetDarkMode(!m.store.IsDark())
		m.sync()
		return m, nil

	case key.Matches(msg, Keys.Reload):
		return m.reload()

	case key.Matches(msg, Keys.Logout):
		m.store.Logout()
		m.sync()
		return m, m.status("Logged out", false)

	case key.Matches(msg, Keys.Filter):
		return m, m.Browser.StartFilter()

	case key.Matches(msg, Keys.Escape):
		m.Browser.ClearFilter()
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.Browser.MoveUp()
	case key.Matches(msg, Keys.Down):
		m.Browser.MoveDown()
	case key.Matches(msg, Keys.NextTab):
		m.Browser.NextSection()
	case key.Matches(msg, Keys.PrevTab):
		m.Browser.PrevSection()

	case key.Matches(msg, Keys.Enter):
		if e, ok := m.Browser.Selected(); ok {
			m.store.OpenModal(m.details(e))
			m.sync()
		}
	}

	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	r := m.store.Reload()
	if r == nil {
		return m, m.status("Not signed in", true)
	}
	m.reloadGen = r.Generation()
	m.pending = nil
	m.doneStatus = "Session reloaded"
	m.failureTitle = "Reload failed"
	m.store.ShowLoading("Reloading profile and master data...")
	m.sync()
	return m, waitRefreshCmd(r)
}

func (m Model) handleRefreshDone(msg RefreshDoneMsg) (tea.Model, tea.Cmd) {
	// A newer reload or login owns the spinner
	if msg.Generation != m.reloadGen {
		return m, nil
	}
	m.pending = nil
	m.store.HideLoading()
	m.sync()

	if msg.Err != nil {
		m.logger.Warn("session refresh failed", "error", msg.Err)
		m.store.OpenModal(Details{Title: m.failureTitle, Lines: strings.Split(msg.Err.Error(), "\n")})
		m.sync()
		return m, nil
	}
	return m, m.status(m.doneStatus, false)
}

func (m *Model) status(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return clearStatusCmd()
}

// details builds the modal content for an entry
func (m Model) details(e Entry) Details {
	d := Details{Title: e.Name}
	switch e.Section {
	case SectionCategories:
		if m.search != nil {
			if path, ok := m.search.CategoryPath(e.ID); ok {
				d.Lines = append(d.Lines, "Path: "+path)
			}
			if e.Depth == 0 {
				subs := m.search.Subcategories(e.ID)
				names := make([]string, len(subs))
				for i, c := range subs {
					names[i] = c.Name
				}
				d.Lines = append(d.Lines, fmt.Sprintf("Subcategories (%d): %s", len(subs), strings.Join(names, ", ")))
			}
		}
	case SectionColors:
		if e.Detail != "" {
			d.Lines = append(d.Lines, "Hex: "+e.Detail)
		}
	case SectionOccasions:
		if o, ok := m.State.MasterData.Occasion(e.ID); ok && o.Image != "" {
			d.Lines = append(d.Lines, "Image: "+o.Image)
		}
	}
	d.Lines = append(d.Lines, fmt.Sprintf("%s #%d", e.Section, e.ID))
	return d
}
