package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"collegefinder/internal/browse"
	"collegefinder/internal/catalog"
	"collegefinder/internal/config"
	"collegefinder/internal/domain"
	"collegefinder/internal/eventbus"
	"collegefinder/internal/filter"
	"collegefinder/internal/location"
	"collegefinder/internal/ui/input"
	inputtypes "collegefinder/internal/ui/input/types"
	"collegefinder/internal/ui/views"
)

// detailTimeout bounds a single detail lookup
const detailTimeout = 15 * time.Second

// chromeLines is the screen height taken by everything except result rows
const chromeLines = 11

// DetailSource loads the full record behind a result row
type DetailSource interface {
	GetCollege(ctx context.Context, slug string) (domain.CollegeDetail, error)
}

// Pager shows long content outside the Bubble Tea screen
type Pager interface {
	Show(content string) error
}

// Model represents the UI state
type Model struct {
	ctrl    *browse.Controller
	loc     *location.Location
	details DetailSource
	bus     eventbus.EventBus
	config  *config.Config
	log     *zap.Logger

	width   int
	height  int
	help    help.Model
	keys    keyMap
	spinner spinner.Model

	spinning    bool
	inPagerMode bool // tracks if we're currently in pager mode
	quitSaved   bool // quit published the last query

	selectedIndex   int
	viewportOffset  int
	viewportHeight  int
	suggestionIndex int

	panelTab    filter.Category
	panelCursor int
	sortIndex   int
	links       []catalog.Link
	linkIndex   int

	statusMessage string
	statusIsError bool
	statusID      int
	popup         string

	renderer     *views.Renderer
	detail       *views.DetailRenderer
	helpRender   *HelpRenderer
	inputHandler *input.Handler
	pager        Pager
	copyText     func(string) error
}

// NewModel creates a new UI model
func NewModel(ctrl *browse.Controller, loc *location.Location, details DetailSource, bus eventbus.EventBus, cfg *config.Config, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctrl:            ctrl,
		loc:             loc,
		details:         details,
		bus:             bus,
		config:          cfg,
		log:             log.Named("ui"),
		help:            help.New(),
		keys:            newKeyMap(),
		spinner:         sp,
		viewportHeight:  browse.DefaultPageSize,
		suggestionIndex: -1,
		panelTab:        filter.CategoryState,
		links:           ctrl.Catalog().WithLinks(cfg.Links).Links,
		renderer:        views.NewRenderer(),
		detail:          views.NewDetailRenderer(""),
		helpRender:      NewHelpRenderer(),
		inputHandler:    input.New(),
		copyText:        clipboard.WriteAll,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager = NewPagerOps(p)
}

// SavedOnQuit reports whether quitting asked for the last query to be saved
func (m *Model) SavedOnQuit() bool {
	return m.quitSaved
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	m.spinning = true
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if m.popup != "" {
			return m, m.handlePopupKey(msg)
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

func (m *Model) handlePopupKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q", "enter", "?":
		m.popup = ""
	}
	return nil
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case spinner.TickMsg:
		// Don't continue tick loop if we're in pager mode or idle
		if m.inPagerMode || !m.ctrl.Snapshot().Results.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detailMsg:
		if msg.err != nil {
			m.log.Warn("detail fetch failed", zap.String("slug", msg.slug), zap.Error(msg.err))
			return m, m.setStatus(fmt.Sprintf("Could not load %s: %v", msg.slug, msg.err), true)
		}
		content, err := m.detail.Render(msg.detail, m.width)
		if err != nil {
			m.log.Warn("detail render failed", zap.Error(err))
			content = m.detail.Markdown(msg.detail)
		}
		return m, m.showLong(content)

	case pagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			// Pager failed, fall back to popup
			m.log.Info("pager failed, falling back to popup", zap.Error(msg.err))
			m.popup = msg.content
		}
		if m.ctrl.Snapshot().Results.Loading && !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.FilterChangedEvent:
		m.selectedIndex = 0
		m.viewportOffset = 0
		m.clampPanelCursor()

	case eventbus.ResultsUpdatedEvent:
		m.clampSelection()
		if e.Loading && !m.spinning && !m.inPagerMode {
			m.spinning = true
			return m.spinner.Tick
		}

	case eventbus.SuggestionsUpdatedEvent:
		if m.suggestionIndex >= e.Count {
			m.suggestionIndex = -1
		}

	case eventbus.FetchFailedEvent:
		if errors.Is(e.Err, context.Canceled) {
			return nil
		}
		return m.setStatus(fmt.Sprintf("%s failed: %v", e.Op, e.Err), true)
	}
	return nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.PageAction:
		page := m.ctrl.Snapshot().Page
		if a.Delta > 0 && page.Page >= max(page.TotalPages, 1) {
			if page.HasMoreResults {
				return m.setStatus("Refine your filters to see more results", false)
			}
			return nil
		}
		m.ctrl.UpdatePage(func(prev int) int { return prev + a.Delta })
		m.selectedIndex = 0
		m.viewportOffset = 0

	case inputtypes.HistoryAction:
		var moved bool
		if a.Forward {
			moved = m.loc.Forward()
		} else {
			moved = m.loc.Back()
		}
		if !moved {
			return m.setStatus("No more history", false)
		}

	case inputtypes.UpdateTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			m.suggestionIndex = -1
			m.ctrl.Type(a.Text)
		case inputtypes.ModeOptionSearch:
			m.ctrl.SetOptionSearch(m.panelTab, a.Text)
			m.panelCursor = 0
		}

	case inputtypes.SubmitTextAction:
		return m.submitText(a)

	case inputtypes.CancelTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			m.suggestionIndex = -1
			m.ctrl.HideSuggestions()
		case inputtypes.ModeOptionSearch:
			m.ctrl.SetOptionSearch(m.panelTab, "")
			m.panelCursor = 0
		}

	case inputtypes.SuggestionNavigateAction:
		n := len(m.ctrl.Snapshot().Suggestions.Suggestions)
		if n == 0 {
			m.suggestionIndex = -1
			return nil
		}
		if a.Direction == "up" {
			m.suggestionIndex--
			if m.suggestionIndex < -1 {
				m.suggestionIndex = n - 1
			}
		} else {
			m.suggestionIndex++
			if m.suggestionIndex >= n {
				m.suggestionIndex = -1
			}
		}

	case inputtypes.HideSuggestionsAction:
		m.suggestionIndex = -1
		m.ctrl.HideSuggestions()

	case inputtypes.PanelTabAction:
		cats := filter.PanelCategories()
		i := max(slices.Index(cats, m.panelTab), 0)
		m.panelTab = cats[(i+a.Delta+len(cats))%len(cats)]
		m.panelCursor = 0

	case inputtypes.ToggleOptionAction:
		opts := m.ctrl.Options(m.panelTab)
		if m.panelCursor < 0 || m.panelCursor >= len(opts) {
			return nil
		}
		m.ctrl.ToggleArrayFilter(m.panelTab, opts[m.panelCursor])

	case inputtypes.ResetFiltersAction:
		m.ctrl.ResetAll()
		return m.setStatus("Filters cleared", false)

	case inputtypes.OpenDetailAction:
		colleges := m.ctrl.Snapshot().Results.Colleges
		if m.selectedIndex < 0 || m.selectedIndex >= len(colleges) {
			return nil
		}
		return m.fetchDetail(colleges[m.selectedIndex].Slug)

	case inputtypes.RefreshAction:
		m.ctrl.Refresh()

	case inputtypes.CopyLinkAction:
		link := m.loc.Link(m.config.UI.SiteURL)
		if err := m.copyText(link); err != nil {
			m.log.Debug("clipboard unavailable", zap.Error(err))
			return m.setStatus("Link: "+link, false)
		}
		return m.setStatus("Copied "+link, false)

	case inputtypes.OpenQuickLinkAction:
		i := a.Index
		if i < 0 {
			i = m.linkIndex
		}
		if i >= len(m.links) {
			return nil
		}
		if err := m.loc.Open(m.links[i].Query); err != nil {
			return m.setStatus(fmt.Sprintf("Bad link %q: %v", m.links[i].Title, err), true)
		}
		return m.setStatus(m.links[i].Title, false)

	case inputtypes.ToggleHelpAction:
		return m.showLong(m.helpRender.RenderHelpContentPlain())

	case inputtypes.QuitAction:
		if !a.Force && m.bus != nil {
			m.bus.Publish(eventbus.ConfigChangedEvent{LastQuery: m.loc.Current()})
			m.quitSaved = true
		}
		return tea.Quit

	case inputtypes.SortByAction:
		if m.ctrl.Filters().Sort != a.Sort {
			m.ctrl.SetFilter(filter.SetSort(a.Sort))
		}

	case inputtypes.UpdateSortIndexAction:
		m.sortIndex = a.Index
	}
	return nil
}

func (m *Model) submitText(a inputtypes.SubmitTextAction) tea.Cmd {
	switch a.Mode {
	case inputtypes.ModeSearch:
		snap := m.ctrl.Snapshot()
		i := m.suggestionIndex
		m.suggestionIndex = -1
		if snap.Suggestions.Visible && i >= 0 && i < len(snap.Suggestions.Suggestions) {
			m.ctrl.HideSuggestions()
			return m.fetchDetail(snap.Suggestions.Suggestions[i].Slug)
		}
		m.ctrl.CommitSearch(a.Text)

	case inputtypes.ModeOpenLink:
		if err := m.loc.Open(a.Text); err != nil {
			return m.setStatus(fmt.Sprintf("Cannot open link: %v", err), true)
		}
	}
	return nil
}

func (m *Model) navigate(direction string) {
	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeFilter:
		m.panelCursor = step(m.panelCursor, direction, len(m.ctrl.Options(m.panelTab)), m.viewportHeight)
	case inputtypes.ModeLinks:
		m.linkIndex = step(m.linkIndex, direction, len(m.links), m.viewportHeight)
	default:
		m.selectedIndex = step(m.selectedIndex, direction, m.TotalItems(), m.viewportHeight)
		m.ensureSelectedVisible()
	}
}

// step moves an index through n items
func step(i int, direction string, n, pageSize int) int {
	if n == 0 {
		return 0
	}
	switch direction {
	case "up":
		i--
	case "down":
		i++
	case "pageup":
		i -= max(pageSize-1, 1)
	case "pagedown":
		i += max(pageSize-1, 1)
	case "home":
		i = 0
	case "end":
		i = n - 1
	}
	return min(max(i, 0), n-1)
}

// ensureSelectedVisible ensures the selected item is visible in the viewport
func (m *Model) ensureSelectedVisible() {
	if m.selectedIndex < m.viewportOffset {
		m.viewportOffset = m.selectedIndex
	} else if m.selectedIndex >= m.viewportOffset+m.viewportHeight {
		m.viewportOffset = m.selectedIndex - m.viewportHeight + 1
	}
	if m.viewportOffset < 0 {
		m.viewportOffset = 0
	}
}

func (m *Model) clampSelection() {
	n := m.TotalItems()
	if m.selectedIndex >= n {
		m.selectedIndex = max(n-1, 0)
	}
	m.ensureSelectedVisible()
}

func (m *Model) clampPanelCursor() {
	if n := len(m.ctrl.Options(m.panelTab)); m.panelCursor >= n {
		m.panelCursor = max(n-1, 0)
	}
}

func (m *Model) updateViewportHeight() {
	// each college takes two lines
	m.viewportHeight = max((m.height-chromeLines)/2, 1)
	m.ensureSelectedVisible()
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.statusID++
	m.statusMessage = msg
	m.statusIsError = isError
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

// fetchDetail returns a command that loads one college
func (m *Model) fetchDetail(slug string) tea.Cmd {
	details := m.details
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailTimeout)
		defer cancel()
		d, err := details.GetCollege(ctx, slug)
		return detailMsg{slug: slug, detail: d, err: err}
	}
}

// showLong opens content in the pager, or a popup when there is none
func (m *Model) showLong(content string) tea.Cmd {
	if m.pager == nil {
		m.popup = content
		return nil
	}
	m.inPagerMode = true
	pager := m.pager
	return func() tea.Msg {
		return pagerMsg{content: content, err: pager.Show(content)}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	snap := m.ctrl.Snapshot()
	mode := m.inputHandler.CurrentMode()
	m.keys.mode = mode

	state := views.ViewState{
		Width:           m.width,
		Height:          m.height,
		Browse:          snap,
		PageSize:        m.config.Browse.PageSize,
		Link:            location.LinkFor(m.config.UI.SiteURL, snap.Query),
		Mode:            mode,
		Prompt:          m.inputHandler.Prompt(),
		SuggestionIndex: m.suggestionIndex,
		SelectedIndex:   m.selectedIndex,
		ViewportOffset:  m.viewportOffset,
		ViewportHeight:  m.viewportHeight,
		SortIndex:       m.sortIndex,
		Links:           m.links,
		LinkIndex:       m.linkIndex,
		Spinner:         m.spinner.View(),
		StatusMessage:   m.statusMessage,
		StatusIsError:   m.statusIsError,
		HelpView:        m.help.View(m.keys),
		Popup:           m.popup,
		Panel: views.PanelState{
			Active:       m.panelTab,
			Filters:      snap.Filters,
			Options:      m.ctrl.Options(m.panelTab),
			Cursor:       m.panelCursor,
			OptionSearch: snap.OptionSearch[m.panelTab],
			Searching:    mode == inputtypes.ModeOptionSearch,
			Height:       max(m.height-chromeLines, 3),
		},
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputView = ti.View()
		state.Panel.InputView = state.InputView
	}

	return m.renderer.Render(state)
}

// The methods below implement inputtypes.Context

func (m *Model) CurrentIndex() int {
	return m.selectedIndex
}

func (m *Model) TotalItems() int {
	return len(m.ctrl.Snapshot().Results.Colleges)
}

func (m *Model) SuggestionsVisible() bool {
	s := m.ctrl.Snapshot().Suggestions
	return s.Visible && len(s.Suggestions) > 0
}

func (m *Model) CurrentSort() filter.Sort {
	return m.ctrl.Filters().Sort
}

func (m *Model) SearchText() string {
	return m.ctrl.Snapshot().Suggestions.Query
}

func (m *Model) OptionSearch() string {
	return m.ctrl.Snapshot().OptionSearch[m.panelTab]
}

func (m *Model) PanelCategory() filter.Category {
	return m.panelTab
}
