package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"sonar/internal/config"
	"sonar/internal/domain"
	"sonar/internal/eventbus"
	"sonar/internal/history"
	"sonar/internal/ui/input"
	inputtypes "sonar/internal/ui/input/types"
	"sonar/internal/ui/state"
	"sonar/internal/ui/views"
)

// SearchCanceler aborts the in-flight backend request, if any.
type SearchCanceler interface {
	CancelActive()
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state

	// UI-specific state not in AppState
	width  int
	height int
	seq    int64  // submission counter, newer submissions win
	body   string // result body rendered at the current width

	inPagerMode bool // tracks if we're currently in pager mode

	// Components
	renderer     *views.Renderer    // view renderer
	inputHandler *input.Handler     // input handling
	bubbles      *views.BubbleField // idle animation
	pager        *Pager             // external pager for long answers
	browser      *Browser           // source link opener
	historyStore *history.Store     // nil when history is disabled
	search       SearchCanceler     // cancels the active request

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, store *history.Store, search SearchCanceler) *Model {
	appState := state.NewAppState(cfg.Search.DefaultK)
	appState.ShowDiagnostics = cfg.UI.Diagnostics

	return &Model{
		bus:          bus,
		config:       cfg,
		state:        appState,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		bubbles:      views.NewBubbleField(cfg.UI.BubbleCount, cfg.UI.Animation),
		pager:        NewPager(),
		browser:      NewBrowser(),
		historyStore: store,
		search:       search,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command. The query form starts focused, so
// the cursor blinks from the first frame.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bubbles.Resize(m.width-4, m.animationRows())
		m.rebuildBody()
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		// The help popup swallows keys until dismissed
		if m.state.ShowHelp {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "?", "q":
				m.state.ShowHelp = false
			}
			return m, nil
		}

		ctx := &input.ModelContext{State: m.state}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}

		m.syncOverlayState()
		return m, tea.Batch(cmds...)

	default:
		// Handle non-keyboard messages
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Printf("processAction: %T", action)
	switch a := action.(type) {
	case inputtypes.UpdateQueryAction:
		m.state.Query = a.Text

	case inputtypes.SubmitAction:
		return m.submit(a.Query, a.K)

	case inputtypes.AdjustKAction:
		m.state.AdjustK(a.Delta)

	case inputtypes.CancelSearchAction:
		if m.state.Searching && m.search != nil {
			m.search.CancelActive()
		}

	case inputtypes.CopyAnswerAction:
		// Without an answer there is nothing to copy and no feedback to give
		if !m.state.HasAnswer() {
			return nil
		}
		answer := m.state.Result.Response.Answer
		return func() tea.Msg {
			return copyDoneMsg{err: clipboard.WriteAll(answer)}
		}

	case inputtypes.OpenPagerAction:
		if !m.state.HasAnswer() || m.program == nil {
			return nil
		}
		return m.showResultPager(m.pagerContent())

	case inputtypes.OpenSourceAction:
		return m.openSource(a.Index)

	case inputtypes.ScrollAction:
		m.scroll(a.Direction)

	case inputtypes.ToggleDiagnosticsAction:
		m.state.ShowDiagnostics = !m.state.ShowDiagnostics
		m.rebuildBody()
		m.clampScroll()

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.LoadHistoryAction:
		return m.loadHistory()

	case inputtypes.HistoryNavigateAction:
		m.state.MoveHistorySelection(a.Delta)

	case inputtypes.HistorySelectAction:
		return m.recallHistoryEntry()

	case inputtypes.ClearHistoryAction:
		m.bus.Publish(eventbus.HistoryClearRequestedEvent{})

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// submit starts a new search. Submitting while another request runs
// simply supersedes it: the search service cancels the old request and
// the id guard in AppState drops its late outcome.
func (m *Model) submit(query string, k int) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	id := uuid.NewString()
	m.seq++
	m.state.Query = query
	m.state.BeginSearch(id, query)
	m.state.StatusMessage = ""
	m.body = ""

	m.bus.Publish(eventbus.SearchRequestedEvent{
		ID:    id,
		Seq:   m.seq,
		Query: query,
		K:     domain.ClampK(k, m.config.Search.DefaultK),
	})
	return nil
}

// showResultPager hands the terminal to ov until the user quits it.
func (m *Model) showResultPager(content string) tea.Cmd {
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerClosedMsg{err: err}
	}
}

// pagerContent renders the answer as plain text; ov does its own wrapping.
func (m *Model) pagerContent() string {
	res := m.state.Result
	var sb strings.Builder
	sb.WriteString("❯ " + res.Response.Query + "\n\n")
	sb.WriteString(res.Response.Answer + "\n")
	if len(res.Response.Sources) > 0 {
		sb.WriteString("\nSources\n")
		for i, src := range res.Response.Sources {
			sb.WriteString(fmt.Sprintf("  [%d] %s\n      %s\n", i+1, src.Title, src.Link))
		}
	}
	return sb.String()
}

func (m *Model) openSource(index int) tea.Cmd {
	result := m.state.Result
	if result == nil || index < 0 || index >= len(result.Response.Sources) {
		return nil
	}
	link := result.Response.Sources[index].Link
	return func() tea.Msg {
		return sourceOpenedMsg{index: index, err: m.browser.Open(link)}
	}
}

// loadHistory refreshes the entries behind the history overlay.
func (m *Model) loadHistory() tea.Cmd {
	if m.historyStore == nil {
		m.state.HistoryEntries = nil
		m.state.HistoryIndex = 0
		m.state.StatusMessage = "history is disabled"
		return clearStatusLater()
	}

	entries, err := m.historyStore.Recent(m.config.History.Limit)
	if err != nil {
		log.Printf("UI: loading history failed: %v", err)
		m.state.StatusMessage = "could not load history"
		return clearStatusLater()
	}

	m.state.HistoryEntries = entries
	if m.state.HistoryIndex >= len(entries) {
		m.state.HistoryIndex = 0
	}
	return nil
}

// recallHistoryEntry shows a stored answer without a network round trip.
// A search still in flight is canceled; its late outcome is stale by then.
func (m *Model) recallHistoryEntry() tea.Cmd {
	entry := m.state.SelectedHistoryEntry()
	if entry == nil {
		return nil
	}

	if m.state.Searching && m.search != nil {
		m.search.CancelActive()
	}

	m.state.ShowStored(entry.Result())
	m.state.Query = entry.Query
	m.state.K = domain.ClampK(entry.K, m.config.Search.DefaultK)
	m.rebuildBody()
	m.state.StatusMessage = "recalled from history"
	return clearStatusLater()
}

// handleEvent applies a domain event to the UI state
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.SearchCompletedEvent:
		if !m.state.CompleteSearch(e.Result) {
			log.Printf("UI: dropping stale result %s", e.Result.ID)
			return nil
		}
		m.rebuildBody()
		m.state.StatusMessage = fmt.Sprintf("answered in %.1fs • %d sources",
			e.Result.Duration.Seconds(), len(e.Result.Response.Sources))
		return clearStatusLater()

	case eventbus.SearchFailedEvent:
		if e.Canceled {
			if m.state.CancelSearch(e.ID) {
				m.state.StatusMessage = "search canceled"
				return clearStatusLater()
			}
			return nil
		}
		if !m.state.FailSearch(e.ID, e.Message) {
			log.Printf("UI: dropping stale failure for %s", e.ID)
		}
		return nil

	case eventbus.HealthCheckedEvent:
		status := e.Status
		m.state.Health = &status
		return nil

	case eventbus.HistoryAppendedEvent:
		// Keep an open overlay current
		if m.state.ShowHistory {
			return m.loadHistory()
		}
		return nil

	case eventbus.HistoryClearedEvent:
		m.state.HistoryEntries = nil
		m.state.HistoryIndex = 0
		m.state.StatusMessage = fmt.Sprintf("cleared %d searches", e.Removed)
		return clearStatusLater()

	case eventbus.ErrorEvent:
		m.state.StatusMessage = e.Message
		return clearStatusLater()
	}

	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case tickMsg:
		// Don't continue the tick loop while an external pager owns the screen
		if m.inPagerMode {
			return m, nil
		}
		if m.state.Result == nil {
			m.bubbles.Advance()
		}
		return m, tick()

	case copyDoneMsg:
		if msg.err != nil {
			log.Printf("UI: copy failed: %v", msg.err)
			m.state.StatusMessage = "copy failed; no clipboard available"
		} else {
			m.state.StatusMessage = "answer copied"
		}
		return m, clearStatusLater()

	case pagerClosedMsg:
		if msg.err != nil {
			log.Printf("UI: pager failed: %v", msg.err)
			m.state.StatusMessage = "could not open pager"
			return m, clearStatusLater()
		}
		// Pager succeeded, RestoreTerminal() should have restored the screen
		return m, nil

	case sourceOpenedMsg:
		if msg.err != nil {
			log.Printf("UI: opening source [%d] failed: %v", msg.index+1, msg.err)
			m.state.StatusMessage = fmt.Sprintf("could not open source [%d]", msg.index+1)
		} else {
			m.state.StatusMessage = fmt.Sprintf("opened source [%d]", msg.index+1)
		}
		return m, clearStatusLater()

	case pauseRenderingMsg:
		// Signal that rendering should be paused for the external pager
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		// RestoreTerminal() repaints the screen; the tick loop stopped
		// while paused, so restart it here
		m.inPagerMode = false
		return m, tick()

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	default:
		// Other messages are handled elsewhere
		return m, nil
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	mode := m.inputHandler.CurrentMode()

	vs := views.ViewState{
		Width:           m.width,
		Height:          m.height,
		Query:           m.state.Query,
		TextInput:       m.inputHandler.TextInput(),
		K:               m.state.K,
		Searching:       m.state.Searching,
		ActiveQuery:     m.state.ActiveQuery,
		Result:          m.state.Result,
		ErrorMessage:    m.state.ErrorMessage,
		ShowDiagnostics: m.state.ShowDiagnostics,
		ResultBody:      m.body,
		ScrollOffset:    m.state.ScrollOffset,
		BodyHeight:      m.bodyHeight(),
		Health:          m.state.Health,
		StatusMessage:   m.state.StatusMessage,
		ShowHelp:        m.state.ShowHelp,
		ShowHistory:     mode == inputtypes.ModeHistory || mode == inputtypes.ModeConfirmClear,
		History:         m.state.HistoryEntries,
		HistoryIndex:    m.state.HistoryIndex,
		ConfirmClear:    mode == inputtypes.ModeConfirmClear,
	}

	if m.state.Searching {
		vs.Elapsed = time.Since(m.state.SearchStarted)
	}
	if max := m.maxScroll(); max > 0 {
		vs.ScrollPercent = float64(m.state.ScrollOffset) / float64(max)
	}
	if m.state.Result == nil {
		vs.Bubbles = m.bubbleFrame()
	}

	return m.renderer.Render(vs)
}

// syncOverlayState mirrors the input mode into the state flags other
// components read
func (m *Model) syncOverlayState() {
	mode := m.inputHandler.CurrentMode()
	m.state.ShowHistory = mode == inputtypes.ModeHistory || mode == inputtypes.ModeConfirmClear
}

// rebuildBody re-renders the result at the current width
func (m *Model) rebuildBody() {
	if m.state.Result == nil {
		m.body = ""
		return
	}
	width := m.width - 4
	if width <= 0 {
		width = 76
	}
	m.body = m.renderer.ResultBody(m.state.Result, width, m.state.ShowDiagnostics)
}

// bubbleFrame renders the idle animation trimmed to the rows the body
// has right now. The bottom rows survive a trim since bubbles rise
// from the bottom edge.
func (m *Model) bubbleFrame() string {
	frame := m.bubbles.Render(m.renderer.Styles())
	if frame == "" {
		return ""
	}
	rows := m.bodyHeight() - 1 // hint line sits under the field
	lines := strings.Split(frame, "\n")
	if rows >= 1 && len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) scroll(direction string) {
	if m.state.Result == nil {
		return
	}
	page := m.bodyHeight()
	if page < 1 {
		page = 1
	}
	switch direction {
	case "up":
		m.state.ScrollOffset--
	case "down":
		m.state.ScrollOffset++
	case "pageup":
		m.state.ScrollOffset -= page
	case "pagedown":
		m.state.ScrollOffset += page
	case "top":
		m.state.ScrollOffset = 0
	case "bottom":
		m.state.ScrollOffset = m.maxScroll()
	}
	m.clampScroll()
}

func (m *Model) maxScroll() int {
	if m.body == "" {
		return 0
	}
	lines := strings.Count(m.body, "\n") + 1
	max := lines - m.bodyHeight()
	if max < 0 {
		max = 0
	}
	return max
}

func (m *Model) clampScroll() {
	if m.state.ScrollOffset < 0 {
		m.state.ScrollOffset = 0
	}
	if max := m.maxScroll(); m.state.ScrollOffset > max {
		m.state.ScrollOffset = max
	}
}

// bodyHeight returns the rows left for the body between the header
// block and the footer
func (m *Model) bodyHeight() int {
	// Container padding (2), title block (2), form block (2), footer
	// gap plus status and help lines (3)
	reserved := 9
	if m.state.ErrorMessage != "" {
		reserved += 2
	}
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	return h
}

// animationRows returns the canvas height for the bubble field
func (m *Model) animationRows() int {
	rows := m.bodyHeight() - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// clearStatusLater clears the status line a few seconds from now
func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
