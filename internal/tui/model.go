package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/logging"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/restcountries"
)

// ViewState is the browser's top-level mode.
type ViewState int

const (
	// ViewStateLoading shows the spinner until the first load completes.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the table.
	ViewStateList
	// ViewStateDetail shows the detail overlay for the selected country.
	ViewStateDetail
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
)

// statusDuration is how long transient status messages stay visible.
const statusDuration = 3 * time.Second

// countriesLoadedMsg carries the result of one load. generation identifies
// the load that produced it so superseded results can be dropped.
type countriesLoadedMsg struct {
	generation uint64
	countries  []country.Country
	err        error
}

// statusClearMsg clears the status line if no newer status replaced it.
type statusClearMsg struct {
	seq int
}

// BrowserOption configures a BrowserModel.
type BrowserOption func(*BrowserModel)

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(write func(string) error) BrowserOption {
	return func(m *BrowserModel) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) BrowserOption {
	return func(m *BrowserModel) {
		m.keys = keys
	}
}

// BrowserModel is the Bubble Tea model for the interactive country table.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	// View state
	state  ViewState
	view   query.State
	result query.Result
	engine *query.Engine
	ctx    context.Context

	// Loading
	fetch      restcountries.Fetcher
	fetchCmd   tea.Cmd
	generation uint64
	cancelLoad context.CancelFunc
	reloading  bool
	loading    *LoadingState

	// Interactive components
	table      table.Model
	textInput  textinput.Model
	paginator  paginator.Model
	help       help.Model
	keys       KeyMap
	showFilter bool

	// Scroll position within the current page. The table only ever holds
	// the visible window of rows, so screen lines map directly to rows.
	cursor int
	offset int

	// Display configuration
	width  int
	height int

	// Transient status line
	status    string
	statusSeq int

	copyText func(string) error
}

// NewBrowserModel returns a model that loads countries with fetch and shows
// them starting from initial. Cancelling ctx aborts any in-flight load.
func NewBrowserModel(
	ctx context.Context,
	engine *query.Engine,
	fetch restcountries.Fetcher,
	initial query.State,
	opts ...BrowserOption,
) BrowserModel {
	m := BrowserModel{
		state:     ViewStateLoading,
		view:      initial,
		engine:    engine,
		ctx:       ctx,
		fetch:     fetch,
		loading:   NewLoadingState(),
		textInput: newSearchInput(),
		paginator: newPaginator(),
		help:      help.New(),
		keys:      DefaultKeyMap(),
		width:     defaultWidth,
		height:    defaultHeight,
		copyText:  clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.textInput.SetValue(initial.Search)
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(minHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = TableHeaderStyle
	styles.Selected = TableSelectedStyle
	m.table.SetStyles(styles)

	m.fetchCmd = m.startLoad()
	m.refresh()
	return m
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search official names..."
	ti.Prompt = ""
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

func newPaginator() paginator.Model {
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = query.DefaultRowsPerPage
	p.SetTotalPages(1)
	return p
}

// fetchCountries runs fetch in Bubble Tea's command goroutine.
func fetchCountries(ctx context.Context, generation uint64, fetch restcountries.Fetcher) tea.Cmd {
	return func() tea.Msg {
		countries, err := fetch(ctx)
		return countriesLoadedMsg{generation: generation, countries: countries, err: err}
	}
}

// Init starts the spinner and the first load.
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchCmd)
}

// Update handles messages and updates the model state.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil
	case countriesLoadedMsg:
		return m.handleLoaded(msg)
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	case spinner.TickMsg:
		if m.state == ViewStateLoading || m.reloading {
			return m, m.loading.Update(msg)
		}
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m BrowserModel) handleLoaded(msg countriesLoadedMsg) (tea.Model, tea.Cmd) {
	log := logging.FromContext(m.ctx).With().
		Str("component", "tui").
		Uint64("generation", msg.generation).
		Logger()

	if msg.generation != m.generation {
		log.Debug().Uint64("current_generation", m.generation).Msg("dropping superseded load result")
		return m, nil
	}

	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.reloading = false
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}

	switch {
	case msg.err == nil:
		m.view = m.view.WithCountries(msg.countries, m.engine.Sorter())
		log.Info().Int("count", len(msg.countries)).Msg("countries loaded")
	case errors.Is(msg.err, context.Canceled):
		log.Debug().Msg("load cancelled")
	default:
		log.Error().Err(msg.err).Msg("loading countries failed")
		m.view = m.view.WithLoadError(msg.err)
	}

	m.refresh()
	return m, nil
}

func (m BrowserModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Quit) {
		return m.quit()
	}
	return m, nil
}

func (m BrowserModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.showFilter = false
			m.textInput.Blur()
			return m, nil
		case keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			m.applySearch()
			return m, nil
		case "ctrl+c":
			return m.quit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != m.view.Search {
		m.applySearch()
	}
	return m, cmd
}

//nolint:cyclop,funlen // One case per key binding.
func (m BrowserModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit()
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(keyMsg, m.keys.Top):
		m.moveCursor(-len(m.result.Rows))
		return m, nil
	case key.Matches(keyMsg, m.keys.Bottom):
		m.moveCursor(len(m.result.Rows))
		return m, nil
	case key.Matches(keyMsg, m.keys.Open):
		m.openSelected()
		return m, nil
	case key.Matches(keyMsg, m.keys.Search):
		m.showFilter = true
		return m, m.textInput.Focus()
	case key.Matches(keyMsg, m.keys.ClearOrEsc):
		if m.view.Search != "" {
			m.textInput.SetValue("")
			m.applySearch()
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.ToggleSort):
		m.sortBy(m.view.SortColumn)
		return m, nil
	case key.Matches(keyMsg, m.keys.NextColumn):
		m.sortBy(m.view.SortColumn.Next())
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevColumn):
		m.sortBy(m.view.SortColumn.Prev())
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevPage):
		m.view = m.view.PrevPage()
		m.refreshAtTop()
		return m, nil
	case key.Matches(keyMsg, m.keys.NextPage):
		m.view = m.view.NextPage(m.result.TotalPages)
		m.refreshAtTop()
		return m, nil
	case key.Matches(keyMsg, m.keys.PageSize):
		m.view = m.view.CycleRowsPerPage()
		m.refreshAtTop()
		return m, nil
	case key.Matches(keyMsg, m.keys.Reload):
		return m, m.reload()
	case key.Matches(keyMsg, m.keys.Copy):
		if record, found := m.cursorRecord(); found {
			return m, m.copyName(record)
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

func (m BrowserModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case keyMsg.String() == "ctrl+c":
		return m.quit()
	case key.Matches(keyMsg, m.keys.Copy):
		if m.view.Selected != nil {
			return m, m.copyName(*m.view.Selected)
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Close):
		m.closeDetail()
		return m, nil
	}
	return m, nil
}

// handleMouse opens the row under a left click in the list, scrolls with the
// wheel, and treats any click while the overlay is open as a click on the
// backdrop.
func (m BrowserModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showFilter {
		return m, nil
	}
	switch m.state {
	case ViewStateDetail:
		if msg.Action == tea.MouseActionRelease {
			m.closeDetail()
		}
	case ViewStateList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case msg.Button == tea.MouseButtonWheelDown:
			m.moveCursor(1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
			if row, ok := m.rowAt(msg.Y); ok {
				m.cursor = row
				m.syncTable()
				m.openSelected()
			}
		}
	case ViewStateLoading, ViewStateQuitting:
	}
	return m, nil
}

// tableBodyTop is the screen line of the first table row: title, search
// and the two header lines come first.
const tableBodyTop = 4

// rowAt maps a screen line to a row index on the current page.
func (m BrowserModel) rowAt(y int) (int, bool) {
	line := y - tableBodyTop
	visible := min(m.bodyHeight(), len(m.result.Rows)-m.offset)
	if line < 0 || line >= visible {
		return 0, false
	}
	return m.offset + line, true
}

func (m BrowserModel) quit() (tea.Model, tea.Cmd) {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.state = ViewStateQuitting
	return m, tea.Quit
}

// startLoad cancels any in-flight load and returns the command for a new one.
func (m *BrowserModel) startLoad() tea.Cmd {
	if m.cancelLoad != nil {
		m.cancelLoad()
	}
	m.generation++
	loadCtx, cancel := context.WithCancel(m.ctx)
	m.cancelLoad = cancel
	return fetchCountries(loadCtx, m.generation, m.fetch)
}

func (m *BrowserModel) reload() tea.Cmd {
	logging.FromContext(m.ctx).Debug().
		Str("component", "tui").
		Uint64("generation", m.generation+1).
		Msg("reloading countries")

	cmds := []tea.Cmd{m.startLoad()}
	if !m.reloading {
		cmds = append(cmds, m.loading.Init())
	}
	m.reloading = true
	return tea.Batch(cmds...)
}

func (m *BrowserModel) applySearch() {
	m.view = m.view.WithSearch(m.textInput.Value())
	m.refreshAtTop()
}

func (m *BrowserModel) sortBy(column query.Column) {
	view, err := m.view.SortBy(column, m.engine.Sorter())
	if err != nil {
		logging.FromContext(m.ctx).Debug().Str("component", "tui").Err(err).Msg("sort rejected")
		return
	}
	m.view = view
	m.refresh()
}

func (m *BrowserModel) openSelected() {
	record, ok := m.cursorRecord()
	if !ok {
		return
	}
	m.view = m.view.Open(record)
	m.state = ViewStateDetail
	m.table.Blur()
}

func (m *BrowserModel) closeDetail() {
	m.view = m.view.Close()
	m.state = ViewStateList
	m.table.Focus()
}

func (m BrowserModel) cursorRecord() (country.Country, bool) {
	i := m.cursor
	if i < 0 || i >= len(m.result.Rows) {
		return country.Country{}, false
	}
	return m.result.Rows[i], true
}

func (m *BrowserModel) copyName(record country.Country) tea.Cmd {
	if err := m.copyText(record.Name.Official); err != nil {
		return m.setStatus("Clipboard error: " + err.Error())
	}
	return m.setStatus("Copied: " + record.Name.Official)
}

// setStatus shows msg until statusDuration passes or another status replaces it.
func (m *BrowserModel) setStatus(msg string) tea.Cmd {
	m.statusSeq++
	m.status = msg
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// refresh recomputes the visible page and rebuilds the table from it.
func (m *BrowserModel) refresh() {
	m.result = m.engine.View(m.view)

	m.paginator.PerPage = m.result.RowsPerPage
	m.paginator.TotalPages = max(m.result.TotalPages, 1)
	m.paginator.Page = m.result.Page

	m.table.SetColumns(m.columns())
	m.table.SetWidth(m.width)
	m.syncTable()
}

// refreshAtTop refreshes and moves the cursor to the first row of the page.
func (m *BrowserModel) refreshAtTop() {
	m.cursor = 0
	m.offset = 0
	m.refresh()
}

func (m *BrowserModel) moveCursor(delta int) {
	m.cursor += delta
	m.syncTable()
}

// syncTable clamps the cursor to the page, scrolls just enough to keep it
// visible and loads the visible window into the table.
func (m *BrowserModel) syncTable() {
	rows := m.result.Rows
	visible := m.bodyHeight()

	m.cursor = max(min(m.cursor, len(rows)-1), 0)
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+visible:
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(min(m.offset, len(rows)-visible), 0)

	end := min(m.offset+visible, len(rows))
	m.table.SetRows(buildRows(rows[m.offset:end]))
	// SetHeight includes the header; the body is exactly the visible rows.
	m.table.SetHeight(max(end-m.offset, 1) + tableHeaderLines)
	m.table.SetCursor(m.cursor - m.offset)
}

// bodyHeight is the most rows the table can show at the current size.
func (m BrowserModel) bodyHeight() int {
	available := m.height - chromeHeight
	if m.help.ShowAll {
		available -= fullHelpExtraLines(m.keys)
	}
	return max(available, minHeight)
}

// fullHelpExtraLines is how many more lines the expanded help takes than
// the one-line short help.
func fullHelpExtraLines(keys KeyMap) int {
	tallest := 1
	for _, group := range keys.FullHelp() {
		tallest = max(tallest, len(group))
	}
	return tallest - 1
}

func buildRows(records []country.Country) []table.Row {
	cols := query.Columns()
	rows := make([]table.Row, len(records))
	for i, record := range records {
		row := make(table.Row, len(cols))
		for j, col := range cols {
			row[j] = col.Value(record)
		}
		rows[i] = row
	}
	return rows
}

// State returns the current view state.
func (m BrowserModel) State() query.State {
	return m.view
}

// Result returns the page currently on screen.
func (m BrowserModel) Result() query.Result {
	return m.result
}

// Mode returns the current top-level mode.
func (m BrowserModel) Mode() ViewState {
	return m.state
}
