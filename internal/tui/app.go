package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DuongDinhDang/newsapp/internal/browser"
	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"github.com/DuongDinhDang/newsapp/internal/locale"
	"github.com/DuongDinhDang/newsapp/internal/session"
)

type view int

const (
	viewHome view = iota
	viewSearch
	viewDetail
)

// SyncController is the part of the sync controller the UI drives.
type SyncController interface {
	LoadArticles(ctx context.Context) <-chan session.State
	ForceRefresh(ctx context.Context) <-chan session.State
}

// SearchController receives every edit of the search field.
type SearchController interface {
	OnQueryChange(ctx context.Context, text string)
}

type Options struct {
	Messages *locale.Messages
	// Refresh skips the cache on startup.
	Refresh bool
	// SearchMode opens the search view instead of the home list.
	SearchMode bool
}

type App struct {
	ctx    context.Context
	sync   SyncController
	search SearchController
	msgs   *locale.Messages
	open   func(string) error

	view     view
	backView view

	width  int
	height int

	syncState   session.State
	searchState session.SearchState

	cursor       int
	searchCursor int
	detail       cache.Article
	detailScroll int

	searchInput textinput.Model
	spinner     spinner.Model
	spinning    bool

	refreshOnStart bool
	currentDate    string
	err            error
}

func NewApp(ctx context.Context, sync SyncController, search SearchController, opts Options) *App {
	msgs := opts.Messages
	if msgs == nil {
		msgs = locale.For("")
	}

	ti := textinput.New()
	ti.Placeholder = msgs.SearchPrompt
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		ctx:            ctx,
		sync:           sync,
		search:         search,
		msgs:           msgs,
		open:           browser.Open,
		searchInput:    ti,
		spinner:        sp,
		refreshOnStart: opts.Refresh,
		currentDate:    msgs.Date(time.Now()),
	}
	if opts.SearchMode {
		a.view = viewSearch
		a.searchInput.Focus()
	}
	return a
}

func (a *App) Init() tea.Cmd {
	a.spinning = true
	cmds := []tea.Cmd{a.loadCmd(a.refreshOnStart), a.spinner.Tick}
	if a.view == viewSearch {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// loadCmd asks the sync controller for articles. The resulting states reach
// the program through the controller observer, not through the command.
func (a *App) loadCmd(force bool) tea.Cmd {
	ctx, sync := a.ctx, a.sync
	return func() tea.Msg {
		if force {
			sync.ForceRefresh(ctx)
		} else {
			sync.LoadArticles(ctx)
		}
		return nil
	}
}

func (a *App) openCmd(link string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(link); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) busy() bool {
	if a.syncState.Status == session.Loading {
		return true
	}
	return a.view == viewSearch && a.searchState.Pending
}

// startSpinner restarts the tick chain if it had stopped.
func (a *App) startSpinner() tea.Cmd {
	if a.spinning || !a.busy() {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case syncStateMsg:
		a.syncState = session.State(msg)
		if a.cursor >= len(a.syncState.Articles) {
			a.cursor = max(0, len(a.syncState.Articles)-1)
		}
		return a, a.startSpinner()

	case searchStateMsg:
		a.searchState = session.SearchState(msg)
		if a.searchCursor >= len(a.searchState.Results) {
			a.searchCursor = max(0, len(a.searchState.Results)-1)
		}
		return a, a.startSpinner()

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.view {
	case viewSearch:
		return a.handleSearchKey(msg)
	case viewDetail:
		return a.handleDetailKey(msg)
	}

	articles := a.syncState.Articles
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(articles)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "enter":
		if a.cursor < len(articles) {
			a.showDetail(articles[a.cursor], viewHome)
		}
		return a, nil
	case "o":
		if a.cursor < len(articles) {
			return a, a.openCmd(articles[a.cursor].Link)
		}
		return a, nil
	case "r":
		// Refresh and retry are the same action; the controller drops it
		// while a fetch is in flight.
		return a, a.loadCmd(true)
	case "/":
		a.view = viewSearch
		a.searchInput.Focus()
		return a, tea.Batch(textinput.Blink, a.startSpinner())
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := a.searchState.Results
	switch msg.String() {
	case "esc":
		a.view = viewHome
		a.searchInput.Blur()
		return a, nil
	case "down":
		if a.searchCursor < len(results)-1 {
			a.searchCursor++
		}
		return a, nil
	case "up":
		if a.searchCursor > 0 {
			a.searchCursor--
		}
		return a, nil
	case "enter":
		if a.searchCursor < len(results) {
			a.searchInput.Blur()
			a.showDetail(results[a.searchCursor], viewSearch)
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only report actual value changes, not cursor moves etc.
	if text := a.searchInput.Value(); text != before {
		a.search.OnQueryChange(a.ctx, text)
	}
	return a, cmd
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "backspace", "h":
		a.view = a.backView
		if a.view == viewSearch {
			a.searchInput.Focus()
			return a, textinput.Blink
		}
		return a, nil
	case "j", "down":
		a.detailScroll++
		return a, nil
	case "k", "up":
		if a.detailScroll > 0 {
			a.detailScroll--
		}
		return a, nil
	case "o", "enter":
		if a.detail.Link != "" {
			return a, a.openCmd(a.detail.Link)
		}
		return a, nil
	}
	return a, nil
}

// showDetail keeps its own copy of the article, so later list updates do not
// change what is on screen.
func (a *App) showDetail(article cache.Article, from view) {
	a.detail = article
	a.detailScroll = 0
	a.backView = from
	a.view = viewDetail
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsapp")
	}

	headerLeft := headerStyle.Render("newsapp")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	contentHeight := a.height - 3
	if contentHeight < 3 {
		contentHeight = 3
	}
	innerW := a.width - 2

	var body, left, hints string
	switch a.view {
	case viewSearch:
		body = a.searchInput.View() + "\n\n" + a.renderSearchBody(contentHeight-2, innerW)
		left = fmt.Sprintf(" %d results", len(a.searchState.Results))
		hints = "↑/↓ move  enter open  esc back"
	case viewDetail:
		body = renderDetail(a.detail, a.msgs, innerW, contentHeight, a.detailScroll)
		hints = "j/k scroll  o open  esc back  q quit"
	default:
		body = a.renderHomeBody(contentHeight, innerW)
		left = fmt.Sprintf(" %d articles", len(a.syncState.Articles))
		hints = "enter read  r refresh  / search  q quit"
	}

	status := renderStatusBar(left, hints, a.width)
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (a *App) renderHomeBody(height, width int) string {
	st := a.syncState
	switch st.Status {
	case session.Idle, session.Loading:
		return center(a.spinner.View()+" "+a.msgs.Loading, width, height)
	case session.Error:
		return center(errorStyle.Render(a.msgs.ErrorMessage(st.Err)), width, height) +
			"\n\n" + center(hintStyle.Render(a.msgs.RetryHint), width, 0)
	}
	return renderList(st.Articles, a.msgs, a.cursor, height, width)
}

func (a *App) renderSearchBody(height, width int) string {
	st := a.searchState
	switch {
	case st.Err != errkind.None:
		return center(errorStyle.Render(a.msgs.SearchErrorMessage(st.Err)), width, height)
	case len(st.Results) > 0:
		return renderList(st.Results, a.msgs, a.searchCursor, height, width)
	case st.Pending && !shortQuery(st.Query):
		return center(a.spinner.View()+" "+a.msgs.Loading, width, height)
	case shortQuery(st.Query):
		return center(hintStyle.Render(a.msgs.SearchHint), width, height)
	}
	return center(a.msgs.NoResults, width, height)
}

func shortQuery(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) <= 2
}

// Run starts the TUI on top of a running session and blocks until the user
// quits or ctx ends.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	app := NewApp(ctx, sess.Sync, sess.Search, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	syncUpdates := newRelay[session.State]()
	searchUpdates := newRelay[session.SearchState]()
	sess.Sync.Observe(syncUpdates.push)
	sess.Search.Observe(searchUpdates.push)

	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go syncUpdates.forward(fwdCtx, func(s session.State) { p.Send(syncStateMsg(s)) })
	go searchUpdates.forward(fwdCtx, func(s session.SearchState) { p.Send(searchStateMsg(s)) })

	_, err := p.Run()
	return err
}
