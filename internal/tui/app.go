package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/debounce"
	"github.com/pders01/aegis/internal/debuglog"
	"github.com/pders01/aegis/internal/launcher"
	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
	"github.com/pders01/aegis/internal/toast"
)

// searchPanelTop is the first line of the result panel in the search view:
// header, subtitle, three lines of input frame and the help line sit above.
const searchPanelTop = 6

// routeOpener opens a site route in the browser and returns the full URL.
type routeOpener interface {
	URLFor(route string) (string, error)
	OpenRoute(route string) (string, error)
}

type App struct {
	config     *config.Config
	content    *site.Content
	labels     map[string]string
	engine     search.Searcher
	toasts     *toast.Manager
	launcher   routeOpener
	clock      clockwork.Clock
	debouncer  *debounce.Debouncer
	keyHandler *KeyHandler
	keys       keyMap
	events     chan any
	log        *debuglog.FieldLogger

	pageList    list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model

	view         View
	previousView View
	box          searchBox
	searchSeq    int
	engineInfo   string

	currentPage  *site.Page
	currentRoute string
	loadingPage  bool

	walletConnected bool
	walletToastID   string
	spinning        bool

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

type Option func(*App)

// WithClock drives the search debounce from c.
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// NewApp builds the UI. The toast manager comes from ctx and NewApp panics
// when there is none.
func NewApp(ctx context.Context, cfg *config.Config, content *site.Content, engine search.Searcher, opts ...Option) *App {
	toasts := toast.MustFromContext(ctx)

	items := make([]list.Item, len(content.Pages))
	for i, p := range content.Pages {
		items[i] = pageItem{page: p}
	}
	pageList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	pageList.Title = "› aegismind network"
	pageList.SetShowStatusBar(false)
	pageList.SetFilteringEnabled(true)
	pageList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search technology, products, docs..."
	si.CharLimit = 256

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		content:     content,
		labels:      content.Labels(),
		engine:      engine,
		toasts:      toasts,
		launcher:    launcher.New(cfg),
		clock:       clockwork.NewRealClock(),
		keys:        newKeyMap(cfg),
		events:      make(chan any, 64),
		log:         debuglog.WithFields(map[string]any{"component": "tui"}),
		pageList:    pageList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		view:        ViewHome,
		box:         newSearchBox(),
		width:       80,
		height:      24,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.debouncer = debounce.New(app.clock, cfg.Search.Debounce)
	app.engineInfo = describeEngine(engine)
	app.keyHandler = NewKeyHandler(app)
	app.resize(app.width, app.height)
	toasts.SetOnChange(func() { app.notify(toastsChangedMsg{}) })

	return app
}

func describeEngine(engine search.Searcher) string {
	name := "search"
	if n, ok := engine.(search.Namer); ok {
		name = n.Name()
	}
	docs := -1
	if ds, ok := engine.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			docs = n
		}
	}
	return MsgSearchEngine(name, docs)
}

// ConfigReloaded hands a reloaded config (or the reload error) to the UI.
func (a *App) ConfigReloaded(cfg *config.Config, err error) {
	a.notify(configReloadedMsg{cfg: cfg, err: err})
}

func (a *App) notify(msg any) {
	select {
	case a.events <- msg:
	default:
		a.log.Warnf("event queue full, dropping %T", msg)
	}
}

// waitForEvent blocks on the event queue; Update re-arms it after each event.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{inner: <-a.events}
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if maxW := a.config.UI.Page.WordWrapMaxWidth; maxW > 0 && wordWrapWidth > maxW {
		wordWrapWidth = maxW
	}
	if minW := a.config.UI.Page.WordWrapMinWidth; minW > 0 && wordWrapWidth < minW {
		wordWrapWidth = minW
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		style := glamour.WithAutoStyle()
		if s := a.config.UI.Page.GlamourStyle; s != "" && s != "auto" {
			style = glamour.WithStandardStyle(s)
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wordWrapWidth))
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForEvent(),
		a.startSpinnerIfNeeded(),
	)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.pageList.SetSize(width, height-8)
	a.viewport.Width = width
	a.viewport.Height = max(height-5, 1)
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.searchInput.Width = inputWidth
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case eventMsg:
		model, cmd := a.Update(msg.inner)
		return model, tea.Batch(cmd, a.waitForEvent())

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		return a.keyHandler.HandleMouse(msg)

	case searchDebounceFireMsg:
		if msg.seq == a.searchSeq && runeLen(a.box.query) >= search.MinQueryLength {
			return a, a.performSearch(a.box.query, msg.seq)
		}
		return a, nil

	case searchResultsMsg:
		if msg.seq != a.searchSeq || a.view != ViewSearch {
			return a, nil
		}
		if msg.err != nil {
			a.toasts.Error(MsgSearchFailed, toast.WithDescription(msg.err.Error()))
			return a, nil
		}
		a.box.setResults(msg.results, msg.suggestions)
		a.log.Debugf("search %q: %d results", msg.query, len(msg.results))
		return a, nil

	case toastsChangedMsg:
		return a, a.startSpinnerIfNeeded()

	case spinner.TickMsg:
		if !a.hasLoadingToast() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case walletToggleMsg:
		if a.walletConnected {
			a.toggleWallet()
		}
		return a, nil

	case configReloadedMsg:
		a.applyConfig(msg.cfg, msg.err)
		return a, nil

	case pageRenderedMsg:
		if a.view == ViewPage && msg.route == a.currentRoute {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			if msg.anchorLine > 0 {
				a.viewport.SetYOffset(msg.anchorLine)
			}
			a.loadingPage = false
		}
		return a, nil

	case openedMsg:
		a.toasts.Remove(msg.loadingID)
		if msg.err != nil {
			a.toasts.Error(MsgOpenFailed, toast.WithDescription(msg.err.Error()))
		} else {
			a.toasts.Success(MsgOpenedInBrowser, toast.WithDescription(msg.url))
		}
		return a, nil

	case errorMsg:
		a.log.Errorf("%v", msg.err)
		a.toasts.Error(msg.err.Error())
		return a, nil
	}

	switch a.view {
	case ViewHome:
		newListModel, cmd := a.pageList.Update(msg)
		a.pageList = newListModel
		cmds = append(cmds, cmd)
	case ViewPage:
		newViewport, cmd := a.viewport.Update(msg)
		a.viewport = newViewport
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) startSpinnerIfNeeded() tea.Cmd {
	if a.spinning || !a.hasLoadingToast() {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

// toggleWallet flips the local wallet session. Nothing leaves the process.
func (a *App) toggleWallet() {
	if !a.walletConnected {
		a.walletConnected = true
		a.walletToastID = a.toasts.Success(MsgWalletConnected,
			toast.WithDescription("Local demo session"),
			toast.WithAction("Disconnect", func() { a.notify(walletToggleMsg{}) }))
		return
	}
	a.walletConnected = false
	a.toasts.Remove(a.walletToastID)
	a.walletToastID = ""
	a.toasts.Info(MsgWalletDisconnected)
}

func (a *App) applyConfig(cfg *config.Config, err error) {
	if err != nil {
		a.toasts.Error(MsgConfigReloadFailed, toast.WithDescription(err.Error()))
		return
	}

	a.debouncer.Cancel()
	a.debouncer = debounce.New(a.clock, cfg.Search.Debounce)
	a.toasts.SetPolicy(ToastPolicy(cfg))
	debuglog.SetLevel(debuglog.ParseLogLevel(cfg.Log.Level))
	ApplyColors(cfg.UI.Colors)
	a.keys = newKeyMap(cfg)
	a.glamourRenderer = nil
	a.config = cfg
	a.toasts.Info(MsgConfigReloaded)
}

func (a *App) View() string {
	status := a.renderStatusBar()
	toasts := a.renderToastStack()

	bodyHeight := a.height - lipgloss.Height(status) - 1
	if toasts != "" {
		bodyHeight -= lipgloss.Height(toasts)
	}
	bodyHeight = max(bodyHeight, 3)

	var content string
	switch a.view {
	case ViewHome:
		content = a.renderHome(bodyHeight)
	case ViewSearch:
		content = a.renderSearch()
	case ViewPage:
		content = a.renderPage(bodyHeight)
	case ViewHelp:
		content = lipgloss.JoinVertical(lipgloss.Top,
			renderHeader("› help", "", a.width),
			"",
			a.help.FullHelpView(a.keys.FullHelp()))
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(content)

	rows := []string{content}
	if toasts != "" {
		rows = append(rows, toasts)
	}
	rows = append(rows, renderSeparator(a.width-1), status)
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (a *App) renderHome(height int) string {
	banner := GetWelcomeMessage()
	pages := a.pageList.View()
	if lipgloss.Height(banner)+lipgloss.Height(pages)+1 > height {
		return pages
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(a.width, lipgloss.Center, banner),
		"",
		pages)
}

func (a *App) renderPage(height int) string {
	header := renderHeader("› "+a.pageTitle(), "", a.width)
	if crumbs := renderBreadcrumbs(site.Breadcrumbs(a.currentRoute, a.labels), a.width-2); crumbs != "" {
		header = lipgloss.JoinVertical(lipgloss.Top, header, crumbs)
	}
	a.viewport.Height = max(height-lipgloss.Height(header)-1, 1)

	body := a.viewport.View()
	if a.loadingPage {
		body = renderCentered(a.width, a.viewport.Height, renderMuted(MsgRenderingPage))
	}
	return lipgloss.JoinVertical(lipgloss.Top, header, "", body)
}

func (a *App) pageTitle() string {
	if a.currentPage == nil {
		return ""
	}
	return a.currentPage.Title
}

func (a *App) renderSearch() string {
	a.searchInput.Width = max(a.width-8, 10)

	helpText := "Type to search • ↑↓: select • Enter: open • Tab: leave • Esc: clear"
	if !a.searchInput.Focused() {
		helpText = "Tab or /: back to the search box • Esc: back"
	}

	rows := []string{
		renderHeader("› search", a.engineInfo, a.width),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
		renderHelp(helpText),
	}
	if panel := a.renderPanel(); panel != "" {
		rows = append(rows, panel)
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderPanel draws the result panel. Each result takes two lines so mouse
// clicks can be mapped back to an index.
func (a *App) renderPanel() string {
	switch a.box.state() {
	case panelHint:
		return renderMuted(MsgTypeMore)
	case panelEmpty:
		lines := []string{renderMuted(MsgNoResults)}
		if hint := MsgDidYouMean(a.box.suggestions); hint != "" {
			lines = append(lines, renderHelp(hint))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	case panelResults:
		width := a.width - 2
		var lines []string
		for i, r := range a.box.results {
			title := fmt.Sprintf("%s %s", r.Record.Category.Icon(), truncateEnd(r.Record.Title, width-4))
			meta := fmt.Sprintf("  %s • %s • %s",
				r.Record.Category.Label(),
				truncateEnd(r.Record.Description, width/2),
				truncateMiddle(r.Record.URL, 28))
			if i == a.box.selected {
				lines = append(lines, SelectedItemStyle.Width(width).Render(title))
			} else {
				lines = append(lines, ResultTitleStyle.Render(title))
			}
			lines = append(lines, renderMuted(truncateEnd(meta, width)))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	default:
		return ""
	}
}

func (a *App) renderStatusBar() string {
	prefix := ""
	if a.walletConnected {
		prefix = lipgloss.NewStyle().Foreground(SuccessColor).Render("● wallet") + "  "
	}
	a.help.Width = max(a.width-2-lipgloss.Width(prefix), 10)
	return StatusBarStyle.Width(a.width).Render(prefix + a.help.ShortHelpView(a.keys.forView(a.view)))
}

type pageItem struct {
	page site.Page
}

func (i pageItem) Title() string { return i.page.Title }
func (i pageItem) Description() string {
	return fmt.Sprintf("%s • updated %s", i.page.Path, i.page.ChangeFreq)
}
func (i pageItem) FilterValue() string { return i.page.Title }
