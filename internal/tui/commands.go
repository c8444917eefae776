package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
	"github.com/pders01/aegis/internal/toast"
)

// scheduleSearch records q and restarts the debounce window. Short queries
// never reach the engine.
func (a *App) scheduleSearch(q string) {
	a.box.setQuery(q)
	a.searchSeq++
	if runeLen(q) < search.MinQueryLength {
		a.debouncer.Cancel()
		return
	}
	seq := a.searchSeq
	a.debouncer.Schedule(func() { a.notify(searchDebounceFireMsg{seq: seq}) })
}

func (a *App) performSearch(query string, seq int) tea.Cmd {
	engine := a.engine
	limit := a.config.Search.MaxResults
	suggestions := a.config.Search.Suggestions
	records := a.content.Records
	return func() tea.Msg {
		results, err := engine.Search(query, limit)
		if err != nil {
			return searchResultsMsg{seq: seq, query: query, err: wrapErr("search", err)}
		}
		msg := searchResultsMsg{seq: seq, query: query, results: results}
		if len(results) == 0 && suggestions > 0 {
			msg.suggestions = search.Suggest(records, query, suggestions)
		}
		return msg
	}
}

// navigate switches to the page serving route and renders it in the
// background. Unknown routes leave the view alone and raise an error toast.
func (a *App) navigate(route string) tea.Cmd {
	page, ok := a.content.Page(route)
	if !ok {
		a.toasts.Error(MsgPageNotFound, toast.WithDescription(route))
		return nil
	}

	a.searchInput.Reset()
	a.searchInput.Blur()
	a.scheduleSearch("")
	a.box.clear()

	a.view = ViewPage
	a.currentPage = page
	a.currentRoute = route
	a.loadingPage = true
	a.viewport.SetContent("")
	a.log.Debugf("navigate %s", route)

	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg { return errorMsg{err: wrapErr("renderer", err)} }
	}
	return renderPage(r, route, page.Body, a.anchorTitle(route))
}

// anchorTitle is the title of the record a fragment route points at.
func (a *App) anchorTitle(route string) string {
	if !strings.Contains(route, "#") {
		return ""
	}
	for _, r := range a.content.Records {
		if r.URL == route {
			return r.Title
		}
	}
	return ""
}

func renderPage(r *glamour.TermRenderer, route, body, anchor string) tea.Cmd {
	return func() tea.Msg {
		rendered, err := r.Render(body)
		if err != nil {
			return pageRenderedMsg{route: route, content: "Failed to render page: " + err.Error(), anchorLine: -1}
		}
		return pageRenderedMsg{route: route, content: rendered, anchorLine: findAnchorLine(rendered, anchor)}
	}
}

// findAnchorLine returns the first rendered line containing anchor, ignoring
// case and styling, or -1.
func findAnchorLine(rendered, anchor string) int {
	if anchor == "" {
		return -1
	}
	needle := strings.ToLower(anchor)
	for i, line := range strings.Split(rendered, "\n") {
		if strings.Contains(strings.ToLower(ansi.Strip(line)), needle) {
			return i
		}
	}
	return -1
}

// openRoute shows a loading toast and opens route in the browser.
func (a *App) openRoute(route string) tea.Cmd {
	label := site.StripFragment(route)
	if u, err := a.launcher.URLFor(route); err == nil {
		label = u
	}
	id := a.toasts.Loading(MsgOpening(label))
	opener := a.launcher
	return func() tea.Msg {
		u, err := opener.OpenRoute(route)
		return openedMsg{loadingID: id, url: u, err: err}
	}
}

func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
