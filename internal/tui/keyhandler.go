package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/aegis/internal/search"
)

// Screen rows of the search view, counted from the top of the body.
const (
	searchInputTop    = 2
	searchInputBottom = 4
	searchRowsPerItem = 2
)

type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model, cmd, handled := kh.handleGlobalKeys(msg); handled {
		return model, cmd
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

// handleGlobalKeys handles the modifier chords, which work in every view and
// even while typing.
func (kh *KeyHandler) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keys := kh.app.keys
	switch {
	case key.Matches(msg, keys.ForceQuit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case key.Matches(msg, keys.Dismiss):
		kh.app.dismissNewest()
		return kh.app, nil, true
	case key.Matches(msg, keys.ClearToasts):
		kh.app.toasts.Clear()
		return kh.app, nil, true
	case key.Matches(msg, keys.ToastAction):
		kh.app.invokeNewestAction()
		return kh.app, nil, true
	case key.Matches(msg, keys.Wallet):
		kh.app.toggleWallet()
		return kh.app, nil, true
	case key.Matches(msg, keys.OpenPage):
		if route, ok := kh.routeUnderCursor(); ok {
			return kh.app, kh.app.openRoute(route), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewHome:
		return kh.app.pageList.FilterState() == list.Filtering
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.view == ViewHome {
		return kh.delegateToCharm(msg)
	}

	box := &kh.app.box
	switch msg.Type {
	case tea.KeyEsc:
		if box.query != "" || box.open {
			kh.clearSearch()
			return kh.app, nil
		}
		return kh.navigateBack()
	case tea.KeyEnter:
		if r, ok := box.selectedResult(); ok {
			return kh.app, kh.app.navigate(r.Record.URL)
		}
		return kh.app, nil
	case tea.KeyDown:
		box.next()
		return kh.app, nil
	case tea.KeyUp:
		box.prev()
		return kh.app, nil
	case tea.KeyTab:
		kh.app.searchInput.Blur()
		box.close()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search input and schedules a
// debounced search when the sanitized value changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.box.query
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if q := search.SanitizeQuery(kh.app.searchInput.Value()); q != prev {
		kh.app.scheduleSearch(q)
	}
	return kh.app, cmd
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keys := kh.app.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, keys.Help) && kh.app.view != ViewHelp:
		kh.app.previousView = kh.app.view
		kh.app.view = ViewHelp
		return kh.app, nil, true
	}

	if kh.app.view == ViewSearch {
		switch msg.String() {
		case "tab", "shift+tab", "/", "i":
			return kh.app, kh.focusSearchInput(), true
		case "enter":
			if r, ok := kh.app.box.selectedResult(); ok {
				return kh.app, kh.app.navigate(r.Record.URL), true
			}
			return kh.app, nil, true
		}
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewHome:
		filtering := kh.app.pageList.FilterState() == list.Filtering
		kh.app.pageList, cmd = kh.app.pageList.Update(msg)
		if msg.Type == tea.KeyEnter && !filtering {
			if i, ok := kh.app.pageList.SelectedItem().(pageItem); ok {
				return kh.app, kh.app.navigate(i.page.Path)
			}
		}
		return kh.app, cmd

	case ViewPage:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	if kh.app.view != ViewSearch {
		kh.app.previousView = kh.app.view
		kh.app.view = ViewSearch
	}
	return kh.app, kh.focusSearchInput()
}

func (kh *KeyHandler) focusSearchInput() tea.Cmd {
	kh.app.box.reopen()
	return tea.Batch(kh.app.searchInput.Focus(), textinput.Blink)
}

func (kh *KeyHandler) clearSearch() {
	kh.app.searchInput.Reset()
	kh.app.scheduleSearch("")
	kh.app.box.clear()
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		kh.clearSearch()
		kh.app.searchInput.Blur()
		kh.app.view = kh.app.previousView
		if kh.app.view == ViewSearch {
			kh.app.view = ViewHome
		}
		return kh.app, nil

	case ViewHelp:
		kh.app.view = kh.app.previousView
		if kh.app.view == ViewHelp {
			kh.app.view = ViewHome
		}
		return kh.app, nil

	case ViewPage:
		kh.app.view = ViewHome
		kh.app.currentPage = nil
		kh.app.currentRoute = ""
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// routeUnderCursor picks the route ctrl+o should open in the current view.
func (kh *KeyHandler) routeUnderCursor() (string, bool) {
	switch kh.app.view {
	case ViewPage:
		return kh.app.currentRoute, kh.app.currentRoute != ""
	case ViewSearch:
		if r, ok := kh.app.box.selectedResult(); ok {
			return r.Record.URL, true
		}
	case ViewHome:
		if i, ok := kh.app.pageList.SelectedItem().(pageItem); ok {
			return i.page.Path, true
		}
	}
	return "/", true
}

func (kh *KeyHandler) HandleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if kh.app.view == ViewPage {
		var cmd tea.Cmd
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	}

	if kh.app.view != ViewSearch || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return kh.app, nil
	}

	if msg.Y >= searchInputTop && msg.Y <= searchInputBottom {
		return kh.app, kh.focusSearchInput()
	}

	if kh.app.box.state() != panelHidden && msg.Y >= searchPanelTop &&
		msg.Y < searchPanelTop+lipgloss.Height(kh.app.renderPanel()) {
		if kh.app.box.state() == panelResults {
			idx := (msg.Y - searchPanelTop) / searchRowsPerItem
			if idx < len(kh.app.box.results) {
				return kh.app, kh.app.navigate(kh.app.box.results[idx].Record.URL)
			}
		}
		// Hint and "no results" rows are still part of the box.
		return kh.app, nil
	}

	// Anywhere else counts as clicking outside the search box.
	kh.app.searchInput.Blur()
	kh.app.box.close()
	return kh.app, nil
}
