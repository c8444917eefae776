package tui

import (
	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/search"
)

type View int

const (
	ViewHome View = iota
	ViewSearch
	ViewPage
	ViewHelp
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewSearch:
		return "search"
	case ViewPage:
		return "page"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// eventMsg wraps anything delivered through App.events so Update can re-arm
// the listener after handling it.
type eventMsg struct {
	inner any
}

// searchDebounceFireMsg is sent when typing has paused long enough.
type searchDebounceFireMsg struct {
	seq int
}

type searchResultsMsg struct {
	seq         int
	query       string
	results     []*search.Result
	suggestions []string
	err         error
}

// toastsChangedMsg is sent whenever the toast stack changes, including when a
// timer expires a toast between key presses.
type toastsChangedMsg struct{}

type walletToggleMsg struct{}

type configReloadedMsg struct {
	cfg *config.Config
	err error
}

type pageRenderedMsg struct {
	route   string
	content string
	// anchorLine is the rendered line to scroll to, -1 for the top.
	anchorLine int
}

type openedMsg struct {
	loadingID string
	url       string
	err       error
}

type errorMsg struct {
	err error
}
