package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/aegis/internal/search"
)

// Canonical short messages used in toasts and hints.
const (
	MsgNoResults          = "No results"
	MsgWalletConnected    = "Wallet connected"
	MsgWalletDisconnected = "Wallet disconnected"
	MsgConfigReloaded     = "Config reloaded"
	MsgConfigReloadFailed = "Config reload failed"
	MsgPageNotFound       = "Page not found"
	MsgOpenedInBrowser    = "Opened in browser"
	MsgOpenFailed         = "Could not open page"
	MsgRenderingPage      = "Rendering…"
	MsgSearchFailed       = "Search failed"
)

var MsgTypeMore = fmt.Sprintf("Type at least %d characters", search.MinQueryLength)

func MsgOpening(url string) string {
	return "Opening " + truncateMiddle(url, 48) + "…"
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgDidYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return "Did you mean: " + strings.Join(suggestions, " • ")
}

// MsgSearchEngine describes the active engine; docs < 0 means unknown.
func MsgSearchEngine(name string, docs int) string {
	if docs >= 0 {
		return fmt.Sprintf("engine: %s • idx: %d docs", name, docs)
	}
	return "engine: " + name
}
