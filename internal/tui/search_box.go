package tui

import (
	"github.com/pders01/aegis/internal/search"
)

// panelState is what the result panel under the search input shows.
type panelState int

const (
	panelHidden panelState = iota
	panelHint
	panelEmpty
	panelResults
)

// searchBox is the search widget state: the sanitized query, the last result
// set, the keyboard selection (-1 for none) and whether the panel is open.
// Open and query are independent: blurring closes the panel but keeps the
// query.
type searchBox struct {
	query       string
	results     []*search.Result
	suggestions []string
	selected    int
	open        bool
}

func newSearchBox() searchBox {
	return searchBox{selected: -1}
}

// setQuery records a new query. Too-short queries drop the old results so
// the hint is not shown over stale matches.
func (b *searchBox) setQuery(q string) {
	b.query = q
	if runeLen(q) < search.MinQueryLength {
		b.results = nil
		b.suggestions = nil
		b.selected = -1
	}
	b.open = q != ""
}

func (b *searchBox) setResults(results []*search.Result, suggestions []string) {
	b.results = results
	b.suggestions = suggestions
	b.selected = -1
	b.open = b.query != ""
}

func (b *searchBox) state() panelState {
	n := runeLen(b.query)
	switch {
	case !b.open || n == 0:
		return panelHidden
	case n < search.MinQueryLength:
		return panelHint
	case len(b.results) == 0:
		return panelEmpty
	default:
		return panelResults
	}
}

// next moves the selection down, wrapping to the first result.
func (b *searchBox) next() {
	n := len(b.results)
	if n == 0 {
		return
	}
	b.selected = (b.selected + 1) % n
}

// prev moves the selection up, wrapping to the last result. With nothing
// selected it jumps to the last result.
func (b *searchBox) prev() {
	n := len(b.results)
	if n == 0 {
		return
	}
	if b.selected <= 0 {
		b.selected = n - 1
		return
	}
	b.selected--
}

func (b *searchBox) selectedResult() (*search.Result, bool) {
	if b.selected < 0 || b.selected >= len(b.results) {
		return nil, false
	}
	return b.results[b.selected], true
}

func (b *searchBox) close() {
	b.open = false
}

// reopen shows the panel again when focus returns with a searchable query.
func (b *searchBox) reopen() {
	if runeLen(b.query) >= search.MinQueryLength {
		b.open = true
	}
}

func (b *searchBox) clear() {
	*b = newSearchBox()
}
