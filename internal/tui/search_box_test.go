package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
)

func results(n int) []*search.Result {
	out := make([]*search.Result, n)
	for i := range out {
		out[i] = &search.Result{Record: site.Record{Title: string(rune('a' + i))}, Position: i}
	}
	return out
}

func TestSearchBoxState(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		results int
		open    bool
		want    panelState
	}{
		{"empty query", "", 0, true, panelHidden},
		{"closed panel", "fhe", 3, false, panelHidden},
		{"one character", "f", 0, true, panelHint},
		{"one multibyte character", "é", 0, true, panelHint},
		{"no results", "zz", 0, true, panelEmpty},
		{"results", "fhe", 2, true, panelResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := searchBox{query: tt.query, results: results(tt.results), selected: -1, open: tt.open}
			assert.Equal(t, tt.want, b.state())
		})
	}
}

func TestSearchBoxSetQuery(t *testing.T) {
	b := newSearchBox()
	b.setQuery("fhe")
	b.setResults(results(3), nil)
	b.next()

	b.setQuery("f")
	assert.Empty(t, b.results, "short queries drop stale results")
	assert.Equal(t, -1, b.selected)
	assert.True(t, b.open)

	b.setQuery("")
	assert.False(t, b.open)
}

func TestSearchBoxSetResultsResetsSelection(t *testing.T) {
	b := newSearchBox()
	b.setQuery("fhe")
	b.setResults(results(3), nil)
	b.next()
	b.next()
	assert.Equal(t, 1, b.selected)

	b.setResults(results(2), nil)
	assert.Equal(t, -1, b.selected)
	_, ok := b.selectedResult()
	assert.False(t, ok)
}

func TestSearchBoxSelectionWraps(t *testing.T) {
	b := newSearchBox()
	b.setQuery("fhe")

	b.next()
	b.prev()
	assert.Equal(t, -1, b.selected, "no results, no selection")

	b.setResults(results(3), nil)
	b.prev()
	assert.Equal(t, 2, b.selected, "up with nothing selected goes to the last result")
	b.next()
	assert.Equal(t, 0, b.selected)
	b.prev()
	assert.Equal(t, 2, b.selected)

	r, ok := b.selectedResult()
	assert.True(t, ok)
	assert.Equal(t, "c", r.Record.Title)
}

func TestSearchBoxReopen(t *testing.T) {
	b := newSearchBox()
	b.setQuery("f")
	b.close()
	b.reopen()
	assert.False(t, b.open, "a one character query stays closed")

	b.setQuery("fhe")
	b.close()
	b.reopen()
	assert.True(t, b.open)

	b.clear()
	assert.Equal(t, newSearchBox(), b)
}
