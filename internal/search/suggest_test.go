package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/aegis/internal/site"
)

func TestSuggest(t *testing.T) {
	records := site.Default().Records

	got := Suggest(records, "blkchn", 3)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 3)

	titles := map[string]bool{}
	for _, r := range records {
		titles[r.Title] = true
	}
	seen := map[string]bool{}
	for _, s := range got {
		assert.True(t, titles[s], "%q is not a record title", s)
		assert.False(t, seen[s], "%q suggested twice", s)
		seen[s] = true
	}
}

func TestSuggestEdgeCases(t *testing.T) {
	records := site.Default().Records
	assert.Nil(t, Suggest(records, "b", 3))
	assert.Nil(t, Suggest(records, "blockchain", 0))
	assert.Empty(t, Suggest(records, "qqqqqqqq", 3))
}
