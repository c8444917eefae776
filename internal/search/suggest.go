package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/pders01/aegis/internal/site"
)

// Suggest proposes up to n record titles for a query that matched nothing.
// Titles and keywords are fuzzy matched; each record is suggested at most once,
// best match first.
func Suggest(records []site.Record, query string, n int) []string {
	if n <= 0 || len([]rune(query)) < MinQueryLength {
		return nil
	}

	var candidates []string
	var owner []int
	for i, r := range records {
		candidates = append(candidates, r.Title)
		owner = append(owner, i)
		for _, kw := range r.Keywords {
			candidates = append(candidates, kw)
			owner = append(owner, i)
		}
	}

	seen := make(map[int]bool)
	var out []string
	for _, m := range fuzzy.Find(query, candidates) {
		rec := owner[m.Index]
		if seen[rec] {
			continue
		}
		seen[rec] = true
		out = append(out, records[rec].Title)
		if len(out) == n {
			break
		}
	}
	return out
}
