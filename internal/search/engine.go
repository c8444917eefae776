package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pders01/aegis/internal/site"
)

// Field weights.
const (
	TitleWeight       = 10
	KeywordWeight     = 5
	DescriptionWeight = 3
)

// Engine is a linear scan over a small static record set.
type Engine struct {
	records []site.Record
}

// NewEngine copies records; the engine never observes later changes to the
// caller's slice.
func NewEngine(records []site.Record) *Engine {
	return &Engine{records: copyRecords(records)}
}

func (e *Engine) Name() string { return "linear" }

// DocCount is the number of records scanned per query.
func (e *Engine) DocCount() (int, error) { return len(e.records), nil }

// Search returns the records matching query, best first, capped at
// min(limit, MaxResults). Queries shorter than MinQueryLength return an empty
// slice. The returned error is always nil.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []*Result{}, nil
	}

	results := []*Result{}
	for i, r := range e.records {
		if res := scoreRecord(r, i, query); res != nil {
			results = append(results, res)
		}
	}
	return rank(results, limit), nil
}

// Score computes the relevance of r for query: 10 for a title hit, 5 per
// keyword hit and 3 for a description hit, all case-insensitive substring
// tests. A zero score means r does not match.
func Score(r site.Record, query string) (int, []Match) {
	q := strings.ToLower(query)
	if q == "" {
		return 0, nil
	}

	score := 0
	var matches []Match
	if strings.Contains(strings.ToLower(r.Title), q) {
		score += TitleWeight
		matches = append(matches, Match{Field: "title", Text: r.Title, Weight: TitleWeight})
	}
	for _, kw := range r.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			score += KeywordWeight
			matches = append(matches, Match{Field: "keyword", Text: kw, Weight: KeywordWeight})
		}
	}
	if strings.Contains(strings.ToLower(r.Description), q) {
		score += DescriptionWeight
		matches = append(matches, Match{Field: "description", Text: r.Description, Weight: DescriptionWeight})
	}
	return score, matches
}

// Matches reports whether query is a substring of the title, a keyword or the
// description of r.
func Matches(r site.Record, query string) bool {
	score, _ := Score(r, query)
	return score > 0
}

func scoreRecord(r site.Record, position int, query string) *Result {
	score, matches := Score(r, query)
	if score == 0 {
		return nil
	}
	return &Result{Record: r, Score: score, Position: position, Matches: matches}
}

// rank sorts by score descending, then original position, and applies the cap.
func rank(results []*Result, limit int) []*Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Position < results[j].Position
	})
	if n := clampLimit(limit); len(results) > n {
		results = results[:n]
	}
	return results
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxResults {
		return MaxResults
	}
	return limit
}

func copyRecords(records []site.Record) []site.Record {
	out := make([]site.Record, len(records))
	for i, r := range records {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}

// SanitizeQuery normalises raw input before it is scheduled for search:
// control characters become spaces, whitespace runs collapse, and the result
// is trimmed and capped at 256 bytes.
func SanitizeQuery(input string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	out := strings.TrimSpace(b.String())
	if len(out) > 256 {
		out = out[:256]
		for !utf8.ValidString(out) {
			out = out[:len(out)-1]
		}
	}
	return strings.TrimSpace(out)
}
