package search

import "github.com/pders01/aegis/internal/site"

// MaxResults caps every result list.
const MaxResults = 8

// MinQueryLength is the shortest query, in characters, that is matched at all.
const MinQueryLength = 2

// Searcher defines the search API used by the TUI and the CLI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Namer is implemented by engines that can describe themselves in the UI.
type Namer interface {
	Name() string
}

// DebugStatser is implemented by engines that can report their document
// count.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one ranked record.
type Result struct {
	Record   site.Record
	Score    int
	Position int // index in the record set, used as the tie breaker
	Matches  []Match
}

// Match records which field contributed to a score.
type Match struct {
	Field  string // "title", "keyword", "description"
	Text   string
	Weight int
}
