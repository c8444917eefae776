package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/aegis/internal/site"
)

const lowerKeywordAnalyzer = "lower_keyword"

var indexedFields = []string{"title", "keywords", "description"}

// scanField marks records the wildcard query cannot be trusted with: text
// outside printable ASCII may contain newlines, which the wildcard regexp
// does not cross, or letters the lowercase filter folds differently from
// strings.ToLower. Marked records are always candidates.
const (
	scanField = "scan"
	scanTerm  = "always"
)

type bleveEngine struct {
	records []site.Record
	idx     bleve.Index
}

// NewBleveEngine builds an in-memory Bleve index over records. Each field is
// indexed as a single lowercased term so wildcard queries express the same
// substring semantics as Engine; hits are re-scored with Score, so both
// engines return identical rankings.
func NewBleveEngine(records []site.Record) (Searcher, error) {
	idxMapping, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(idxMapping)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	be := &bleveEngine{records: copyRecords(records), idx: idx}
	if err := be.indexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(lowerKeywordAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("registering analyzer: %w", err)
	}
	im.DefaultAnalyzer = lowerKeywordAnalyzer

	dm := bleve.NewDocumentMapping()
	for _, name := range append(indexedFields, scanField) {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = lowerKeywordAnalyzer
		f.Store = false
		f.IncludeTermVectors = false
		dm.AddFieldMappingsAt(name, f)
	}
	im.DefaultMapping = dm
	return im, nil
}

func (b *bleveEngine) indexAll() error {
	batch := b.idx.NewBatch()
	for i, r := range b.records {
		keywords := make([]interface{}, len(r.Keywords))
		for k, kw := range r.Keywords {
			keywords[k] = kw
		}
		doc := map[string]interface{}{
			"title":       r.Title,
			"keywords":    keywords,
			"description": r.Description,
		}
		if !plainRecord(r) {
			doc[scanField] = scanTerm
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return fmt.Errorf("indexing record %d: %w", i, err)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		return fmt.Errorf("indexing records: %w", err)
	}
	return nil
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(candidateQuery(query), len(b.records), 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	results := []*Result{}
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(b.records) {
			continue
		}
		if r := scoreRecord(b.records[pos], pos, query); r != nil {
			results = append(results, r)
		}
	}
	return rank(results, limit), nil
}

// candidateQuery ORs a "*q*" wildcard over every indexed field plus the
// records marked for scanning. Wildcard metacharacters in the query would
// change the meaning, and non-ASCII or control characters may lowercase
// differently in the index, so such queries scan every document.
func candidateQuery(query string) bleveQuery.Query {
	q := strings.ToLower(query)
	if strings.ContainsAny(q, "*?") || !plainASCII(query) {
		return bleve.NewMatchAllQuery()
	}
	qs := make([]bleveQuery.Query, 0, len(indexedFields)+1)
	for _, field := range indexedFields {
		wq := bleve.NewWildcardQuery("*" + q + "*")
		wq.SetField(field)
		qs = append(qs, wq)
	}
	scan := bleve.NewTermQuery(scanTerm)
	scan.SetField(scanField)
	qs = append(qs, scan)
	return bleve.NewDisjunctionQuery(qs...)
}

func plainRecord(r site.Record) bool {
	if !plainASCII(r.Title) || !plainASCII(r.Description) {
		return false
	}
	for _, kw := range r.Keywords {
		if !plainASCII(kw) {
			return false
		}
	}
	return true
}

// plainASCII reports whether s holds only printable ASCII.
func plainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (b *bleveEngine) Name() string { return "bleve" }

// Close releases the index.
func (b *bleveEngine) Close() error {
	return b.idx.Close()
}
