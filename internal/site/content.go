package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/aegis/internal/validation"
)

//go:embed content.toml
var contentTOML []byte

// ErrInvalidRecord is wrapped by validation failures of records and pages.
var ErrInvalidRecord = errors.New("invalid content")

var changeFreqs = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
	defaultErr     error
)

// Default returns a copy of the built-in content. The embedded file is decoded
// once per process.
func Default() *Content {
	defaultOnce.Do(func() {
		defaultContent, defaultErr = Parse(contentTOML)
	})
	if defaultErr != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("embedded site content: %v", defaultErr))
	}
	return defaultContent.Clone()
}

// Load reads and validates a content file from disk.
func Load(path string) (*Content, error) {
	validated, err := validation.NewPermissiveFilePathValidator().ValidateFile(path)
	if err != nil {
		return nil, fmt.Errorf("content path: %w", err)
	}
	data, err := os.ReadFile(validated)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", validated, err)
	}
	return c, nil
}

// Parse decodes TOML content and validates it.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	for i := range c.Records {
		c.Records[i].Category = Category(strings.ToLower(string(c.Records[i].Category)))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the base URL, every page and every record.
func (c *Content) Validate() error {
	base, err := validation.ValidateBaseURL(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	c.BaseURL = base

	seen := make(map[string]bool, len(c.Pages))
	for i, p := range c.Pages {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: page %d: %v", ErrInvalidRecord, i, err)
		}
		if seen[p.Path] {
			return fmt.Errorf("%w: page %d: duplicate path %q", ErrInvalidRecord, i, p.Path)
		}
		seen[p.Path] = true
	}
	for i, r := range c.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
	}
	return nil
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if err := validation.ValidateRoute(r.URL); err != nil {
		return err
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	return nil
}

func (p Page) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if err := validation.ValidateRoute(p.Path); err != nil {
		return err
	}
	if strings.Contains(p.Path, "#") {
		return fmt.Errorf("page path %q must not contain a fragment", p.Path)
	}
	if p.Priority < 0 || p.Priority > 1 {
		return fmt.Errorf("priority %.2f out of range [0,1]", p.Priority)
	}
	if p.ChangeFreq != "" && !changeFreqs[p.ChangeFreq] {
		return fmt.Errorf("unknown change frequency %q", p.ChangeFreq)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Content) Clone() *Content {
	out := &Content{
		BaseURL: c.BaseURL,
		Pages:   append([]Page(nil), c.Pages...),
		Records: make([]Record, len(c.Records)),
	}
	for i, r := range c.Records {
		r.Keywords = append([]string(nil), r.Keywords...)
		out.Records[i] = r
	}
	return out
}

// Page finds the page serving route. The fragment, if any, is ignored.
func (c *Content) Page(route string) (*Page, bool) {
	path := StripFragment(route)
	for i := range c.Pages {
		if c.Pages[i].Path == path {
			p := c.Pages[i]
			return &p, true
		}
	}
	return nil, false
}

// Labels maps first path segments to page titles, for breadcrumbs.
func (c *Content) Labels() map[string]string {
	labels := make(map[string]string, len(c.Pages))
	for _, p := range c.Pages {
		seg := strings.Trim(p.Path, "/")
		if seg == "" || strings.Contains(seg, "/") {
			continue
		}
		labels[seg] = p.Title
	}
	return labels
}

// StripFragment drops a trailing "#fragment".
func StripFragment(route string) string {
	if i := strings.IndexByte(route, '#'); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return "/"
	}
	return route
}
