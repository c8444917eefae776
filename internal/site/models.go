package site

import (
	"fmt"
	"strings"
)

// Category groups records for display. Values match the route families of the site.
type Category string

const (
	CategoryTechnology    Category = "technology"
	CategoryProduct       Category = "product"
	CategoryUseCase       Category = "use-case"
	CategoryTokenomics    Category = "tokenomics"
	CategoryRoadmap       Category = "roadmap"
	CategoryTeam          Category = "team"
	CategoryDocumentation Category = "documentation"
	CategorySupport       Category = "support"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryProduct,
	CategoryUseCase,
	CategoryTokenomics,
	CategoryRoadmap,
	CategoryTeam,
	CategoryDocumentation,
	CategorySupport,
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the display label, falling back to the raw value.
func (c Category) Label() string {
	switch c {
	case CategoryTechnology:
		return "Technology"
	case CategoryProduct:
		return "Product"
	case CategoryUseCase:
		return "Use Case"
	case CategoryTokenomics:
		return "Tokenomics"
	case CategoryRoadmap:
		return "Roadmap"
	case CategoryTeam:
		return "Team"
	case CategoryDocumentation:
		return "Documentation"
	case CategorySupport:
		return "Support"
	default:
		return string(c)
	}
}

// Icon returns a single glyph marker for list rendering.
func (c Category) Icon() string {
	switch c {
	case CategoryTechnology:
		return "⚡"
	case CategoryProduct:
		return "▣"
	case CategoryUseCase:
		return "◉"
	case CategoryDocumentation:
		return "☰"
	default:
		return "›"
	}
}

// Record is one searchable content descriptor.
type Record struct {
	Title       string   `toml:"title"`
	URL         string   `toml:"url"`
	Category    Category `toml:"category"`
	Description string   `toml:"description"`
	Keywords    []string `toml:"keywords"`
}

// Page is a routable page of the site, also used for sitemap generation.
type Page struct {
	Path       string  `toml:"path"`
	Title      string  `toml:"title"`
	Priority   float64 `toml:"priority"`
	ChangeFreq string  `toml:"change_freq"`
	Body       string  `toml:"body"`
}

// Content is the complete static content set.
type Content struct {
	BaseURL string   `toml:"base_url"`
	Pages   []Page   `toml:"pages"`
	Records []Record `toml:"records"`
}
