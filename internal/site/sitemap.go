package site

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pders01/aegis/internal/validation"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority"`
}

// WriteSitemap writes a sitemaps.org document listing every page of c.
func WriteSitemap(w io.Writer, c *Content, lastMod time.Time) error {
	set := urlSet{XMLNS: sitemapNS}
	for _, p := range c.Pages {
		u := sitemapURL{
			Loc:        sitemapLoc(c.BaseURL, p.Path),
			ChangeFreq: p.ChangeFreq,
			Priority:   strconv.FormatFloat(p.Priority, 'f', 1, 64),
		}
		if !lastMod.IsZero() {
			u.LastMod = lastMod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing sitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing sitemap: %w", err)
	}
	return nil
}

// The root page is listed as the bare base URL.
func sitemapLoc(baseURL, path string) string {
	if path == "/" {
		return baseURL
	}
	return validation.JoinURL(baseURL, path)
}
