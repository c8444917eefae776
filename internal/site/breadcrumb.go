package site

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Crumb is one breadcrumb entry. Href is empty for the current page.
type Crumb struct {
	Label string
	Href  string
}

// Breadcrumbs builds the trail for route. The first crumb is always Home; one
// crumb follows per path segment, labelled from labels or by capitalising the
// segment. The last crumb carries no Href.
func Breadcrumbs(route string, labels map[string]string) []Crumb {
	crumbs := []Crumb{{Label: "Home", Href: "/"}}

	var segments []string
	for _, s := range strings.Split(StripFragment(route), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	current := ""
	for i, seg := range segments {
		current += "/" + seg
		c := Crumb{Label: labelFor(seg, labels)}
		if i < len(segments)-1 {
			c.Href = current
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func labelFor(segment string, labels map[string]string) string {
	if l, ok := labels[segment]; ok {
		return l
	}
	r, size := utf8.DecodeRuneInString(segment)
	return string(unicode.ToUpper(r)) + segment[size:]
}
