package tui

import "unicode/utf8"

// truncateEnd cuts s to at most limit runes, ending in an ellipsis when
// anything was dropped.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}

// truncateMiddle keeps both ends of s, for URLs where the host and the
// fragment both matter.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	return string(r[:left]) + "…" + string(r[n-right:])
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
