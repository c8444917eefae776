package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/aegis/internal/site"
)

// renderHeader returns a styled header with an optional muted subtitle, both
// truncated to width.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded border around an already rendered input.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

func renderSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// renderBreadcrumbs joins crumbs with chevrons; the current page is bold.
// A lone Home crumb renders nothing.
func renderBreadcrumbs(crumbs []site.Crumb, width int) string {
	if len(crumbs) <= 1 {
		return ""
	}
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		if c.Href == "" {
			parts[i] = CrumbCurrentStyle.Render(c.Label)
		} else {
			parts[i] = CrumbStyle.Render(c.Label)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, CrumbStyle.Render(" › ")))
}
