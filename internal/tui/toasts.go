package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/toast"
)

const toastWidth = 44

// ToastPolicy maps the toast config section onto per-kind lifetimes.
func ToastPolicy(cfg *config.Config) toast.Policy {
	return toast.Policy{
		Success: cfg.Toast.DefaultDuration,
		Warning: cfg.Toast.DefaultDuration,
		Info:    cfg.Toast.DefaultDuration,
		Error:   cfg.Toast.ErrorDuration,
		Loading: cfg.Toast.LoadingDuration,
	}
}

// dismissNewest removes the most recent toast.
func (a *App) dismissNewest() bool {
	ts := a.toasts.Toasts()
	if len(ts) == 0 {
		return false
	}
	a.toasts.Remove(ts[len(ts)-1].ID)
	return true
}

// invokeNewestAction runs the action of the most recent toast that has one.
func (a *App) invokeNewestAction() bool {
	ts := a.toasts.Toasts()
	for i := len(ts) - 1; i >= 0; i-- {
		if ts[i].Action != nil {
			return a.toasts.Invoke(ts[i].ID)
		}
	}
	return false
}

func (a *App) hasLoadingToast() bool {
	for _, t := range a.toasts.Toasts() {
		if t.Kind == toast.KindLoading {
			return true
		}
	}
	return false
}

// renderToastStack draws the visible toasts oldest first, right-aligned.
// Only the newest max_visible are drawn.
func (a *App) renderToastStack() string {
	ts := a.toasts.Toasts()
	if len(ts) == 0 {
		return ""
	}

	maxVisible := a.config.Toast.MaxVisible
	if maxVisible <= 0 {
		maxVisible = 1
	}
	var rows []string
	if hidden := len(ts) - maxVisible; hidden > 0 {
		rows = append(rows, renderMuted(fmt.Sprintf("+%d more", hidden)))
		ts = ts[hidden:]
	}

	width := toastWidth
	if a.width-2 < width {
		width = a.width - 2
	}
	for _, t := range ts {
		rows = append(rows, a.renderToast(t, width))
	}

	return lipgloss.PlaceHorizontal(a.width, lipgloss.Right,
		lipgloss.JoinVertical(lipgloss.Right, rows...))
}

func (a *App) renderToast(t toast.Toast, width int) string {
	color := KindColor(t.Kind)
	icon := t.Kind.Icon()
	if t.Kind == toast.KindLoading {
		icon = a.spinner.View()
	}

	inner := width - 4
	title := lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon) + " " +
		lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(truncateEnd(t.Title, inner-2))
	lines := []string{title}
	if t.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(MutedColor).Width(inner).Render(t.Description))
	}
	if t.Action != nil {
		lines = append(lines, renderHelp(fmt.Sprintf("[%s] %s", a.keys.ToastAction.Help().Key, t.Action.Label)))
	}

	return ToastBoxStyle.
		BorderForeground(color).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
