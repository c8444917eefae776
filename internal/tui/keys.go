package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/aegis/internal/config"
)

// keyMap holds every binding the app reacts to. Modifier bindings are built
// from keys.modifier and keys.bindings in the config.
type keyMap struct {
	Search      key.Binding
	OpenPage    key.Binding
	Dismiss     key.Binding
	ClearToasts key.Binding
	ToastAction key.Binding
	Wallet      key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Blur        key.Binding
	Back        key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := cfg.Keys.Modifier + "+"
	b := cfg.Keys.Bindings
	chord := func(k, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(mod+k), key.WithHelp(mod+k, desc))
	}

	return keyMap{
		Search:      chord(b.Search, "search"),
		OpenPage:    chord(b.OpenPage, "open in browser"),
		Dismiss:     chord(b.Dismiss, "dismiss toast"),
		ClearToasts: chord(b.ClearToasts, "clear toasts"),
		ToastAction: chord(b.ToastAction, "toast action"),
		Wallet:      chord(b.Wallet, "wallet"),
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Blur:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "leave search")),
		Back:        key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:        key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Quit:        key.NewBinding(key.WithKeys(b.Quit), key.WithHelp(b.Quit, "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// forView lists the bindings shown in the status bar.
func (k keyMap) forView(v View) []key.Binding {
	switch v {
	case ViewHome:
		return []key.Binding{k.Select, k.Search, k.OpenPage, k.Wallet, k.Help, k.Quit}
	case ViewSearch:
		return []key.Binding{k.Down, k.Up, k.Select, k.Blur, k.Back}
	case ViewPage:
		return []key.Binding{k.OpenPage, k.Search, k.Back, k.Help}
	case ViewHelp:
		return []key.Binding{k.Back}
	default:
		return nil
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Down, k.Up, k.Select, k.Blur, k.Back},
		{k.Dismiss, k.ClearToasts, k.ToastAction},
		{k.OpenPage, k.Wallet, k.Help, k.Quit},
	}
}
