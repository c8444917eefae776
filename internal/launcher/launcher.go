// Package launcher opens pages of the public site in the user's browser.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/validation"
)

type Launcher struct {
	opener  string
	baseURL string
	// command builds the process; replaced in tests.
	command func(name string, args ...string) *exec.Cmd
}

func New(cfg *config.Config) *Launcher {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = cfg.Browser.Darwin
	case "linux":
		candidates = cfg.Browser.Linux
	case "windows":
		candidates = cfg.Browser.Windows
	default:
		candidates = cfg.Browser.Darwin
	}

	opener := findCommand(candidates...)
	if opener == "" {
		opener = cfg.Browser.DefaultOpener
	}

	return &Launcher{
		opener:  opener,
		baseURL: cfg.Site.BaseURL,
		command: exec.Command,
	}
}

// Opener is the command Open will run.
func (l *Launcher) Opener() string {
	return l.opener
}

// URLFor returns the public URL of a site route.
func (l *Launcher) URLFor(route string) (string, error) {
	return URLFor(l.baseURL, route)
}

// URLFor validates both parts and joins them.
func URLFor(baseURL, route string) (string, error) {
	base, err := validation.ValidateBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateRoute(route); err != nil {
		return "", err
	}
	return validation.JoinURL(base, route), nil
}

// Open starts the opener on url and returns without waiting for it.
func (l *Launcher) Open(url string) error {
	if _, err := validation.ValidateBaseURL(stripForCheck(url)); err != nil {
		return fmt.Errorf("refusing to open %q: %w", url, err)
	}
	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd := l.build(url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// OpenRoute opens a site route on the configured base URL.
func (l *Launcher) OpenRoute(route string) (string, error) {
	u, err := l.URLFor(route)
	if err != nil {
		return "", err
	}
	return u, l.Open(u)
}

func (l *Launcher) build(url string) *exec.Cmd {
	// start is a cmd.exe builtin; the empty argument is the window title.
	if l.opener == "start" {
		return l.command("cmd", "/c", "start", "", url)
	}
	return l.command(l.opener, url)
}

// stripForCheck drops the query and fragment, which base URL validation
// rejects.
func stripForCheck(u string) string {
	for i := 0; i < len(u); i++ {
		if u[i] == '#' || u[i] == '?' {
			return u[:i]
		}
	}
	return u
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
