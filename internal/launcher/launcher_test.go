package launcher

import (
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/aegis/internal/config"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

// command runs the test binary with no tests selected, which exits at once.
func (r *recorder) command(name string, args ...string) *exec.Cmd {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()
	return exec.Command(os.Args[0], "-test.run=^$")
}

func newTestLauncher(t *testing.T) (*Launcher, *recorder) {
	t.Helper()
	l := New(config.TestConfig())
	rec := &recorder{}
	l.command = rec.command
	return l, rec
}

func TestNewFallsBackToDefaultOpener(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Browser.Linux = []string{"definitely-not-a-browser-xyz"}
	cfg.Browser.Darwin = []string{"definitely-not-a-browser-xyz"}
	cfg.Browser.Windows = []string{"definitely-not-a-browser-xyz"}
	cfg.Browser.DefaultOpener = "fallback-opener"

	assert.Equal(t, "fallback-opener", New(cfg).Opener())
}

func TestURLFor(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		route   string
		want    string
		wantErr bool
	}{
		{name: "root", base: "https://aegismind.network", route: "/", want: "https://aegismind.network/"},
		{name: "fragment", base: "https://aegismind.network/", route: "/technology#fhe", want: "https://aegismind.network/technology#fhe"},
		{name: "relative route", base: "https://aegismind.network", route: "faq", wantErr: true},
		{name: "traversal", base: "https://aegismind.network", route: "/../etc", wantErr: true},
		{name: "bad scheme", base: "ftp://aegismind.network", route: "/faq", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URLFor(tt.base, tt.route)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenRoute(t *testing.T) {
	l, rec := newTestLauncher(t)

	u, err := l.OpenRoute("/technology#fhe")
	require.NoError(t, err)
	assert.Equal(t, "https://aegismind.network/technology#fhe", u)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"true", u}, rec.calls[0])
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	l, rec := newTestLauncher(t)

	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "", "https://"} {
		assert.Error(t, l.Open(u), u)
	}
	assert.Empty(t, rec.calls)
}

func TestOpenWindowsStart(t *testing.T) {
	l, rec := newTestLauncher(t)
	l.opener = "start"

	require.NoError(t, l.Open("https://aegismind.network/faq"))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "https://aegismind.network/faq"}, rec.calls[0])
}

func TestOpenWithoutOpener(t *testing.T) {
	l, _ := newTestLauncher(t)
	l.opener = ""
	assert.Error(t, l.Open("https://aegismind.network/"))
}
