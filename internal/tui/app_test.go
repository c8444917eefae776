package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/debuglog"
	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
	"github.com/pders01/aegis/internal/toast"
)

type fakeOpener struct {
	routes []string
	err    error
}

func (f *fakeOpener) URLFor(route string) (string, error) {
	return "https://aegismind.network" + route, nil
}

func (f *fakeOpener) OpenRoute(route string) (string, error) {
	f.routes = append(f.routes, route)
	if f.err != nil {
		return "", f.err
	}
	return f.URLFor(route)
}

type testApp struct {
	*App
	clock  *clockwork.FakeClock
	opener *fakeOpener
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.TestConfig()
	clock := clockwork.NewFakeClock()
	mgr := toast.NewManager(toast.WithClock(clock), toast.WithPolicy(ToastPolicy(cfg)))
	t.Cleanup(mgr.Close)

	content := site.Default()
	ctx := toast.NewContext(context.Background(), mgr)
	app := NewApp(ctx, cfg, content, search.NewEngine(content.Records), WithClock(clock))
	opener := &fakeOpener{}
	app.launcher = opener
	return &testApp{App: app, clock: clock, opener: opener}
}

func (ta *testApp) send(msg tea.Msg) tea.Cmd {
	_, cmd := ta.Update(msg)
	return cmd
}

func (ta *testApp) typeText(s string) {
	for _, r := range s {
		ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// nextEvent reads App.events until a message of type T arrives.
func nextEvent[T any](t *testing.T, a *App) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-a.events:
			if msg, ok := ev.(T); ok {
				return msg
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

// runSearch types q in the search view and lets the debounce fire.
func (ta *testApp) runSearch(t *testing.T, q string) {
	t.Helper()
	ta.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	ta.typeText(q)
	ta.clock.Advance(ta.config.Search.Debounce)

	fire := nextEvent[searchDebounceFireMsg](t, ta.App)
	cmd := ta.send(fire)
	require.NotNil(t, cmd)
	ta.send(cmd())
}

func TestNewAppRequiresToastManager(t *testing.T) {
	cfg := config.TestConfig()
	content := site.Default()
	assert.Panics(t, func() {
		NewApp(context.Background(), cfg, content, search.NewEngine(content.Records))
	})
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.Msg
		expectedView View
		setupFunc    func(*testApp)
	}{
		{
			name:         "ViewHome to ViewSearch on ctrl+s",
			initialView:  ViewHome,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlS},
			expectedView: ViewSearch,
		},
		{
			name:         "ViewHome to ViewPage on Enter",
			initialView:  ViewHome,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewPage,
		},
		{
			name:         "ViewHome to ViewHelp on ?",
			initialView:  ViewHome,
			msg:          tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")},
			expectedView: ViewHelp,
		},
		{
			name:         "ViewHelp back to previous view on Escape",
			initialView:  ViewHelp,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewPage,
			setupFunc: func(ta *testApp) {
				ta.previousView = ViewPage
			},
		},
		{
			name:         "ViewPage to ViewHome on Escape",
			initialView:  ViewPage,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewHome,
		},
		{
			name:         "ViewPage to ViewSearch on ctrl+s",
			initialView:  ViewPage,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlS},
			expectedView: ViewSearch,
		},
		{
			name:         "ViewSearch with empty box back to previous view on Escape",
			initialView:  ViewSearch,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewHome,
			setupFunc: func(ta *testApp) {
				ta.previousView = ViewHome
				ta.searchInput.Focus()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			ta.view = tt.initialView
			if tt.setupFunc != nil {
				tt.setupFunc(ta)
			}

			ta.send(tt.msg)

			assert.Equal(t, tt.expectedView, ta.view)
		})
	}
}

func TestQuitKeys(t *testing.T) {
	t.Run("q quits outside text input", func(t *testing.T) {
		ta := newTestApp(t)
		cmd := ta.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("q is typed while searching", func(t *testing.T) {
		ta := newTestApp(t)
		ta.send(tea.KeyMsg{Type: tea.KeyCtrlS})
		ta.typeText("q")
		assert.Equal(t, "q", ta.searchInput.Value())
		assert.Equal(t, ViewSearch, ta.view)
	})

	t.Run("ctrl+c always quits", func(t *testing.T) {
		ta := newTestApp(t)
		ta.send(tea.KeyMsg{Type: tea.KeyCtrlS})
		cmd := ta.send(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestSearchIsDebounced(t *testing.T) {
	ta := newTestApp(t)
	ta.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	ta.typeText("fhe")

	assert.Equal(t, "fhe", ta.box.query)
	assert.Empty(t, ta.box.results, "no search before the debounce window elapses")

	ta.clock.Advance(ta.config.Search.Debounce)
	fire := nextEvent[searchDebounceFireMsg](t, ta.App)
	assert.Equal(t, ta.searchSeq, fire.seq)

	cmd := ta.send(fire)
	require.NotNil(t, cmd)
	ta.send(cmd())

	require.Len(t, ta.box.results, 3)
	assert.Equal(t, "Fully Homomorphic Encryption (FHE)", ta.box.results[0].Record.Title)
	assert.Equal(t, panelResults, ta.box.state())
	assert.Equal(t, -1, ta.box.selected)
	assert.Contains(t, ta.View(), "Fully Homomorphic Encryption (FHE)")
}

func TestStaleSearchMessagesAreIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.runSearch(t, "fhe")
	require.Len(t, ta.box.results, 3)

	stale := searchResultsMsg{seq: ta.searchSeq - 1, query: "fh", results: nil}
	ta.send(stale)
	assert.Len(t, ta.box.results, 3)

	assert.Nil(t, ta.send(searchDebounceFireMsg{seq: ta.searchSeq - 1}))
}

func TestShortQueryShowsHint(t *testing.T) {
	ta := newTestApp(t)
	ta.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	ta.typeText("f")

	assert.Equal(t, panelHint, ta.box.state())
	assert.False(t, ta.debouncer.Pending(), "one character never reaches the engine")
	assert.Contains(t, ta.View(), MsgTypeMore)
}

func TestNoResultsShowsSuggestions(t *testing.T) {
	ta := newTestApp(t)
	ta.runSearch(t, "blkchn")

	assert.Equal(t, panelEmpty, ta.box.state())
	assert.NotEmpty(t, ta.box.suggestions)
	view := ta.View()
	assert.Contains(t, view, MsgNoResults)
	assert.Contains(t, view, "Did you mean")
}

func TestSearchErrorRaisesToast(t *testing.T) {
	ta := newTestApp(t)
	ta.view = ViewSearch
	ta.send(searchResultsMsg{seq: ta.searchSeq, err: errors.New("index closed")})

	ts := ta.toasts.Toasts()
	require.Len(t, ts, 1)
	assert.Equal(t, toast.KindError, ts[0].Kind)
	assert.Equal(t, MsgSearchFailed, ts[0].Title)
}

func TestResultsIgnoredOutsideSearchView(t *testing.T) {
	ta := newTestApp(t)
	ta.view = ViewHome
	ta.send(searchResultsMsg{seq: ta.searchSeq, results: []*search.Result{{Record: site.Record{Title: "x"}}}})
	assert.Empty(t, ta.box.results)
}

func TestEventMsgRearmsListener(t *testing.T) {
	ta := newTestApp(t)
	cmd := ta.send(eventMsg{inner: toastsChangedMsg{}})
	assert.NotNil(t, cmd)
}

func TestToastExpiryReachesUI(t *testing.T) {
	ta := newTestApp(t)
	ta.toasts.Success("Saved")
	nextEvent[toastsChangedMsg](t, ta.App)

	ta.clock.Advance(ta.config.Toast.DefaultDuration)
	nextEvent[toastsChangedMsg](t, ta.App)

	assert.Equal(t, 0, ta.toasts.Len())
}

func TestWindowResize(t *testing.T) {
	ta := newTestApp(t)
	ta.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, ta.width)
	assert.Equal(t, 40, ta.height)
	assert.Equal(t, 112, ta.searchInput.Width)
}

func TestNavigate(t *testing.T) {
	t.Run("known route renders the page", func(t *testing.T) {
		ta := newTestApp(t)
		cmd := ta.navigate("/technology#fhe")
		require.NotNil(t, cmd)
		assert.Equal(t, ViewPage, ta.view)
		assert.True(t, ta.loadingPage)
		assert.Contains(t, ta.View(), MsgRenderingPage)

		msg, ok := cmd().(pageRenderedMsg)
		require.True(t, ok)
		assert.Equal(t, "/technology#fhe", msg.route)
		assert.GreaterOrEqual(t, msg.anchorLine, 0)

		ta.send(msg)
		assert.False(t, ta.loadingPage)
		view := ta.View()
		assert.Contains(t, view, "Technology")
		assert.Contains(t, view, "Home")
	})

	t.Run("unknown route keeps the view and raises an error", func(t *testing.T) {
		ta := newTestApp(t)
		assert.Nil(t, ta.navigate("/nowhere"))
		assert.Equal(t, ViewHome, ta.view)

		ts := ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, MsgPageNotFound, ts[0].Title)
		assert.Equal(t, "/nowhere", ts[0].Description)
	})

	t.Run("render for another route is dropped", func(t *testing.T) {
		ta := newTestApp(t)
		ta.navigate("/faq")
		ta.send(pageRenderedMsg{route: "/team", content: "team", anchorLine: -1})
		assert.True(t, ta.loadingPage)
	})
}

func TestFindAnchorLine(t *testing.T) {
	rendered := "\x1b[1mTechnology\x1b[0m\n\nintro\n  \x1b[35mFully Homomorphic Encryption (FHE)\x1b[0m\nbody"

	assert.Equal(t, 3, findAnchorLine(rendered, "fully homomorphic encryption (fhe)"))
	assert.Equal(t, -1, findAnchorLine(rendered, "HTTPZ"))
	assert.Equal(t, -1, findAnchorLine(rendered, ""))
}

func TestWalletToggle(t *testing.T) {
	ta := newTestApp(t)

	ta.send(tea.KeyMsg{Type: tea.KeyCtrlW})
	require.True(t, ta.walletConnected)
	ts := ta.toasts.Toasts()
	require.Len(t, ts, 1)
	assert.Equal(t, MsgWalletConnected, ts[0].Title)
	require.NotNil(t, ts[0].Action)
	assert.Equal(t, "Disconnect", ts[0].Action.Label)
	assert.Contains(t, ta.View(), "● wallet")

	// The toast action asks the UI to disconnect.
	ta.send(tea.KeyMsg{Type: tea.KeyCtrlA})
	toggle := nextEvent[walletToggleMsg](t, ta.App)
	ta.send(toggle)

	assert.False(t, ta.walletConnected)
	ts = ta.toasts.Toasts()
	require.Len(t, ts, 1)
	assert.Equal(t, MsgWalletDisconnected, ts[0].Title)
	assert.Equal(t, toast.KindInfo, ts[0].Kind)
}

func TestOpenPage(t *testing.T) {
	t.Run("success replaces the loading toast", func(t *testing.T) {
		ta := newTestApp(t)
		ta.navigate("/faq")

		cmd := ta.send(tea.KeyMsg{Type: tea.KeyCtrlO})
		require.NotNil(t, cmd)
		ts := ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, toast.KindLoading, ts[0].Kind)
		assert.True(t, ts[0].Persistent())

		ta.send(cmd())
		assert.Equal(t, []string{"/faq"}, ta.opener.routes)
		ts = ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, toast.KindSuccess, ts[0].Kind)
		assert.Equal(t, "https://aegismind.network/faq", ts[0].Description)
	})

	t.Run("failure raises an error toast", func(t *testing.T) {
		ta := newTestApp(t)
		ta.opener.err = errors.New("no browser")

		cmd := ta.send(tea.KeyMsg{Type: tea.KeyCtrlO})
		require.NotNil(t, cmd)
		ta.send(cmd())

		ts := ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, toast.KindError, ts[0].Kind)
		assert.Equal(t, "no browser", ts[0].Description)
	})
}

func TestConfigReload(t *testing.T) {
	t.Run("applies the new config", func(t *testing.T) {
		ta := newTestApp(t)
		cfg := config.TestConfig()
		cfg.Search.Debounce = 50 * time.Millisecond
		cfg.Keys.Bindings.Search = "f"

		ta.send(configReloadedMsg{cfg: cfg})

		assert.Same(t, cfg, ta.config)
		assert.Equal(t, 50*time.Millisecond, ta.debouncer.Delay())
		ts := ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, MsgConfigReloaded, ts[0].Title)

		ta.send(tea.KeyMsg{Type: tea.KeyCtrlF})
		assert.Equal(t, ViewSearch, ta.view)
	})

	t.Run("applies the log level", func(t *testing.T) {
		ta := newTestApp(t)
		t.Cleanup(func() { debuglog.SetLevel(debuglog.LevelOff) })
		cfg := config.TestConfig()
		cfg.Log.Level = "debug"

		ta.send(configReloadedMsg{cfg: cfg})
		assert.Equal(t, debuglog.LevelDebug, debuglog.GetLevel())

		cfg = config.TestConfig()
		cfg.Log.Level = "off"
		ta.send(configReloadedMsg{cfg: cfg})
		assert.Equal(t, debuglog.LevelOff, debuglog.GetLevel())
	})

	t.Run("errors keep the old config", func(t *testing.T) {
		ta := newTestApp(t)
		old := ta.config
		ta.ConfigReloaded(nil, errors.New("bad toml"))
		ta.send(nextEvent[configReloadedMsg](t, ta.App))

		assert.Same(t, old, ta.config)
		ts := ta.toasts.Toasts()
		require.Len(t, ts, 1)
		assert.Equal(t, toast.KindError, ts[0].Kind)
		assert.Equal(t, "bad toml", ts[0].Description)
	})
}

func TestErrorMsgRaisesToast(t *testing.T) {
	ta := newTestApp(t)
	ta.send(errorMsg{err: errors.New("boom")})

	ts := ta.toasts.Toasts()
	require.Len(t, ts, 1)
	assert.Equal(t, "boom", ts[0].Title)
}

func TestViewRendersToastStack(t *testing.T) {
	ta := newTestApp(t)
	ta.config.Toast.MaxVisible = 2
	ta.toasts.Info("first")
	ta.toasts.Info("second")
	ta.toasts.Warning("third", toast.WithAction("Undo", func() {}))

	view := ta.View()
	assert.Contains(t, view, "+1 more")
	assert.NotContains(t, view, "first")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "third")
	assert.Contains(t, view, "[ctrl+a] Undo")
	assert.LessOrEqual(t, strings.Count(view, "\n")+1, ta.height+1)
}

func TestSpinnerRunsOnlyWithLoadingToast(t *testing.T) {
	ta := newTestApp(t)
	assert.Nil(t, ta.send(toastsChangedMsg{}))

	ta.toasts.Loading("Working")
	assert.NotNil(t, ta.send(toastsChangedMsg{}))
	assert.True(t, ta.spinning)
	assert.Nil(t, ta.send(toastsChangedMsg{}), "spinner already running")

	ta.toasts.Clear()
	ta.send(ta.spinner.Tick())
	assert.False(t, ta.spinning)
}

func TestDescribeEngine(t *testing.T) {
	content := site.Default()
	assert.Equal(t, "engine: linear • idx: 15 docs", describeEngine(search.NewEngine(content.Records)))

	eng, err := search.NewBleveEngine(content.Records)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.(io.Closer).Close() })
	assert.Equal(t, "engine: bleve • idx: 15 docs", describeEngine(eng))
}
