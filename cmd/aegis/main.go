package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/debuglog"
	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
	"github.com/pders01/aegis/internal/toast"
	"github.com/pders01/aegis/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath  string
	contentPath string
	logLevel    string
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:          "aegis",
	Short:        "Terminal client for the AegisMind Network site",
	SilenceUsage: true,
	Long: `aegis browses the AegisMind Network pages in the terminal, with instant
search over the site index and toast notifications.`,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = debuglog.Close()
	},
	RunE: runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&contentPath, "content", "", "Path to a content TOML file (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: off, error, warn, info, debug (overrides config)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides lets --log-level and --content win over the file. It
// runs on every load, including reloads from the watcher.
func applyFlagOverrides(cfg *config.Config) error {
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if contentPath != "" {
		cfg.Site.Content = contentPath
	}
	return nil
}

func setupLogging(cfg *config.Config) error {
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level == debuglog.LevelOff {
		return nil
	}
	if err := debuglog.Setup(level, cfg.Log.File); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

// loadContent returns the configured content file, or the built-in pages.
// A configured base URL replaces the one in the content.
func loadContent(cfg *config.Config) (*site.Content, error) {
	var (
		content *site.Content
		err     error
	)
	if cfg.Site.Content != "" {
		content, err = site.Load(cfg.Site.Content)
		if err != nil {
			return nil, err
		}
	} else {
		content = site.Default()
	}

	if cfg.Site.BaseURL != "" && cfg.Site.BaseURL != content.BaseURL {
		content.BaseURL = cfg.Site.BaseURL
		if err := content.Validate(); err != nil {
			return nil, err
		}
	}
	return content, nil
}

// newEngine builds the configured engine. The returned func releases it.
func newEngine(name string, records []site.Record) (search.Searcher, func(), error) {
	switch name {
	case config.EngineBleve:
		eng, err := search.NewBleveEngine(records)
		if err != nil {
			return nil, nil, fmt.Errorf("building search index: %w", err)
		}
		return eng, func() {
			if c, ok := eng.(io.Closer); ok {
				_ = c.Close()
			}
		}, nil
	case config.EngineLinear, "":
		return search.NewEngine(records), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown search engine %q", name)
	}
}

// watchPath is the config file to watch for live reloads, if one exists.
func watchPath() string {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	content, err := loadContent(cfg)
	if err != nil {
		return err
	}

	if !quiet {
		tui.ShowBanner(Version)
	}

	engine, closeEngine, err := newEngine(cfg.Search.Engine, content.Records)
	if err != nil {
		return err
	}
	defer closeEngine()

	tui.ApplyColors(cfg.UI.Colors)

	toasts := toast.NewManager(
		toast.WithPolicy(tui.ToastPolicy(cfg)),
		toast.WithLogger(debuglog.L()),
	)
	defer toasts.Close()

	ctx := toast.NewContext(cmd.Context(), toasts)
	app := tui.NewApp(ctx, cfg, content, engine)

	if path := watchPath(); path != "" {
		reload := func(c *config.Config, err error) {
			if err == nil {
				err = applyFlagOverrides(c)
			}
			app.ConfigReloaded(c, err)
		}
		if err := config.Watch(path, reload); err != nil {
			debuglog.Warnf("config watch disabled: %v", err)
		}
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
