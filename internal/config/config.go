package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Search  SearchConfig  `mapstructure:"search"`
	Toast   ToastConfig   `mapstructure:"toast"`
	UI      UIConfig      `mapstructure:"ui"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Log     LogConfig     `mapstructure:"log"`
	Browser BrowserConfig `mapstructure:"browser"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Content is an optional TOML file replacing the built-in pages and index.
	Content string `mapstructure:"content"`
}

type SearchConfig struct {
	Engine      string        `mapstructure:"engine"`
	Debounce    time.Duration `mapstructure:"debounce"`
	MaxResults  int           `mapstructure:"max_results"`
	Suggestions int           `mapstructure:"suggestions"`
}

type ToastConfig struct {
	DefaultDuration time.Duration `mapstructure:"default_duration"`
	ErrorDuration   time.Duration `mapstructure:"error_duration"`
	LoadingDuration time.Duration `mapstructure:"loading_duration"`
	MaxVisible      int           `mapstructure:"max_visible"`
}

type UIConfig struct {
	Colors UIColors   `mapstructure:"colors"`
	Page   PageConfig `mapstructure:"page"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
	Warning    string `mapstructure:"warning"`
	Info       string `mapstructure:"info"`
}

type PageConfig struct {
	GlamourStyle     string `mapstructure:"glamour_style"`
	WordWrapMaxWidth int    `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int    `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit"`
	Search      string `mapstructure:"search"`
	OpenPage    string `mapstructure:"open_page"`
	Dismiss     string `mapstructure:"dismiss"`
	ClearToasts string `mapstructure:"clear_toasts"`
	ToastAction string `mapstructure:"toast_action"`
	Wallet      string `mapstructure:"wallet"`
	Back        string `mapstructure:"back"`
	Help        string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type BrowserConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

const (
	EngineLinear = "linear"
	EngineBleve  = "bleve"

	// maxSearchResults is the hard cap on displayed search results.
	maxSearchResults = 8
)

var LogLevels = []string{"off", "debug", "info", "warn", "error"}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Site: SiteConfig{
			BaseURL: "https://aegismind.network",
		},
		Search: SearchConfig{
			Engine:      EngineLinear,
			Debounce:    300 * time.Millisecond,
			MaxResults:  maxSearchResults,
			Suggestions: 3,
		},
		Toast: ToastConfig{
			DefaultDuration: 5 * time.Second,
			ErrorDuration:   0,
			LoadingDuration: 0,
			MaxVisible:      5,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#7C3AED",
				Secondary:  "#22D3EE",
				Accent:     "#A78BFA",
				Background: "#0B0B1A",
				Surface:    "#161632",
				Text:       "#E5E7EB",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
				Warning:    "#FBBF24",
				Info:       "#60A5FA",
			},
			Page: PageConfig{
				GlamourStyle:     "dark",
				WordWrapMaxWidth: 100,
				WordWrapMinWidth: 40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:        "q",
				Search:      "s",
				OpenPage:    "o",
				Dismiss:     "d",
				ClearToasts: "l",
				ToastAction: "a",
				Wallet:      "w",
				Back:        "esc",
				Help:        "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".aegis", "aegis.log"),
		},
		Browser: BrowserConfig{
			Darwin:        []string{"open"},
			Linux:         []string{"xdg-open", "sensible-browser", "firefox"},
			Windows:       []string{"start"},
			DefaultOpener: getDefaultOpener(),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "aegis", "config.toml")
}

// setDefaults registers every leaf key so that env overrides and partial
// files both resolve against the defaults.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, val := range flatten(cfg) {
		v.SetDefault(key, val)
	}
}

func flatten(cfg *Config) map[string]any {
	c := cfg.UI.Colors
	b := cfg.Keys.Bindings
	return map[string]any{
		"site.base_url": cfg.Site.BaseURL,
		"site.content":  cfg.Site.Content,

		"search.engine":      cfg.Search.Engine,
		"search.debounce":    cfg.Search.Debounce.String(),
		"search.max_results": cfg.Search.MaxResults,
		"search.suggestions": cfg.Search.Suggestions,

		"toast.default_duration": cfg.Toast.DefaultDuration.String(),
		"toast.error_duration":   cfg.Toast.ErrorDuration.String(),
		"toast.loading_duration": cfg.Toast.LoadingDuration.String(),
		"toast.max_visible":      cfg.Toast.MaxVisible,

		"ui.colors.primary":    c.Primary,
		"ui.colors.secondary":  c.Secondary,
		"ui.colors.accent":     c.Accent,
		"ui.colors.background": c.Background,
		"ui.colors.surface":    c.Surface,
		"ui.colors.text":       c.Text,
		"ui.colors.muted":      c.Muted,
		"ui.colors.error":      c.Error,
		"ui.colors.success":    c.Success,
		"ui.colors.warning":    c.Warning,
		"ui.colors.info":       c.Info,

		"ui.page.glamour_style":       cfg.UI.Page.GlamourStyle,
		"ui.page.word_wrap_max_width": cfg.UI.Page.WordWrapMaxWidth,
		"ui.page.word_wrap_min_width": cfg.UI.Page.WordWrapMinWidth,

		"keys.modifier":              cfg.Keys.Modifier,
		"keys.bindings.quit":         b.Quit,
		"keys.bindings.search":       b.Search,
		"keys.bindings.open_page":    b.OpenPage,
		"keys.bindings.dismiss":      b.Dismiss,
		"keys.bindings.clear_toasts": b.ClearToasts,
		"keys.bindings.toast_action": b.ToastAction,
		"keys.bindings.wallet":       b.Wallet,
		"keys.bindings.back":         b.Back,
		"keys.bindings.help":         b.Help,

		"log.level": cfg.Log.Level,
		"log.file":  cfg.Log.File,

		"browser.darwin":         cfg.Browser.Darwin,
		"browser.linux":          cfg.Browser.Linux,
		"browser.windows":        cfg.Browser.Windows,
		"browser.default_opener": cfg.Browser.DefaultOpener,
	}
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "aegis")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects unknown engines and log levels and negative durations.
// MaxResults is clamped into 1..8 rather than rejected.
func (c *Config) Validate() error {
	switch c.Search.Engine {
	case EngineLinear, EngineBleve:
	default:
		return fmt.Errorf("invalid config: search.engine %q (want %s or %s)", c.Search.Engine, EngineLinear, EngineBleve)
	}

	if !validLevel(c.Log.Level) {
		return fmt.Errorf("invalid config: log.level %q (want one of %s)", c.Log.Level, strings.Join(LogLevels, ", "))
	}

	durations := map[string]time.Duration{
		"search.debounce":        c.Search.Debounce,
		"toast.default_duration": c.Toast.DefaultDuration,
		"toast.error_duration":   c.Toast.ErrorDuration,
		"toast.loading_duration": c.Toast.LoadingDuration,
	}
	for key, d := range durations {
		if d < 0 {
			return fmt.Errorf("invalid config: %s must not be negative, got %s", key, d)
		}
	}

	if c.Search.MaxResults <= 0 || c.Search.MaxResults > maxSearchResults {
		c.Search.MaxResults = maxSearchResults
	}
	if c.Search.Suggestions < 0 {
		c.Search.Suggestions = 0
	}
	if c.Toast.MaxVisible <= 0 {
		c.Toast.MaxVisible = 1
	}
	return nil
}

func validLevel(level string) bool {
	for _, l := range LogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Watch reloads configPath whenever it changes on disk and hands the result
// to onChange. Invalid edits are reported through err and leave the caller's
// current config in place.
func Watch(configPath string, onChange func(*Config, error)) error {
	if configPath == "" {
		return errors.New("watching config: path required")
	}
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decode(v))
	})
	v.WatchConfig()
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Site.Content = expandPath(cfg.Site.Content)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	for key, val := range flatten(config) {
		v.Set(key, val)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
