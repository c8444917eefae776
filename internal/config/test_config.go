package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Log = LogConfig{Level: "off"}
	// Never launch a real browser from tests.
	cfg.Browser = BrowserConfig{DefaultOpener: "true"}
	return cfg
}
