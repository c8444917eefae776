package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/search"
	"github.com/pders01/aegis/internal/site"
	"github.com/pders01/aegis/internal/tui"
)

var (
	flagSearchEngine string
	flagSearchLimit  int
	flagSitemapOut   string
	flagSitemapDate  string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(*cobra.Command, []string) {
		fmt.Printf("%s %s\n", tui.AppName, Version)
		fmt.Println(tui.Tagline)
		fmt.Println("github.com/pders01/aegis")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/aegis/config.toml",
	Run: func(*cobra.Command, []string) {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the site index and print the ranked results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the pages of the site",
	RunE:  runPages,
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write a sitemaps.org XML document for the site",
	RunE:  runSitemap,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchEngine, "engine", "", "Search engine: linear or bleve (overrides config)")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", search.MaxResults, "Maximum number of results")
	sitemapCmd.Flags().StringVarP(&flagSitemapOut, "out", "o", "", "Output file (default stdout)")
	sitemapCmd.Flags().StringVar(&flagSitemapDate, "lastmod", "", "Last modification date, YYYY-MM-DD (default today)")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, searchCmd, pagesCmd, sitemapCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, content, err := loadAll()
	if err != nil {
		return err
	}

	engineName := cfg.Search.Engine
	if flagSearchEngine != "" {
		engineName = flagSearchEngine
	}
	engine, closeEngine, err := newEngine(engineName, content.Records)
	if err != nil {
		return err
	}
	defer closeEngine()

	query := search.SanitizeQuery(strings.Join(args, " "))
	results, err := engine.Search(query, flagSearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		if len([]rune(query)) < search.MinQueryLength {
			fmt.Fprintln(out, tui.MsgTypeMore)
			return nil
		}
		fmt.Fprintln(out, tui.MsgNoResults)
		if hint := tui.MsgDidYouMean(search.Suggest(content.Records, query, cfg.Search.Suggestions)); hint != "" {
			fmt.Fprintln(out, hint)
		}
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			r.Record.Title,
			r.Record.Category.Label(),
			r.Record.URL,
			strconv.Itoa(r.Score),
		}
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Title", "Category", "Route", "Score"}, rows))
	fmt.Fprintln(out, tui.MsgResultsCount(len(results)))
	return nil
}

func runPages(cmd *cobra.Command, _ []string) error {
	_, content, err := loadAll()
	if err != nil {
		return err
	}

	rows := make([][]string, len(content.Pages))
	for i, p := range content.Pages {
		rows[i] = []string{
			p.Path,
			p.Title,
			strconv.FormatFloat(p.Priority, 'f', 1, 64),
			p.ChangeFreq,
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Route", "Title", "Priority", "Changes"}, rows))
	return nil
}

func runSitemap(cmd *cobra.Command, _ []string) error {
	_, content, err := loadAll()
	if err != nil {
		return err
	}

	lastMod := time.Now()
	if flagSitemapDate != "" {
		lastMod, err = time.Parse(time.DateOnly, flagSitemapDate)
		if err != nil {
			return fmt.Errorf("invalid --lastmod: %w", err)
		}
	}

	if flagSitemapOut == "" {
		return site.WriteSitemap(cmd.OutOrStdout(), content, lastMod)
	}

	f, err := os.Create(flagSitemapOut)
	if err != nil {
		return fmt.Errorf("creating sitemap: %w", err)
	}
	if err := site.WriteSitemap(f, content, lastMod); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing sitemap: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d URLs to %s\n", len(content.Pages), flagSitemapOut)
	return nil
}

// loadAll loads config, logging and content for the one-shot commands.
func loadAll() (*config.Config, *site.Content, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := setupLogging(cfg); err != nil {
		return nil, nil, err
	}
	content, err := loadContent(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, content, nil
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(tui.SecondaryColor).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
