package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/aegis/internal/config"
	"github.com/pders01/aegis/internal/toast"
)

const AppName = "aegis"

// LogoLines is the canonical block-letter logo.
var LogoLines = []string{
	"▄▀█ █▀▀ █▀▀ █ █▀",
	"█▀█ ██▄ █▄█ █ ▄█",
}

const CompactLogo = `aegis ›`

const Tagline = "Privacy AI Network"

// BannerColors run from violet to cyan, one per banner line.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#7C3AED"),
	lipgloss.Color("#A78BFA"),
	lipgloss.Color("#22D3EE"),
}

// Palette. ApplyColors replaces these from config and rebuilds the styles.
var (
	PrimaryColor   = lipgloss.Color("#7C3AED")
	SecondaryColor = lipgloss.Color("#22D3EE")
	AccentColor    = lipgloss.Color("#A78BFA")

	BackgroundColor = lipgloss.Color("#0B0B1A")
	SurfaceColor    = lipgloss.Color("#161632")
	TextColor       = lipgloss.Color("#E5E7EB")
	MutedColor      = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
	WarningColor = lipgloss.Color("#FBBF24")
	InfoColor    = lipgloss.Color("#60A5FA")
)

var (
	LogoStyle         lipgloss.Style
	TitleStyle        lipgloss.Style
	HeaderStyle       lipgloss.Style
	StatusBarStyle    lipgloss.Style
	SelectedItemStyle lipgloss.Style
	ResultTitleStyle  lipgloss.Style
	HelpStyle         lipgloss.Style
	CrumbStyle        lipgloss.Style
	CrumbCurrentStyle lipgloss.Style
	SeparatorStyle    lipgloss.Style
	ToastBoxStyle     lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	ResultTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	CrumbStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	CrumbCurrentStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	ToastBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
}

// ApplyColors installs a configured palette. Empty entries keep the current
// colour.
func ApplyColors(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	set(&WarningColor, c.Warning)
	set(&InfoColor, c.Info)
	buildStyles()
}

// KindColor is the accent used for a toast of the given kind.
func KindColor(k toast.Kind) lipgloss.Color {
	switch k {
	case toast.KindSuccess:
		return SuccessColor
	case toast.KindError:
		return ErrorColor
	case toast.KindWarning:
		return WarningColor
	case toast.KindLoading:
		return AccentColor
	default:
		return InfoColor
	}
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press ctrl+s to search the site")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the framed startup banner.
func Banner(version string) string {
	lines := make([]string, 0, len(LogoLines)+2)
	lines = append(lines, LogoLines...)
	lines = append(lines, "")

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("%s %s", Tagline, versionTag))
	} else {
		lines = append(lines, Tagline)
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := borderStyle.Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))
	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("◆ ◇ ◆ ◇ ◆")

	center := lipgloss.NewStyle().Width(60).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(banner),
		center.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
