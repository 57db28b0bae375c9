// Package ui provides the visual styling for the MentorLab interactive CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. The light scheme follows the classroom-chalkboard brand;
// dark mode flips primary and accent.
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f6f5f2")
	LightForeground = lipgloss.Color("#1f2430")
	LightPrimary    = lipgloss.Color("#2d4f6c")
	LightAccent     = lipgloss.Color("#e8a33d")
	LightSecondary  = lipgloss.Color("#e4e1da")
	LightMuted      = lipgloss.Color("#8a8f98")
	LightBorder     = lipgloss.Color("#d8d4cc")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#161a22")
	DarkForeground = lipgloss.Color("#eceae5")
	DarkPrimary    = lipgloss.Color("#e8a33d")
	DarkAccent     = lipgloss.Color("#2d4f6c")
	DarkSecondary  = lipgloss.Color("#202633")
	DarkMuted      = lipgloss.Color("#5c6370")
	DarkBorder     = lipgloss.Color("#2c3342")
	DarkCard       = lipgloss.Color("#1c2230")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e05252")
	Success     = lipgloss.Color("#6fae4f")
	Warning     = lipgloss.Color("#e8a33d")
	Info        = lipgloss.Color("#4f8fd0")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from terminal hints, defaulting to light mode.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indexes mean
	// a dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("MENTORLAB_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	// Transcript
	UserLabel   lipgloss.Style
	MentorLabel lipgloss.Style
	SystemLabel lipgloss.Style
	SourceLink  lipgloss.Style
	Attachment  lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Progress
	Points lipgloss.Style
	Quest  lipgloss.Style
	Badge  lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Avatar  lipgloss.Style
	Divider lipgloss.Style
	ToolBar lipgloss.Style
	Input   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		MentorLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		SystemLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		SourceLink: lipgloss.NewStyle().
			Foreground(Info).
			Underline(true),

		Attachment: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Success: lipgloss.NewStyle().Foreground(Success),
		Error:   lipgloss.NewStyle().Foreground(Destructive).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Info:    lipgloss.NewStyle().Foreground(Info),

		Points: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Quest: lipgloss.NewStyle().
			Foreground(Success).
			Italic(true),

		Badge: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Foreground).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Avatar: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		ToolBar: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Foreground).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}
