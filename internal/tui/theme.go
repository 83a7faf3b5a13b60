package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme describes the colors and styles for the UI.
type Theme struct {
	Name           string
	Background     lipgloss.Style
	Pane           lipgloss.Style
	Sidebar        lipgloss.Style
	StatusBar      lipgloss.Style
	Header         lipgloss.Style
	Text           lipgloss.Style
	HighlightStyle lipgloss.Style
	FocusStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	TagStyle       lipgloss.Style
	PillStyle      lipgloss.Style
}

// ThemeByName returns a built-in theme, vapor when name is unknown.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "midnight":
		return midnightTheme()
	case "dusk":
		return duskTheme()
	default:
		return vaporTheme()
	}
}

func vaporTheme() Theme {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#9F7AEA")).Padding(1, 2).Background(lipgloss.Color("#1B1C30"))
	return Theme{
		Name:           "vapor",
		Background:     lipgloss.NewStyle().Background(lipgloss.Color("#1B1C30")).Foreground(lipgloss.Color("#E7E7FF")),
		Pane:           pane,
		Sidebar:        pane.BorderForeground(lipgloss.Color("#FF61D8")).Width(28),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#1B1C30")).Background(lipgloss.Color("#FF61D8")).Padding(0, 2),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("#FF61D8")).Bold(true).Underline(true),
		Text:           lipgloss.NewStyle().Foreground(lipgloss.Color("#E7E7FF")),
		HighlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#1B1C30")),
		FocusStyle:     lipgloss.NewStyle().Bold(true).Underline(true),
		ErrorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		TagStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#1B1C30")).Background(lipgloss.Color("#7AF7FF")).Padding(0, 1).Bold(true),
		PillStyle:      lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#FF61D8")).Foreground(lipgloss.Color("#FF61D8")),
	}
}

func midnightTheme() Theme {
	pane := lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#00C9A7")).Background(lipgloss.Color("#02070D")).Padding(1, 2)
	return Theme{
		Name:           "midnight",
		Background:     lipgloss.NewStyle().Background(lipgloss.Color("#02070D")).Foreground(lipgloss.Color("#E3FDFD")),
		Pane:           pane,
		Sidebar:        pane.BorderForeground(lipgloss.Color("#00E6D2")).Width(26),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#02070D")).Background(lipgloss.Color("#00E6D2")).Padding(0, 2),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("#00E6D2")).Bold(true),
		Text:           lipgloss.NewStyle().Foreground(lipgloss.Color("#E3FDFD")),
		HighlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#02070D")),
		FocusStyle:     lipgloss.NewStyle().Bold(true).Underline(true),
		ErrorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		TagStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#02070D")).Background(lipgloss.Color("#00E6D2")).Padding(0, 1),
		PillStyle:      lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("#009688")).Foreground(lipgloss.Color("#00E6D2")),
	}
}

func duskTheme() Theme {
	pane := lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Background(lipgloss.Color("#211830")).Padding(1, 1)
	return Theme{
		Name:           "dusk",
		Background:     lipgloss.NewStyle().Background(lipgloss.Color("#120F16")).Foreground(lipgloss.Color("#F1F2F8")),
		Pane:           pane,
		Sidebar:        pane.Width(25),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#211830")).Background(lipgloss.Color("#FFB4A2")).Padding(0, 2),
		Header:         lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB4A2")).Bold(true).Italic(true),
		Text:           lipgloss.NewStyle().Foreground(lipgloss.Color("#F1F2F8")),
		HighlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#120F16")),
		FocusStyle:     lipgloss.NewStyle().Bold(true).Italic(true).Underline(true),
		ErrorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5E5B")).Bold(true),
		TagStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#211830")).Background(lipgloss.Color("#FFD6BA")).Padding(0, 1),
		PillStyle:      lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#FFCAD4")).Foreground(lipgloss.Color("#FFCAD4")),
	}
}

func nextTheme(current string) string {
	order := []string{"vapor", "midnight", "dusk"}
	for i, theme := range order {
		if theme == strings.ToLower(current) {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}
