// Package ui holds the terminal styling for CLI runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#0969DA") // blue
	accentColor  = lipgloss.Color("#2DA44E") // green
	warningColor = lipgloss.Color("#D29922") // orange
	errorColor   = lipgloss.Color("#CF222E") // red
	dimColor     = lipgloss.Color("#6E7681") // gray
	scoreColor   = lipgloss.Color("#F778BA") // pink

	BannerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	StageStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(scoreColor).
			Bold(true)
)

// Banner renders the startup header.
func Banner() string {
	return BannerStyle.Render("blogflow\nthe autonomous content publishing team") + "\n"
}

// StageHeader renders a numbered stage separator.
func StageHeader(n int, name string) string {
	rule := strings.Repeat("=", 60)
	return StageStyle.Render(fmt.Sprintf("%s\nSTAGE %d: %s\n%s", rule, n, strings.ToUpper(name), rule))
}
