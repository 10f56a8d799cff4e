package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants for the filings table view
const (
	MinViewportWidth = 100
	MaxViewportWidth = 150
	DefaultWidth     = 120
	TableHeight      = 20
)

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("39")  // blue
	ColorHighlight = lipgloss.Color("24")  // dark blue background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("220") // yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("82")  // green
	ColorError     = lipgloss.Color("196") // red
)

// Common styles - reusable style definitions
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)
)

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	style := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	fmt.Println(style.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	style := lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	fmt.Println(style.Render("Error: " + message))
}

// PrintInfo prints a neutral status message
func PrintInfo(message string) {
	fmt.Println(HintStyle.Render(message))
}

// PrintFetchProgress prints paging progress during the filing-list fetch
func PrintFetchProgress(fetched, page int) {
	style := lipgloss.NewStyle().Foreground(ColorAccent)
	fmt.Printf("\r%s", style.Render(fmt.Sprintf("Fetching filing list... page %d (%d filings)", page, fetched)))
}

// PrintDownloadProgress prints per-archive progress during downloads
func PrintDownloadProgress(current, total int, name string) {
	style := lipgloss.NewStyle().Foreground(ColorAccent)
	fmt.Printf("\r\033[K%s", style.Render(fmt.Sprintf("Downloading (%d/%d) %s", current, total, name)))
}
