package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// MealStyle returns the style used for a meal badge.
func MealStyle(m domain.Meal) lipgloss.Style {
	switch m {
	case domain.MealBreakfast:
		return StyleYellow
	case domain.MealLunch:
		return StyleGreen
	case domain.MealDinner:
		return StylePurple
	default:
		return StyleDim
	}
}

// MealBadge renders "● LUNCH" style badges; empty for non-meal activities.
func MealBadge(m domain.Meal) string {
	if m == domain.MealNone {
		return ""
	}
	return MealStyle(m).Render("● " + strings.ToUpper(string(m)))
}

// KindBadge labels an itinerary as the custom plan or a generated one.
func KindBadge(kind domain.ItineraryKind) string {
	switch kind {
	case domain.KindDefault:
		return StyleBlue.Render("custom")
	case domain.KindGenerated:
		return StylePurple.Render("generated")
	default:
		return StyleDim.Render("--")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
