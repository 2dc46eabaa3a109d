package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/geomingle/internal/cli/formatter"
	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/validate"
)

// geomingleHuhTheme returns a huh theme in the formatter palette.
func geomingleHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// timePlaceholder is the example time shown for the configured clock.
func timePlaceholder(clock domain.Clock) string {
	if clock == domain.Clock24h {
		return "14:30"
	}
	return "2:30 PM"
}

// addActivityForm collects a description and time for a custom activity.
// Both fields are validated as they are typed.
func addActivityForm(clock domain.Clock, desc, at *string) *huh.Form {
	v := validate.New(clock)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity").
				Placeholder("Picnic in the park").
				Value(desc).
				Validate(func(s string) error {
					_, err := v.Description(s)
					return err
				}),
			huh.NewInput().
				Title("Time").
				Placeholder(timePlaceholder(clock)).
				Value(at).
				Validate(func(s string) error {
					_, err := v.Time(s)
					return err
				}),
		),
	).WithTheme(geomingleHuhTheme()).WithShowHelp(false)
}
