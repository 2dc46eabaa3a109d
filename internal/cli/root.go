package cli

import (
	"github.com/alexanderramin/geomingle/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands need to run use cases.
type App struct {
	Planner *service.Planner

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// board are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "geomingle" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "geomingle",
		Short:         "Plan a day in a city, by hand or with a generated itinerary",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newRemoveCmd(app),
		newRemoveItineraryCmd(app),
		newTimeCmd(app),
		newMoveCmd(app),
		newGenerateCmd(app),
		newCityCmd(app),
		newSummarizeCmd(app),
		newExportCmd(app),
		newBoardCmd(app),
	)

	return root
}
