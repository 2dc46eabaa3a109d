package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/geomingle/internal/cli/formatter"
	"github.com/alexanderramin/geomingle/internal/geo"
)

func newCityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "city",
		Short: "Detect or search for a city",
	}
	cmd.AddCommand(
		newCityDetectCmd(app),
		newCitySearchCmd(app),
	)
	return cmd
}

func newCityDetectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the city for the configured location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.Planner.DetectCity(cmd.Context()))
			return nil
		},
	}
}

func newCitySearchCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Suggest cities matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			suggestions, err := app.Planner.SearchCities(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestions(suggestions))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", geo.DefaultSuggestionLimit, "maximum number of suggestions")
	return cmd
}
