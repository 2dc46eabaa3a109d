package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/geomingle/internal/cli/formatter"
	"github.com/alexanderramin/geomingle/internal/domain"
	"github.com/alexanderramin/geomingle/internal/export"
	"github.com/alexanderramin/geomingle/internal/service"
)

func newRemoveItineraryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-itinerary <itinerary>",
		Short: "Remove a generated itinerary and all of its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := resolveItinerary(app.Planner.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := app.Planner.RemoveItinerary(cmd.Context(), it.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d activities)\n",
				formatter.Bold(it.Title), len(it.Activities))
			return nil
		},
	}
}

func newGenerateCmd(app *App) *cobra.Command {
	var city, prompt string
	var quick bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a one day itinerary for a city",
		Long: `Generate a one day itinerary for a city.

Without --city the city is detected from the configured coordinates.
Photos for each venue are looked up after the plan is inserted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Planning your day...")
			}

			gen, err := func() (*service.Generation, error) {
				defer stop()
				if quick {
					return app.Planner.QuickPlan(ctx, city)
				}
				return app.Planner.Generate(ctx, city, prompt)
			}()
			if err != nil {
				return err
			}

			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Finding photos...")
			}
			// Photos attach as they arrive; an interrupted run leaves the rest behind.
			select {
			case <-gen.Done():
				stop()
			case <-ctx.Done():
				stop()
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("photo lookup interrupted"))
			}

			snap := app.Planner.Snapshot()
			for i, it := range snap.Itineraries {
				if it.ID == gen.Itinerary.ID {
					fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItinerary(it, i, app.Planner.Clock()))
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city to plan for (default: detected)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "what you would like to do, e.g. \"museums and street food\"")
	cmd.Flags().BoolVar(&quick, "quick", false, "plan a balanced day without a prompt")
	cmd.MarkFlagsMutuallyExclusive("prompt", "quick")
	cmd.MarkFlagsOneRequired("prompt", "quick")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var format, out, city string

	cmd := &cobra.Command{
		Use:   "export <itinerary>",
		Short: "Export an itinerary as text, PNG or PDF",
		Long: `Export an itinerary as text, PNG or PDF.

The file name defaults to geomingle-itinerary-<title>.<ext>. Use --out - to
write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := resolveItinerary(app.Planner.Snapshot(), args[0])
			if err != nil {
				return err
			}
			r, err := export.NewRenderer(format)
			if err != nil {
				return err
			}
			if city == "" {
				city = it.City
			}
			opts := export.Options{Clock: app.Planner.Clock(), City: city}

			if out == "-" {
				return r.Render(cmd.OutOrStdout(), it, opts)
			}
			if out == "" {
				out = export.FileName(it, extension(r))
			}
			if err := writeExport(out, r, it, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatter.Bold(it.Title), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "export format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: derived from the title)")
	cmd.Flags().StringVar(&city, "city", "", "city for the share headline (default: the itinerary's city)")
	return cmd
}

// writeExport renders into path. A partially written file is removed on error.
func writeExport(path string, r export.Renderer, it domain.Itinerary, opts export.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.Render(f, it, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("rendering %s: %w", r.Format(), err)
	}
	return f.Close()
}

func extension(r export.Renderer) string {
	if r.Format() == "text" {
		return "txt"
	}
	return r.Format()
}
