package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/geomingle/internal/cli/formatter"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show all itineraries and their activities",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.Planner.Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshot(snap, app.Planner.Clock()))
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var desc, at string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom activity to My Custom Plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (desc == "" || at == "") && app.interactive() {
				if err := addActivityForm(app.Planner.Clock(), &desc, &at).Run(); err != nil {
					return err
				}
			}
			act, err := app.Planner.AddActivity(cmd.Context(), desc, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s %s\n",
				formatter.Bold(act.Description), act.Time, formatter.TruncID(act.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "activity description")
	cmd.Flags().StringVar(&at, "time", "", "activity time, e.g. 9:30 AM (or 09:30 with a 24h clock)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <activity>",
		Aliases: []string{"remove"},
		Short:   "Remove an activity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := resolveActivity(app.Planner.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := app.Planner.RemoveActivity(cmd.Context(), act.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", formatter.Bold(act.Description))
			return nil
		},
	}
}

func newTimeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "time <activity> <time>",
		Short: "Change the time of an activity",
		Long:  "Change the time of an activity. The activity keeps its position in the itinerary.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := resolveActivity(app.Planner.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := app.Planner.UpdateTime(cmd.Context(), act.ID, args[1]); err != nil {
				return err
			}
			updated, _ := app.Planner.Snapshot().FindActivity(act.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s now at %s\n", formatter.Bold(act.Description), updated.Time)
			return nil
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <activity> <target>",
		Short: "Move an activity onto another activity or itinerary",
		Long: `Move an activity as if dropping it on a target.

A target activity in the same itinerary reorders to its position. A target
in another itinerary moves the activity there, before the target activity,
or to the end when the target is an itinerary.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.Planner.Snapshot()
			act, err := resolveActivity(snap, args[0])
			if err != nil {
				return err
			}
			target, err := resolveTarget(snap, args[1])
			if err != nil {
				return err
			}
			if err := app.Planner.Move(cmd.Context(), act.ID, target); err != nil {
				return err
			}
			moved := app.Planner.Snapshot()
			owner, _ := moved.OwnerOf(act.ID)
			it, _ := moved.Itinerary(owner)
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s (position %d)\n",
				formatter.Bold(act.Description), it.Title, it.IndexOf(act.ID)+1)
			return nil
		},
	}
}

func newSummarizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <activity>",
		Short: "Summarize an activity in one line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := resolveActivity(app.Planner.Snapshot(), args[0])
			if err != nil {
				return err
			}
			summary, err := app.Planner.Summarize(cmd.Context(), act.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(act, summary))
			return nil
		},
	}
}
