package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/reagent/domain/run"
	"github.com/felixgeelhaar/reagent/infrastructure/storage/sqlite"
)

// runsOptions holds options for the runs command.
type runsOptions struct {
	storePath    string
	limit        int
	goalPattern  string
	terminations []string
}

// newRunsCmd creates the runs command.
func (a *App) newRunsCmd() *cobra.Command {
	opts := &runsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted runs",
		Long: `List runs persisted with --store, most recent first.

Examples:
  reagent runs --store runs.db
  reagent runs --store runs.db --termination submitted --limit 10
  reagent runs --store runs.db --goal refactor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listRuns(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.storePath, "store", "", "SQLite database to read (required)")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&opts.goalPattern, "goal", "", "Only runs whose goal contains this substring")
	cmd.Flags().StringSliceVar(&opts.terminations, "termination", nil, "Only runs with these termination types")

	_ = cmd.MarkFlagRequired("store")

	return cmd
}

func (a *App) listRuns(cmd *cobra.Command, opts *runsOptions) error {
	store, err := sqlite.NewRunStore(sqlite.FileConfig(opts.storePath))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), run.ListFilter{
		Terminations: opts.terminations,
		GoalPattern:  opts.goalPattern,
		OrderBy:      run.OrderByStartTime,
		Descending:   true,
		Limit:        opts.limit,
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tSTEPS\tCOST\tTERMINATION\tGOAL")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID,
			r.StartTime.Format("2006-01-02 15:04:05"),
			r.Duration().Round(time.Millisecond),
			r.StepCount,
			r.Cost,
			r.Termination.Type,
			truncateGoal(r.Goal),
		)
	}
	return w.Flush()
}

func truncateGoal(goal string) string {
	const max = 60
	if len(goal) <= max {
		return goal
	}
	return goal[:max-3] + "..."
}
