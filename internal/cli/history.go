package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a28218832/Future-Option-Trader/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored backtest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteStore(app.Config.Backtest.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTRATEGY\tSTART\tEND\tTRADES\tPNL\tSAVED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.Strategy,
					r.StartDate.Format("2006-01-02"),
					r.EndDate.Format("2006-01-02"),
					r.Trades,
					FormatPnL(r.FinalBalance-r.InitialBalance),
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
