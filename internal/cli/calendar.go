package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a28218832/Future-Option-Trader/internal/calendar"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the rollover dates in the configured backtest range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			start, end, err := app.Config.Window()
			if err != nil {
				return err
			}

			data, err := loadDataset(app)
			if err != nil {
				return err
			}
			start, end = defaultWindow(data, start, end)

			rollovers := calendar.BuildRolloverMap(data.TradeDates(start, end), start, end)
			for _, d := range rollovers.Dates() {
				ev := rollovers.RolloverInfo(d)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  close=%s  open=%s\n",
					d.Format("2006-01-02"), ev.CloseContract, ev.OpenContract)
			}
			return nil
		},
	}
	return cmd
}
