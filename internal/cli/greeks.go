package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/market"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

func newGreeksCmd(app *App) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Print one trading day's priced option chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", dateFlag)
			if err != nil {
				return apperrors.NewValidationError("date", dateFlag, "expected YYYY-MM-DD")
			}

			data, err := loadDataset(app)
			if err != nil {
				return err
			}

			replayer := market.NewReplayer(data, date, date, app.Config.Backtest.RiskFreeRate, app.Logger)
			snap, ok := replayer.Next()
			if !ok {
				return apperrors.NewDataError("snapshot", dateFlag, apperrors.ErrNoData)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  spot=%.1f\n\n", snap.Date.Format("2006-01-02"), snap.Spot)
			printChain(cmd, "CALLS", snap.Calls)
			printChain(cmd, "PUTS", snap.Puts)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "trading date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("date")
	return cmd
}

func printChain(cmd *cobra.Command, title string, chain models.Chain) {
	fmt.Fprintln(cmd.OutOrStdout(), title)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTRACT\tSTRIKE\tCLOSE\tIV\tDELTA\tGAMMA\tTHETA\tVEGA\tITM")
	for _, q := range chain {
		fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t%.4f\t%.4f\t%.6f\t%.2f\t%.2f\t%.4f\n",
			q.Contract, q.Strike, q.Close, q.IV, q.Delta, q.Gamma, q.Theta, q.Vega, q.ITMProb)
	}
	tw.Flush()
	fmt.Fprintln(cmd.OutOrStdout())
}
