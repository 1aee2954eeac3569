package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/a28218832/Future-Option-Trader/internal/backtest"
	"github.com/a28218832/Future-Option-Trader/internal/calendar"
	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/dataset"
	"github.com/a28218832/Future-Option-Trader/internal/market"
	"github.com/a28218832/Future-Option-Trader/internal/store"
	"github.com/a28218832/Future-Option-Trader/internal/strategy"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		startFlag string
		endFlag   string
		save      bool
		chart     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the wheel strategy backtest over the configured date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if startFlag != "" {
				cfg.Backtest.StartDate = startFlag
			}
			if endFlag != "" {
				cfg.Backtest.EndDate = endFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			start, end, err := cfg.Window()
			if err != nil {
				return err
			}

			data, err := loadDataset(app)
			if err != nil {
				return err
			}
			start, end = defaultWindow(data, start, end)

			wheel, err := strategy.NewWheelStrategy(cfg.WheelParams(), app.Logger)
			if err != nil {
				return err
			}

			replayer := market.NewReplayer(data, start, end, cfg.Backtest.RiskFreeRate, app.Logger)
			rollovers := calendar.BuildRolloverMap(data.TradeDates(start, end), start, end)

			executor, err := backtest.NewExecutor(backtest.ExecutorConfig{
				Replayer:       replayer,
				Rollovers:      rollovers,
				Strategy:       wheel,
				InitialBalance: cfg.Backtest.InitialBalance,
				Logger:         app.Logger,
			})
			if err != nil {
				return err
			}

			app.Logger.Info().
				Str("start", start.Format("2006-01-02")).
				Str("end", end.Format("2006-01-02")).
				Int("days", replayer.Days()).
				Float64("balance", cfg.Backtest.InitialBalance).
				Msg("Backtest starting")

			result, err := executor.Run(cmd.Context())
			if err != nil {
				return err
			}

			printLedger(cmd.OutOrStdout(), result.Ledger)
			printMetrics(cmd.OutOrStdout(), result)
			if chart {
				fmt.Fprintln(cmd.OutOrStdout(), backtest.EquityCurveASCII(result.Ledger, result.InitialBalance, 60, 12))
			}

			if save {
				return saveRun(cmd.Context(), app, wheel.Name(), start, end, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "backtest start date (YYYY-MM-DD, overrides config)")
	cmd.Flags().StringVar(&endFlag, "end", "", "backtest end date (YYYY-MM-DD, overrides config)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run and its ledger to the backtest database")
	cmd.Flags().BoolVar(&chart, "chart", false, "render an ASCII equity curve")
	return cmd
}

func loadDataset(app *App) (*dataset.Dataset, error) {
	cfg := app.Config
	if cfg.Data.FuturesCSV == "" || cfg.Data.OptionsCSV == "" {
		return nil, apperrors.NewValidationError("data", nil, "futures_csv and options_csv must be configured")
	}
	return dataset.Load(cfg.Data.FuturesCSV, cfg.Data.OptionsCSV)
}

// defaultWindow widens unset bounds to cover the whole dataset.
func defaultWindow(data *dataset.Dataset, start, end time.Time) (time.Time, time.Time) {
	if start.IsZero() {
		start = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	dates := data.TradeDates(start, end)
	if len(dates) > 0 {
		start, end = dates[0], dates[len(dates)-1]
	}
	return start, end
}

func saveRun(ctx context.Context, app *App, strategyName string, start, end time.Time, result *backtest.Result) error {
	db, err := store.NewSQLiteStore(app.Config.Backtest.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, store.Run{
		Strategy:       strategyName,
		StartDate:      start,
		EndDate:        end,
		InitialBalance: result.InitialBalance,
		FinalBalance:   result.FinalBalance,
	}, result.Ledger)
	if err != nil {
		return err
	}
	app.Logger.Info().Int64("run_id", runID).Msg("Run saved")
	return nil
}
