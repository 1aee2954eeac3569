// Package cli provides the command-line interface for the backtesting
// application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/a28218832/Future-Option-Trader/internal/config"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies shared by commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:          "fot",
		Short:        "Options wheel strategy backtester for index futures and options",
		Long:         "fot replays historical daily option chains, runs the wheel strategy over them and reports the trade-by-trade P&L ledger.",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(app),
		newGreeksCmd(app),
		newCalendarCmd(app),
		newHistoryCmd(app),
	)
	return rootCmd
}
