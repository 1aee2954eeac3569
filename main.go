package main

import (
	"fmt"
	"os"

	"github.com/a28218832/Future-Option-Trader/internal/cli"
	"github.com/a28218832/Future-Option-Trader/internal/config"
	"github.com/a28218832/Future-Option-Trader/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("FOT_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
