package main

import (
	"context"

	"github.com/spf13/cobra"
)

var sweeperCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Run the timeout and backfill sweeper alone",
	Long: `Run only the sweeper loop: forced moves for timed-out turns and AI backfill
for PVP rooms left waiting. Use this when servers run with server.run_sweeper=false.`,
	RunE: runSweeper,
}

func runSweeper(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	application, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	err = application.sweeper.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	application.close(closeCtx)

	return err
}
