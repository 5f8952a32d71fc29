package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/acgrid/formatter"
	"github.com/gnolang/acgrid/internal"
	tt "github.com/gnolang/acgrid/internal/types"
	"github.com/gnolang/acgrid/scan"
)

// watchCmd: acgrid watch
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Scan the given paths, then rescan every input file that changes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := scan.New(cfgFile)
		if err != nil {
			logger.Error("Failed to initialize scan engine", zap.Error(err))
			return err
		}

		return runWatch(ctx, logger, engine, args, commandStreams(cmd))
	},
}

func runWatch(ctx context.Context, logger *zap.Logger, engine *internal.Engine, paths []string, s streams) error {
	watcher, err := engine.NewWatcher(logger, func(result tt.Result) {
		fmt.Fprint(s.out, formatter.FormatSummary(result))
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	results, err := scan.ProcessFiles(ctx, logger, engine, paths, scan.ProcessFile)
	if ctxErr := ctx.Err(); ctxErr != nil {
		_ = watcher.Close()
		return ctxErr
	}
	for _, result := range results {
		fmt.Fprint(s.out, formatter.FormatSummary(result))
	}
	// broken files are reported and watched until they are fixed
	if err != nil {
		printFailures(s.errOut, err)
	}

	logger.Info("Watching for changes", zap.Strings("paths", paths))
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
