package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/acgrid/formatter"
	"github.com/gnolang/acgrid/scan"
)

// cellsCmd: acgrid cells
var cellsCmd = &cobra.Command{
	Use:   "cells [paths...]",
	Short: "Print the row pattern id of every grid cell (-1 where none ends, - reads standard input)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, err := scan.New(cfgFile)
		if err != nil {
			logger.Error("Failed to initialize scan engine", zap.Error(err))
			return err
		}

		return runCells(ctx, logger, engine, args, commandStreams(cmd))
	},
}

func runCells(ctx context.Context, logger *zap.Logger, engine scan.ScanEngine, paths []string, s streams) error {
	results, err := collectResults(ctx, logger, engine, paths, s.in)
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Error("Scan interrupted", zap.Error(ctxErr))
		return ctxErr
	}

	w := s.out
	for i, result := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", formatter.DisplayName(result.Filename))
		}
		fmt.Fprint(w, formatter.FormatCells(result))
	}

	if err != nil {
		printFailures(s.errOut, err)
		return err
	}
	return nil
}
