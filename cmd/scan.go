package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/acgrid/formatter"
	tt "github.com/gnolang/acgrid/internal/types"
	"github.com/gnolang/acgrid/scan"
)

// stdinPath reads a problem from standard input in place of a file.
const stdinPath = "-"

var (
	scanJsonOutput bool
	outPath        string
	matchLimit     int
)

type outputOptions struct {
	json       bool
	jsonOutput string
	matchLimit int
}

// streams are the reader and writers a command talks to.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func commandStreams(cmd *cobra.Command) streams {
	return streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Count and locate every pattern in the given input files (- reads standard input)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, err := scan.New(cfgFile)
		if err != nil {
			logger.Error("Failed to initialize scan engine", zap.Error(err))
			return err
		}

		return runScan(ctx, logger, engine, args, commandStreams(cmd), outputOptions{
			json:       scanJsonOutput,
			jsonOutput: outPath,
			matchLimit: matchLimit,
		})
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJsonOutput, "json", false, "Output results in JSON format")
	scanCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	scanCmd.Flags().IntVar(&matchLimit, "max-matches", formatter.DefaultMatchLimit, "Maximum number of matches shown per file (0 shows all)")
}

func runScan(ctx context.Context, logger *zap.Logger, engine scan.ScanEngine, paths []string, s streams, opts outputOptions) error {
	results, err := collectResults(ctx, logger, engine, paths, s.in)
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Error("Scan interrupted", zap.Error(ctxErr))
		return ctxErr
	}

	if perr := printResults(logger, s.out, results, opts); perr != nil {
		return perr
	}
	if err != nil {
		printFailures(s.errOut, err)
		return err
	}
	return nil
}

// collectResults runs every path through the engine, standard input included when a path
// is "-". Failed inputs are returned as a joined error next to the results of the others.
func collectResults(ctx context.Context, logger *zap.Logger, engine scan.ScanEngine, paths []string, in io.Reader) ([]tt.Result, error) {
	var (
		files     []string
		readStdin bool
		results   []tt.Result
		errs      []error
	)
	for _, path := range paths {
		if path == stdinPath {
			readStdin = true
			continue
		}
		files = append(files, path)
	}

	if readStdin {
		source, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("error reading standard input: %w", err)
		}
		sourceResults, err := scan.ProcessSources(ctx, logger, engine, [][]byte{source}, scan.ProcessSource)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			errs = append(errs, &scan.FileError{Err: err})
		}
		results = append(results, sourceResults...)
	}

	if len(files) > 0 {
		fileResults, err := scan.ProcessFiles(ctx, logger, engine, files, scan.ProcessFile)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			errs = append(errs, err)
		}
		results = append(results, fileResults...)
	}

	return results, errors.Join(errs...)
}

func printFailures(w io.Writer, err error) {
	failures := scan.FileErrors(err)
	if len(failures) == 0 {
		fmt.Fprint(w, formatter.FormatError("", err))
		return
	}
	for _, f := range failures {
		fmt.Fprint(w, formatter.FormatError(f.Filename, f.Err))
	}
}

func printResults(logger *zap.Logger, w io.Writer, results []tt.Result, opts outputOptions) error {
	if !opts.json {
		// text output
		for _, result := range results {
			fmt.Fprint(w, formatter.FormatSummary(result))
			if len(result.Matches) > 0 {
				fmt.Fprintln(w)
				fmt.Fprint(w, formatter.GenerateFormattedMatches(result, opts.matchLimit))
			}
		}
		return nil
	}

	// JSON output
	d, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Error("Error marshalling results to JSON", zap.Error(err))
		return err
	}
	if opts.jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(opts.jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
		return err
	}
	return nil
}
