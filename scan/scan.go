package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/acgrid/internal"
	"github.com/gnolang/acgrid/internal/input"
	tt "github.com/gnolang/acgrid/internal/types"
)

const DefaultConfigPath = ".acgrid.yaml"

type ScanEngine interface {
	Run(filePath string) (tt.Result, error)
	RunSource(source []byte) (tt.Result, error)
}

// Processor runs one file through an engine.
type Processor func(ScanEngine, string) (tt.Result, error)

// New reads the configuration file and builds an engine from it.
// A missing configuration file falls back to the defaults.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	return internal.NewEngine(config.EngineOptions)
}

// ProgressOutput receives the progress bar drawn while scanning directories.
var ProgressOutput io.Writer = os.Stderr

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine ScanEngine,
	sources [][]byte,
	processor func(ScanEngine, []byte) (tt.Result, error),
) ([]tt.Result, error) {
	results := make([]tt.Result, 0, len(sources))
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// ProcessFiles runs ProcessPath on every path. Files that fail do not stop the batch:
// their errors are joined and returned alongside the results of the others. Only a
// canceled context aborts.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine ScanEngine,
	paths []string,
	processor Processor,
) ([]tt.Result, error) {
	var (
		allResults []tt.Result
		errs       []error
	)
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			errs = append(errs, err)
		}
		allResults = append(allResults, results...)
	}

	return allResults, errors.Join(errs...)
}

// FileError reports an input file that could not be processed. An empty Filename
// stands for standard input.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	if e.Filename == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FileErrors flattens an error returned by ProcessFiles into its per-file failures.
func FileErrors(err error) []*FileError {
	var out []*FileError
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case *FileError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		default:
			var fe *FileError
			if errors.As(e, &fe) {
				out = append(out, fe)
			}
		}
	}
	if err != nil {
		walk(err)
	}
	return out
}

// ProcessPath runs processor on path, or on every input file below it when path is a
// directory. Files of a directory are processed concurrently; a file that fails is logged
// and reported as a *FileError in the joined error, while the others still produce
// results. Results come back sorted by filename.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine ScanEngine,
	path string,
	processor Processor,
) ([]tt.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileError{Filename: path, Err: fmt.Errorf("error accessing %s: %w", path, err)}
	}

	if !info.IsDir() {
		if !input.IsInputFile(path) {
			return nil, nil
		}
		result, err := processor(engine, path)
		if err != nil {
			return nil, &FileError{Filename: path, Err: err}
		}
		return []tt.Result{result}, nil
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, &FileError{Filename: path, Err: fmt.Errorf("error walking directory %s: %w", path, err)}
	}
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	defer bar.Finish()

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []tt.Result
		errs    []error
	)

	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := processor(engine, fp)
			_ = bar.Add(1)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				mu.Lock()
				errs = append(errs, &FileError{Filename: fp, Err: err})
				mu.Unlock()
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(filePath)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].(*FileError).Filename < errs[j].(*FileError).Filename
	})
	return results, errors.Join(errs...)
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && input.IsInputFile(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	return files, err
}

func ProcessFile(engine ScanEngine, filePath string) (tt.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine ScanEngine, source []byte) (tt.Result, error) {
	return engine.RunSource(source)
}

// Config represents the configuration file.
type Config struct {
	Name             string `yaml:"name"`
	tt.EngineOptions `yaml:",inline"`
}

// DefaultConfig returns the configuration written by `acgrid init`.
func DefaultConfig() Config {
	return Config{
		Name: "acgrid",
		EngineOptions: tt.EngineOptions{
			Workers:         runtime.NumCPU(),
			TransitionTable: true,
		},
	}
}

// LoadConfig parses the configuration file. An empty path or a missing file yields the
// defaults.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()
	if configurationPath == "" {
		return config, nil
	}

	f, err := os.Open(configurationPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	return config, nil
}
