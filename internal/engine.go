package internal

import (
	"fmt"

	"github.com/gnolang/acgrid/internal/grid"
	"github.com/gnolang/acgrid/internal/input"
	tt "github.com/gnolang/acgrid/internal/types"
)

// Engine runs the two-level search over input files.
type Engine struct {
	options tt.EngineOptions
	cache   *Cache
}

// NewEngine creates a new scan engine. A non-empty CacheDir enables the result cache.
func NewEngine(options tt.EngineOptions) (*Engine, error) {
	engine := &Engine{options: options}

	if options.CacheDir != "" {
		cache, err := NewCache(options.CacheDir)
		if err != nil {
			return nil, err
		}
		if options.CacheMaxAge > 0 {
			cache.SetMaxAge(options.CacheMaxAge)
		}
		engine.cache = cache
	}

	return engine, nil
}

func (e *Engine) searchOptions() []grid.Option {
	var opts []grid.Option
	if e.options.Workers > 1 {
		opts = append(opts, grid.WithWorkers(e.options.Workers))
	}
	if e.options.TransitionTable {
		opts = append(opts, grid.WithTransitionTable())
	}
	return opts
}

// Run searches the problem stored in filename.
func (e *Engine) Run(filename string) (tt.Result, error) {
	if e.cache != nil {
		if result, ok := e.cache.Get(filename); ok {
			return result, nil
		}
	}

	problem, err := input.ReadFile(filename)
	if err != nil {
		return tt.Result{}, err
	}

	result, err := e.search(filename, problem)
	if err != nil {
		return tt.Result{}, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, result); err != nil {
			return tt.Result{}, fmt.Errorf("error caching result for %s: %w", filename, err)
		}
	}

	return result, nil
}

// RunSource searches a problem held in memory. Results are never cached.
func (e *Engine) RunSource(source []byte) (tt.Result, error) {
	problem, err := input.ParseBytes(source)
	if err != nil {
		return tt.Result{}, err
	}
	return e.search("", problem)
}

func (e *Engine) search(filename string, problem *input.Problem) (tt.Result, error) {
	report, err := grid.Search(problem.Grid, problem.Patterns, e.searchOptions()...)
	if err != nil {
		return tt.Result{}, fmt.Errorf("error searching %s: %w", displayName(filename), err)
	}
	return newResult(filename, problem, report), nil
}

func newResult(filename string, problem *input.Problem, report *grid.Report) tt.Result {
	g := problem.Grid
	result := tt.Result{
		Filename:    filename,
		Rows:        g.Rows(),
		Cols:        g.Cols(),
		Patterns:    make([]tt.PatternCount, len(problem.Patterns)),
		Cells:       make([][]int, len(report.Cells)),
		Grid:        make([]string, g.Rows()),
		RowNodes:    report.RowNodes,
		ColumnNodes: report.ColumnNodes,
	}

	for i, p := range problem.Patterns {
		result.Patterns[i] = tt.PatternCount{
			Index: i,
			Name:  p.Name,
			ID:    int(report.ColumnIDs[i]),
			Count: report.Counts[i],
		}
	}

	for _, m := range report.Matches {
		p := problem.Patterns[m.Pattern]
		result.Matches = append(result.Matches, tt.Match{
			Pattern: m.Pattern,
			Name:    p.Name,
			Row:     m.Top,
			Col:     m.Left,
			Height:  p.Height(),
			Width:   p.Width(),
		})
	}

	for i, row := range report.Cells {
		result.Cells[i] = make([]int, len(row))
		for j, id := range row {
			result.Cells[i][j] = int(id)
		}
		result.Grid[i] = string(g.Row(i))
	}

	return result
}

func displayName(filename string) string {
	if filename == "" {
		return "<stdin>"
	}
	return filename
}
