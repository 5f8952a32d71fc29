// Package internal provides the scan engine behind the acgrid command.
//
// Engine reads a problem file (a character grid plus a set of equally sized rectangular
// patterns), runs the two-level automaton search from package grid and turns the report
// into a types.Result. Results can be cached on disk, keyed by input path and validated by
// a content digest, and a Watcher can re-run the engine whenever an input file is written.
//
// Usage:
//
//	engine, err := internal.NewEngine(types.EngineOptions{Workers: 4})
//	if err != nil {
//	    // handle error
//	}
//
//	result, err := engine.Run("testdata/board.acg")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, p := range result.Patterns {
//	    fmt.Printf("%s: %d\n", p.Name, p.Count)
//	}
//
// This package is intended for internal use within the tool and should not be
// imported by external packages.
package internal
