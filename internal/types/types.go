package types

import "time"

// PatternCount is the number of occurrences of one requested pattern.
type PatternCount struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	// ID is the column pattern id; patterns with identical contents share it.
	ID    int `json:"id"`
	Count int `json:"count"`
}

// Match is one occurrence of a pattern, anchored at its top-left cell (0-based).
type Match struct {
	Pattern int    `json:"pattern"`
	Name    string `json:"name"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Height  int    `json:"height"`
	Width   int    `json:"width"`
}

// Result is the outcome of searching one input.
type Result struct {
	Filename string         `json:"filename"`
	Rows     int            `json:"rows"`
	Cols     int            `json:"cols"`
	Patterns []PatternCount `json:"patterns"`
	Matches  []Match        `json:"matches,omitempty"`
	// Cells is the stage 1 id grid; -1 marks cells where no row pattern ends.
	Cells [][]int  `json:"cells,omitempty"`
	Grid  []string `json:"-"`
	// RowNodes and ColumnNodes are the sizes of the two automata.
	RowNodes    int `json:"row_nodes"`
	ColumnNodes int `json:"column_nodes"`
}

// Total returns the number of matches across all patterns.
func (r Result) Total() int {
	total := 0
	for _, p := range r.Patterns {
		total += p.Count
	}
	return total
}

// EngineOptions configures the scan engine. It is embedded in the yaml configuration.
type EngineOptions struct {
	Workers         int           `yaml:"workers"`
	TransitionTable bool          `yaml:"transition_table"`
	CacheDir        string        `yaml:"cache_dir"`
	CacheMaxAge     time.Duration `yaml:"cache_max_age"`
}
