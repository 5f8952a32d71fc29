package grid

import "fmt"

// Pattern is a rectangular block searched for in a grid.
type Pattern struct {
	Name string
	Rows [][]byte
}

// NewPattern builds a pattern from one string per row.
func NewPattern(name string, rows ...string) Pattern {
	p := Pattern{Name: name, Rows: make([][]byte, len(rows))}
	for i, r := range rows {
		p.Rows[i] = []byte(r)
	}
	return p
}

func (p Pattern) Height() int { return len(p.Rows) }

func (p Pattern) Width() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0])
}

// Match is an occurrence of a requested pattern, anchored at its top-left cell.
type Match struct {
	Pattern int
	Top     int
	Left    int
}

// Report is the outcome of Search.
type Report struct {
	// RowIDs holds the stage 1 ids of each pattern's rows.
	RowIDs [][]PatternID
	// ColumnIDs holds the stage 2 id of each pattern.
	ColumnIDs []PatternID
	// Counts holds the number of occurrences of each pattern.
	Counts []int
	// Cells is the stage 1 id grid.
	Cells Cells
	// Matches lists every occurrence, ordered by column of the bottom-right corner, then row.
	Matches []Match
	// RowNodes and ColumnNodes are the trie sizes of both automata.
	RowNodes    int
	ColumnNodes int
}

// Search counts the occurrences of every pattern in g. All patterns must share the same
// height and width: with one pattern size, at most one row pattern and one column pattern
// can end at any cell, so reporting the pattern of the landed node is exhaustive.
func Search(g *Grid, patterns []Pattern, opts ...Option) (*Report, error) {
	if err := validatePatterns(patterns); err != nil {
		return nil, err
	}

	groups := make([][][]byte, len(patterns))
	for i, p := range patterns {
		groups[i] = p.Rows
	}

	c, rowIDs, err := Compile(groups, opts...)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RowIDs:   rowIDs,
		Counts:   make([]int, len(patterns)),
		Cells:    c.Classify(g),
		RowNodes: c.rows.Len(),
	}
	if len(patterns) == 0 {
		return report, nil
	}

	colAutomaton, colIDs, err := c.ColumnAutomaton(rowIDs)
	if err != nil {
		return nil, err
	}
	report.ColumnIDs = colIDs
	report.ColumnNodes = colAutomaton.Len()

	byID := make(map[PatternID][]int)
	for i, id := range colIDs {
		byID[id] = append(byID[id], i)
	}

	height, width := patterns[0].Height(), patterns[0].Width()
	for _, occ := range c.scanColumns(report.Cells, g.Cols(), colAutomaton) {
		for _, pi := range byID[occ.ID] {
			report.Counts[pi]++
			report.Matches = append(report.Matches, Match{
				Pattern: pi,
				Top:     occ.Row - height + 1,
				Left:    occ.Col - width + 1,
			})
		}
	}
	return report, nil
}

func validatePatterns(patterns []Pattern) error {
	if len(patterns) == 0 {
		return nil
	}
	height, width := patterns[0].Height(), patterns[0].Width()
	if height == 0 || width == 0 {
		return fmt.Errorf("%w: pattern %d is empty", ErrInvalidInput, 0)
	}
	for pi, p := range patterns {
		if p.Height() != height {
			return fmt.Errorf("%w: pattern %d has %d rows, expected %d", ErrInvalidInput, pi, p.Height(), height)
		}
		for ri, row := range p.Rows {
			if len(row) != width {
				return fmt.Errorf("%w: pattern %d row %d has %d columns, expected %d", ErrInvalidInput, pi, ri, len(row), width)
			}
		}
	}
	return nil
}
