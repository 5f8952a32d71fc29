// Package grid locates rectangular patterns in a character grid with two automata.
//
// Stage 1 streams every grid row through an automaton built from the row patterns and
// records, per cell, the id of the row pattern ending there. Stage 2 streams every column
// of that id grid through a second automaton whose alphabet is the stage 1 id space. A
// stage 2 match at cell (i, j) means the full two-dimensional pattern ends there.
package grid

import (
	"fmt"

	"github.com/gnolang/acgrid/internal/automaton"
)

type PatternID = automaton.PatternID

const NoPattern = automaton.NoPattern

// ErrInvalidInput is returned for ragged grids, empty or ragged patterns and
// unknown pattern ids.
var ErrInvalidInput = automaton.ErrInvalidInput

// Grid is a rectangular block of symbols stored row by row.
type Grid struct {
	rows  [][]byte
	width int
}

// NewGrid validates that every row has the same length.
func NewGrid(rows [][]byte) (*Grid, error) {
	g := &Grid{rows: rows}
	if len(rows) > 0 {
		g.width = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidInput, i, len(row), g.width)
		}
	}
	return g, nil
}

// FromStrings builds a grid from one string per row.
func FromStrings(rows ...string) (*Grid, error) {
	out := make([][]byte, len(rows))
	for i, r := range rows {
		out[i] = []byte(r)
	}
	return NewGrid(out)
}

func (g *Grid) Rows() int { return len(g.rows) }

func (g *Grid) Cols() int { return g.width }

// Row returns row i. The slice is shared with the grid.
func (g *Grid) Row(i int) []byte { return g.rows[i] }

func (g *Grid) At(i, j int) byte { return g.rows[i][j] }

// Cells is the stage 1 output: one row pattern id (or NoPattern) per grid cell.
type Cells [][]PatternID

// Column returns a copy of column j.
func (c Cells) Column(j int) []PatternID {
	col := make([]PatternID, len(c))
	for i := range c {
		col[i] = c[i][j]
	}
	return col
}
