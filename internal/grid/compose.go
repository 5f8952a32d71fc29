package grid

import (
	"fmt"
	"sync"

	"github.com/gnolang/acgrid/internal/automaton"
)

// Option configures a Composer.
type Option func(*Composer)

// WithWorkers processes rows (stage 1) and columns (stage 2) on up to n goroutines.
// Values below 2 keep everything on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Composer) {
		c.workers = n
	}
}

// WithTransitionTable builds both automata with a precomputed transition table.
func WithTransitionTable() Option {
	return func(c *Composer) {
		c.buildOpts = append(c.buildOpts, automaton.WithTransitionTable())
	}
}

// Composer holds the stage 1 automaton built from the row pattern groups.
type Composer struct {
	rows      *automaton.Automaton[byte]
	workers   int
	buildOpts []automaton.Option
}

// Occurrence is a stage 2 match: column pattern ID ends at (Row, Col).
type Occurrence struct {
	ID  PatternID
	Row int
	Col int
}

// Compile builds the stage 1 automaton from all row pattern groups and returns the ids
// assigned to each group's members. Identical row patterns share one id across groups.
func Compile(groups [][][]byte, opts ...Option) (*Composer, [][]PatternID, error) {
	c := &Composer{}
	for _, opt := range opts {
		opt(c)
	}

	b := automaton.NewBuilder[byte]()
	total := 1
	for _, group := range groups {
		for _, p := range group {
			total += len(p)
		}
	}
	b.Reserve(total)

	ids := make([][]PatternID, len(groups))
	for gi, group := range groups {
		for pi, p := range group {
			if len(p) == 0 {
				return nil, nil, fmt.Errorf("%w: group %d pattern %d is empty", ErrInvalidInput, gi, pi)
			}
		}
		groupIDs, err := b.AddGroup(group)
		if err != nil {
			return nil, nil, err
		}
		ids[gi] = groupIDs
	}

	rows, err := b.Build(c.buildOpts...)
	if err != nil {
		return nil, nil, err
	}
	c.rows = rows
	return c, ids, nil
}

// RowAutomaton returns the stage 1 automaton.
func (c *Composer) RowAutomaton() *automaton.Automaton[byte] {
	return c.rows
}

// Classify runs stage 1: every row is matched from the root, left to right.
func (c *Composer) Classify(g *Grid) Cells {
	cells := make(Cells, g.Rows())
	c.fanOut(g.Rows(), func(i int) {
		m := c.rows.NewMatcher()
		cells[i] = m.Scan(g.Row(i))
	})
	return cells
}

// Count runs both stages and returns, for each requested column pattern, the number of
// cells where it ends. Duplicate column patterns report the same count.
func (c *Composer) Count(g *Grid, columns [][]PatternID) ([]int, error) {
	ids, occurrences, err := c.Locate(g, columns)
	if err != nil {
		return nil, err
	}

	perID := make(map[PatternID]int)
	for _, occ := range occurrences {
		perID[occ.ID]++
	}

	counts := make([]int, len(ids))
	for i, id := range ids {
		counts[i] = perID[id]
	}
	return counts, nil
}

// Locate runs both stages and returns the stage 2 ids assigned to the requested column
// patterns along with every occurrence, ordered by column and then by row.
func (c *Composer) Locate(g *Grid, columns [][]PatternID) ([]PatternID, []Occurrence, error) {
	colAutomaton, ids, err := c.ColumnAutomaton(columns)
	if err != nil {
		return nil, nil, err
	}
	return ids, c.scanColumns(c.Classify(g), g.Cols(), colAutomaton), nil
}

// ColumnAutomaton validates the column patterns and builds the stage 2 automaton,
// returning the id assigned to each of them. Its alphabet is the stage 1 id space,
// NoPattern included as an ordinary symbol that no column pattern contains.
func (c *Composer) ColumnAutomaton(columns [][]PatternID) (*automaton.Automaton[PatternID], []PatternID, error) {
	known := PatternID(c.rows.PatternCount())
	for ci, col := range columns {
		if len(col) == 0 {
			return nil, nil, fmt.Errorf("%w: column pattern %d is empty", ErrInvalidInput, ci)
		}
		for _, id := range col {
			if id < 0 || id >= known {
				return nil, nil, fmt.Errorf("%w: column pattern %d references unknown row pattern %d", ErrInvalidInput, ci, id)
			}
		}
	}
	return automaton.New(columns, c.buildOpts...)
}

func (c *Composer) scanColumns(cells Cells, width int, colAutomaton *automaton.Automaton[PatternID]) []Occurrence {
	perColumn := make([][]Occurrence, width)
	c.fanOut(width, func(j int) {
		m := colAutomaton.NewMatcher()
		for i := range cells {
			if id := m.Advance(cells[i][j]); id != NoPattern {
				perColumn[j] = append(perColumn[j], Occurrence{ID: id, Row: i, Col: j})
			}
		}
	})

	var occurrences []Occurrence
	for _, occ := range perColumn {
		occurrences = append(occurrences, occ...)
	}
	return occurrences
}

// fanOut calls fn for 0..n-1. With workers configured, calls run concurrently on a
// bounded number of goroutines and fanOut returns once all of them are done.
func (c *Composer) fanOut(n int, fn func(i int)) {
	if c.workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)
	for i := 0; i < n; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
