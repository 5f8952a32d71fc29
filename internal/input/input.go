// Package input reads search problems in the plain token format:
//
//	n m
//	<n rows of m symbols>
//	count k l
//	<count*k rows of l symbols>
//
// Tokens are separated by any whitespace. Pattern p consists of rows p*k through p*k+k-1.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gnolang/acgrid/internal/grid"
)

var extensions = map[string]bool{
	".acg": true,
	".in":  true,
	".txt": true,
}

// IsInputFile reports whether path has one of the recognised input extensions.
func IsInputFile(path string) bool {
	return extensions[filepath.Ext(path)]
}

// Problem is a grid together with the patterns to search for.
type Problem struct {
	Grid     *grid.Grid
	Patterns []grid.Pattern
	// Height and Width are the declared k and l of every pattern.
	Height int
	Width  int
}

// Groups returns the rows of every pattern, one group per pattern.
func (p *Problem) Groups() [][][]byte {
	groups := make([][][]byte, len(p.Patterns))
	for i, pat := range p.Patterns {
		groups[i] = pat.Rows
	}
	return groups
}

// ReadFile parses the problem stored at path.
func ReadFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return p, nil
}

// ParseBytes parses a problem held in memory.
func ParseBytes(src []byte) (*Problem, error) {
	return Parse(bytes.NewReader(src))
}

// Parse reads one problem from r.
func Parse(r io.Reader) (*Problem, error) {
	tr := newTokenReader(r)

	n, err := tr.count("grid rows")
	if err != nil {
		return nil, err
	}
	m, err := tr.count("grid columns")
	if err != nil {
		return nil, err
	}
	rows, err := tr.rows(n, m, "grid row")
	if err != nil {
		return nil, err
	}
	g, err := grid.NewGrid(rows)
	if err != nil {
		return nil, err
	}

	number, err := tr.count("pattern count")
	if err != nil {
		return nil, err
	}
	k, err := tr.positive("pattern height")
	if err != nil {
		return nil, err
	}
	l, err := tr.positive("pattern width")
	if err != nil {
		return nil, err
	}

	// counts come from the file; slices grow as rows arrive so a short file fails at EOF
	var patterns []grid.Pattern
	for i := 0; i < number; i++ {
		patternRows, err := tr.rows(k, l, fmt.Sprintf("pattern %d row", i))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, grid.Pattern{Name: "pattern-" + strconv.Itoa(i), Rows: patternRows})
	}

	return &Problem{Grid: g, Patterns: patterns, Height: k, Width: l}, nil
}

type tokenReader struct {
	scanner *bufio.Scanner
	offset  int
}

func newTokenReader(r io.Reader) *tokenReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	s.Split(bufio.ScanWords)
	return &tokenReader{scanner: s}
}

func (t *tokenReader) next(what string) ([]byte, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", what, err)
		}
		return nil, fmt.Errorf("%w: unexpected end of input at token %d, expected %s", grid.ErrInvalidInput, t.offset, what)
	}
	t.offset++
	// the scanner reuses its buffer
	return bytes.Clone(t.scanner.Bytes()), nil
}

func (t *tokenReader) count(what string) (int, error) {
	tok, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(tok))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", grid.ErrInvalidInput, what, tok)
	}
	return v, nil
}

func (t *tokenReader) positive(what string) (int, error) {
	v, err := t.count(what)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: %s must be positive", grid.ErrInvalidInput, what)
	}
	return v, nil
}

func (t *tokenReader) rows(n, width int, what string) ([][]byte, error) {
	var rows [][]byte
	for i := 0; i < n; i++ {
		tok, err := t.next(what)
		if err != nil {
			return nil, err
		}
		if len(tok) != width {
			return nil, fmt.Errorf("%w: %s %d has %d symbols, expected %d", grid.ErrInvalidInput, what, i, len(tok), width)
		}
		rows = append(rows, tok)
	}
	return rows, nil
}
