// Package automaton implements a multi-pattern matching automaton in the Aho-Corasick style.
//
// Patterns are inserted through a Builder, grouped into any number of subsets. Build computes
// the failure links breadth-first and freezes the trie; from then on the Automaton is
// read-only and any number of Matchers may stream symbols through it concurrently, each with
// its own cursor.
//
// A Matcher reports only the pattern ending exactly at the node it lands on. Patterns that
// end at a node reachable through the failure-link chain are not reported at that position.
package automaton

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/gnolang/acgrid/internal/trie"
)

type (
	NodeIndex = trie.NodeIndex
	PatternID = trie.PatternID
)

const (
	Root      = trie.Root
	NoPattern = trie.NoPattern
)

var (
	// ErrInvalidInput reports malformed construction input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState reports a usage-contract violation, such as inserting after Build.
	ErrInvalidState = errors.New("invalid state")
)

// Builder collects pattern groups before the automaton is frozen.
type Builder[T cmp.Ordered] struct {
	arena  *trie.Arena[T]
	frozen bool
}

// NewBuilder returns an empty builder.
func NewBuilder[T cmp.Ordered]() *Builder[T] {
	return &Builder[T]{arena: trie.NewArena[T](1)}
}

// Reserve grows the node arena so that n more nodes fit without reallocation.
func (b *Builder[T]) Reserve(n int) {
	b.arena.Grow(n)
}

// AddGroup inserts a subset of patterns and returns their ids in submission order.
// Identical sequences share one id, also across groups.
func (b *Builder[T]) AddGroup(patterns [][]T) ([]PatternID, error) {
	if b.frozen {
		return nil, fmt.Errorf("%w: pattern inserted after build", ErrInvalidState)
	}

	total := 0
	for _, p := range patterns {
		total += len(p)
	}
	b.Reserve(total)

	ids := make([]PatternID, len(patterns))
	for i, p := range patterns {
		ids[i] = b.arena.Insert(p)
	}
	return ids, nil
}

// Build computes the failure links and returns the frozen automaton.
// It may be called only once.
func (b *Builder[T]) Build(opts ...Option) (*Automaton[T], error) {
	if b.frozen {
		return nil, fmt.Errorf("%w: automaton already built", ErrInvalidState)
	}
	b.frozen = true

	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Automaton[T]{arena: b.arena}
	a.buildLinks()
	if cfg.transitionTable {
		a.buildTable()
	}
	return a, nil
}

// New builds an automaton from a single pattern group.
func New[T cmp.Ordered](patterns [][]T, opts ...Option) (*Automaton[T], []PatternID, error) {
	b := NewBuilder[T]()
	ids, err := b.AddGroup(patterns)
	if err != nil {
		return nil, nil, err
	}
	a, err := b.Build(opts...)
	if err != nil {
		return nil, nil, err
	}
	return a, ids, nil
}

// Automaton is a frozen pattern trie with failure links.
type Automaton[T cmp.Ordered] struct {
	arena *trie.Arena[T]
	table *table[T]
}

// buildLinks computes every failure link in breadth-first order, so a node's parent
// always has its link before the node itself is visited.
func (a *Automaton[T]) buildLinks() {
	queue := []NodeIndex{Root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		parent := a.arena.Parent(node)
		if node == Root || parent == Root {
			a.arena.SetLink(node, Root)
		} else {
			a.arena.SetLink(node, a.walk(a.arena.Link(parent), a.arena.Symbol(node)))
		}

		for _, sym := range a.arena.Children(node) {
			child, _ := a.arena.Child(node, sym)
			queue = append(queue, child)
		}
	}
}

// Go returns the node reached from node over sym: the real edge if there is one,
// otherwise the transition of the failure link. The root absorbs unmatched symbols.
func (a *Automaton[T]) Go(node NodeIndex, sym T) NodeIndex {
	if a.table != nil {
		return a.table.next(node, sym)
	}
	return a.walk(node, sym)
}

func (a *Automaton[T]) walk(node NodeIndex, sym T) NodeIndex {
	for {
		if next, ok := a.arena.Child(node, sym); ok {
			return next
		}
		if node == Root {
			return Root
		}
		node = a.arena.Link(node)
	}
}

// Link returns the failure link of node.
func (a *Automaton[T]) Link(node NodeIndex) NodeIndex {
	return a.arena.Link(node)
}

// Terminal returns the pattern ending exactly at node, or NoPattern.
func (a *Automaton[T]) Terminal(node NodeIndex) PatternID {
	return a.arena.Terminal(node)
}

// Path returns the symbols spelled by node.
func (a *Automaton[T]) Path(node NodeIndex) []T {
	return a.arena.Path(node)
}

// Len returns the number of trie nodes.
func (a *Automaton[T]) Len() int {
	return a.arena.Len()
}

// PatternCount returns the number of distinct patterns.
func (a *Automaton[T]) PatternCount() int {
	return a.arena.PatternCount()
}

// Alphabet returns the symbols that appear in at least one pattern.
func (a *Automaton[T]) Alphabet() []T {
	return a.arena.Alphabet()
}

// String renders the underlying trie.
func (a *Automaton[T]) String() string {
	return a.arena.String()
}

// NewMatcher returns a matcher positioned at the root.
func (a *Automaton[T]) NewMatcher() *Matcher[T] {
	return &Matcher[T]{automaton: a, cursor: Root}
}
