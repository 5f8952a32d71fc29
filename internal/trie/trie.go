package trie

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

/*
Arena-based Pattern Trie

Every node of the trie lives in one growable slice and is referenced by its index, so the
parent edge, the child edges and the failure link are all plain integers:

1. Memory layout:
	- Nodes are appended to a single slice and never freed; the root is always index 0.
	- Child edges are stored per node in a map keyed by the alphabet symbol, so the same
	arena serves bytes, runes or the pattern ids produced by another automaton.

2. Pattern ids:
	- The node where a sequence ends carries the id of that sequence.
	- Ids are handed out in insertion order across the whole arena. Re-inserting a sequence
	that already ends at a terminal node returns the existing id instead of allocating one.

3. Failure links:
	- The arena only stores them. They are computed by the automaton package once all
	insertions are done.
*/

// NodeIndex represents the index of a trie node.
type NodeIndex int

// Root is the index of the root node in every arena.
const Root NodeIndex = 0

// PatternID identifies a distinct inserted sequence.
type PatternID int

// NoPattern marks a node where no pattern ends. It never collides with a real id.
const NoPattern PatternID = -1

// Arena is a memory pool that stores all trie nodes.
type Arena[T cmp.Ordered] struct {
	// nodes stores all trie nodes, root first.
	nodes []arenaNode[T]
	// patterns is the number of distinct sequences inserted so far.
	patterns int
}

// arenaNode is the internal representation of a trie node stored in the arena.
type arenaNode[T cmp.Ordered] struct {
	// children maps the edge symbol to the index of the child node.
	children map[T]NodeIndex
	// parent is the node this one was created from. Unused for the root.
	parent NodeIndex
	// symbol labels the edge from parent to this node. Unused for the root.
	symbol T
	// link is the failure link.
	link NodeIndex
	// terminal is the pattern ending exactly here, or NoPattern.
	terminal PatternID
	depth    int
}

// NewArena creates a new arena with room for capacity nodes.
func NewArena[T cmp.Ordered](capacity int) *Arena[T] {
	if capacity < 1 {
		capacity = 1
	}
	arena := &Arena[T]{
		nodes: make([]arenaNode[T], 0, capacity),
	}
	arena.newNode(Root, *new(T), 0)
	return arena
}

// newNode adds a new node to the arena and returns its index.
func (a *Arena[T]) newNode(parent NodeIndex, symbol T, depth int) NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode[T]{
		children: make(map[T]NodeIndex),
		parent:   parent,
		symbol:   symbol,
		link:     Root,
		terminal: NoPattern,
		depth:    depth,
	})
	return idx
}

// Grow reserves space for n more nodes.
func (a *Arena[T]) Grow(n int) {
	a.nodes = slices.Grow(a.nodes, n)
}

// Insert inserts a sequence into the trie and returns its pattern id.
func (a *Arena[T]) Insert(sequence []T) PatternID {
	current := Root

	for _, sym := range sequence {
		childIdx, exists := a.nodes[current].children[sym]
		if !exists {
			childIdx = a.newNode(current, sym, a.nodes[current].depth+1)
			// newNode may reallocate the slice; index again.
			a.nodes[current].children[sym] = childIdx
		}
		current = childIdx
	}

	node := &a.nodes[current]
	if node.terminal == NoPattern {
		node.terminal = PatternID(a.patterns)
		a.patterns++
	}
	return node.terminal
}

// Len returns the number of nodes, root included.
func (a *Arena[T]) Len() int {
	return len(a.nodes)
}

// PatternCount returns the number of distinct sequences inserted.
func (a *Arena[T]) PatternCount() int {
	return a.patterns
}

// Child returns the child reached from n over sym.
func (a *Arena[T]) Child(n NodeIndex, sym T) (NodeIndex, bool) {
	idx, ok := a.nodes[n].children[sym]
	return idx, ok
}

// Children returns the edge symbols of n in ascending order.
func (a *Arena[T]) Children(n NodeIndex) []T {
	keys := make([]T, 0, len(a.nodes[n].children))
	for key := range a.nodes[n].children {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (a *Arena[T]) Parent(n NodeIndex) NodeIndex { return a.nodes[n].parent }

func (a *Arena[T]) Symbol(n NodeIndex) T { return a.nodes[n].symbol }

func (a *Arena[T]) Depth(n NodeIndex) int { return a.nodes[n].depth }

func (a *Arena[T]) Terminal(n NodeIndex) PatternID { return a.nodes[n].terminal }

func (a *Arena[T]) Link(n NodeIndex) NodeIndex { return a.nodes[n].link }

// SetLink stores the failure link of n.
func (a *Arena[T]) SetLink(n, link NodeIndex) {
	a.nodes[n].link = link
}

// Path returns the symbols spelled from the root down to n.
func (a *Arena[T]) Path(n NodeIndex) []T {
	path := make([]T, a.nodes[n].depth)
	for i := len(path) - 1; i >= 0; i-- {
		path[i] = a.nodes[n].symbol
		n = a.nodes[n].parent
	}
	return path
}

// Alphabet returns every symbol labelling at least one edge, in ascending order.
func (a *Arena[T]) Alphabet() []T {
	seen := make(map[T]struct{})
	for i := range a.nodes {
		for key := range a.nodes[i].children {
			seen[key] = struct{}{}
		}
	}
	syms := make([]T, 0, len(seen))
	for key := range seen {
		syms = append(syms, key)
	}
	slices.Sort(syms)
	return syms
}

// Equal checks whether two tries are identical in structure, content and pattern ids.
func (a *Arena[T]) Equal(b *Arena[T]) bool {
	if len(a.nodes) != len(b.nodes) || a.patterns != b.patterns {
		return false
	}

	return a.equalNodes(Root, b, Root)
}

// equalNodes recursively checks whether two nodes (and their subtrees) are identical.
func (a *Arena[T]) equalNodes(aIdx NodeIndex, b *Arena[T], bIdx NodeIndex) bool {
	nodeA := a.nodes[aIdx]
	nodeB := b.nodes[bIdx]

	if nodeA.terminal != nodeB.terminal || len(nodeA.children) != len(nodeB.children) {
		return false
	}

	for _, key := range a.Children(aIdx) {
		childB, exists := nodeB.children[key]
		if !exists || !a.equalNodes(nodeA.children[key], b, childB) {
			return false
		}
	}

	return true
}

// String returns a representation of the trie for debugging purposes.
// Terminal nodes are marked with '*' followed by their pattern id.
func (a *Arena[T]) String() string {
	var sb strings.Builder
	a.writeNode(&sb, Root)
	return sb.String()
}

func (a *Arena[T]) writeNode(sb *strings.Builder, idx NodeIndex) {
	node := a.nodes[idx]

	if node.terminal != NoPattern {
		sb.WriteString("*")
		sb.WriteString(strconv.Itoa(int(node.terminal)))
	}

	for _, key := range a.Children(idx) {
		sb.WriteString(FormatSymbol(key))
		sb.WriteString("(")
		a.writeNode(sb, node.children[key])
		sb.WriteString(")")
	}
}

// FormatSymbol renders a symbol for display. Bytes and runes print as characters,
// pattern ids as numbers in brackets.
func FormatSymbol[T cmp.Ordered](sym T) string {
	switch v := any(sym).(type) {
	case byte:
		return string(rune(v))
	case rune:
		return string(v)
	case string:
		return v
	case PatternID:
		return "[" + strconv.Itoa(int(v)) + "]"
	default:
		return fmt.Sprint(v)
	}
}
