package automaton

import "cmp"

// Option configures Build.
type Option func(*options)

type options struct {
	transitionTable bool
}

// WithTransitionTable precomputes the full transition function over the pattern alphabet,
// turning every Go call into a single lookup. Results are identical to the failure-link walk.
func WithTransitionTable() Option {
	return func(o *options) {
		o.transitionTable = true
	}
}

// table is a dense node x symbol transition matrix. Symbols outside the pattern alphabet
// have no edge anywhere in the trie, so they always lead back to the root.
type table[T cmp.Ordered] struct {
	columns map[T]int
	width   int
	cells   []NodeIndex
}

func (t *table[T]) next(node NodeIndex, sym T) NodeIndex {
	col, ok := t.columns[sym]
	if !ok {
		return Root
	}
	return t.cells[int(node)*t.width+col]
}

// buildTable fills the matrix breadth-first. A failure link is always shallower than its
// node, so its row is complete by the time the node's row needs it.
func (a *Automaton[T]) buildTable() {
	alphabet := a.arena.Alphabet()
	t := &table[T]{
		columns: make(map[T]int, len(alphabet)),
		width:   len(alphabet),
		cells:   make([]NodeIndex, a.arena.Len()*len(alphabet)),
	}
	for col, sym := range alphabet {
		t.columns[sym] = col
	}

	queue := []NodeIndex{Root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		row := int(node) * t.width
		link := int(a.arena.Link(node)) * t.width
		for col, sym := range alphabet {
			switch child, ok := a.arena.Child(node, sym); {
			case ok:
				t.cells[row+col] = child
				queue = append(queue, child)
			case node == Root:
				t.cells[row+col] = Root
			default:
				t.cells[row+col] = t.cells[link+col]
			}
		}
	}

	a.table = t
}
