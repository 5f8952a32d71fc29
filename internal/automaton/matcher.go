package automaton

import "cmp"

// Matcher streams symbols through an automaton. It is not safe for concurrent use;
// give every goroutine its own Matcher over the shared Automaton.
type Matcher[T cmp.Ordered] struct {
	automaton *Automaton[T]
	cursor    NodeIndex
}

// Advance consumes one symbol and returns the pattern ending exactly at the new position,
// or NoPattern.
func (m *Matcher[T]) Advance(sym T) PatternID {
	m.cursor = m.automaton.Go(m.cursor, sym)
	return m.automaton.Terminal(m.cursor)
}

// Reset moves the cursor back to the root.
func (m *Matcher[T]) Reset() {
	m.cursor = Root
}

// Position returns the current node.
func (m *Matcher[T]) Position() NodeIndex {
	return m.cursor
}

// Scan resets the matcher and classifies every symbol of seq.
func (m *Matcher[T]) Scan(seq []T) []PatternID {
	m.Reset()
	out := make([]PatternID, len(seq))
	for i, sym := range seq {
		out[i] = m.Advance(sym)
	}
	return out
}
