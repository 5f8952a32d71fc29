package automaton

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/acgrid/internal/trie"
)

func bytePatterns(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestStreamingMatch(t *testing.T) {
	t.Parallel()

	a, ids, err := New(bytePatterns("he", "she", "his", "hers"))
	require.NoError(t, err)
	assert.Equal(t, []PatternID{0, 1, 2, 3}, ids)

	m := a.NewMatcher()
	got := m.Scan([]byte("ahishers"))

	// "he" also ends at index 5 but only the pattern at the landed node ("she") is reported.
	expected := []PatternID{NoPattern, NoPattern, NoPattern, 2, NoPattern, 1, NoPattern, 3}
	assert.Equal(t, expected, got)
}

func TestExactEndNodeOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		text     string
		expected []PatternID
	}{
		{
			name:     "suffix pattern hidden by longer one",
			patterns: []string{"abc", "bc"},
			text:     "abc",
			expected: []PatternID{NoPattern, NoPattern, 0},
		},
		{
			name:     "suffix pattern reported when longer one breaks",
			patterns: []string{"abc", "bc"},
			text:     "xbc",
			expected: []PatternID{NoPattern, NoPattern, 1},
		},
		{
			name:     "overlapping repeats",
			patterns: []string{"aa"},
			text:     "aaaa",
			expected: []PatternID{NoPattern, 0, 0, 0},
		},
		{
			name:     "unknown symbols fall back to root",
			patterns: []string{"ab"},
			text:     "a?ab",
			expected: []PatternID{NoPattern, NoPattern, NoPattern, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, err := New(bytePatterns(tt.patterns...))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a.NewMatcher().Scan([]byte(tt.text)))
		})
	}
}

func TestResetIndependence(t *testing.T) {
	t.Parallel()

	a, _, err := New(bytePatterns("he", "she", "his", "hers"))
	require.NoError(t, err)

	m := a.NewMatcher()
	text := []byte("ushersheishis")

	first := make([]PatternID, 0, len(text))
	for _, c := range text {
		first = append(first, m.Advance(c))
	}
	assert.NotEqual(t, Root, m.Position())

	m.Reset()
	assert.Equal(t, Root, m.Position())

	second := make([]PatternID, 0, len(text))
	for _, c := range text {
		second = append(second, m.Advance(c))
	}
	assert.Equal(t, first, second)
}

func TestEmptyPatternSet(t *testing.T) {
	t.Parallel()

	a, ids, err := New[byte](nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, a.PatternCount())
	assert.Equal(t, 1, a.Len())

	m := a.NewMatcher()
	for _, c := range []byte("anything") {
		assert.Equal(t, NoPattern, m.Advance(c))
	}
}

func TestDeduplicationAcrossGroups(t *testing.T) {
	t.Parallel()

	b := NewBuilder[byte]()
	first, err := b.AddGroup(bytePatterns("ab", "xy"))
	require.NoError(t, err)
	second, err := b.AddGroup(bytePatterns("xy", "cd", "ab"))
	require.NoError(t, err)

	assert.Equal(t, []PatternID{0, 1}, first)
	assert.Equal(t, []PatternID{1, 2, 0}, second)

	a, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, a.PatternCount())
}

func TestIdempotentInsertion(t *testing.T) {
	t.Parallel()

	a, ids, err := New(bytePatterns("abc", "abc", "ab", "abc", "ab"))
	require.NoError(t, err)
	assert.Equal(t, []PatternID{0, 0, 1, 0, 1}, ids)
	assert.Equal(t, 2, a.PatternCount())
}

func TestBuilderFrozen(t *testing.T) {
	t.Parallel()

	b := NewBuilder[byte]()
	_, err := b.AddGroup(bytePatterns("ab"))
	require.NoError(t, err)

	_, err = b.Build()
	require.NoError(t, err)

	_, err = b.AddGroup(bytePatterns("cd"))
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFailureLinks(t *testing.T) {
	t.Parallel()

	a, _, err := New(bytePatterns("he", "she", "his", "hers"))
	require.NoError(t, err)

	assert.Equal(t, Root, a.Link(Root))

	linkOf := func(path string) string {
		node := Root
		for _, c := range []byte(path) {
			next, ok := a.arena.Child(node, c)
			require.True(t, ok, "missing path %q", path)
			node = next
		}
		return string(a.Path(a.Link(node)))
	}

	assert.Equal(t, "", linkOf("h"))
	assert.Equal(t, "", linkOf("s"))
	assert.Equal(t, "h", linkOf("sh"))
	assert.Equal(t, "he", linkOf("she"))
	assert.Equal(t, "s", linkOf("his"))
	assert.Equal(t, "s", linkOf("hers"))
}

func TestFailureLinkSuffixProperty(t *testing.T) {
	t.Parallel()

	patterns := randomPatterns(rand.New(rand.NewSource(7)), 200, 8, "abc")
	a, _, err := New(patterns)
	require.NoError(t, err)

	for n := 1; n < a.Len(); n++ {
		node := NodeIndex(n)
		path := a.Path(node)
		suffix := a.Path(a.Link(node))

		assert.Less(t, len(suffix), len(path), "link of %q is not shorter", path)
		assert.True(t, bytes.HasSuffix(path, suffix), "%q is not a suffix of %q", suffix, path)
	}
}

func TestTransitionTotality(t *testing.T) {
	t.Parallel()

	patterns := randomPatterns(rand.New(rand.NewSource(11)), 100, 6, "abcd")
	for _, opts := range [][]Option{nil, {WithTransitionTable()}} {
		a, _, err := New(patterns, opts...)
		require.NoError(t, err)

		for n := 0; n < a.Len(); n++ {
			for _, c := range []byte("abcdxyz") {
				next := a.Go(NodeIndex(n), c)
				assert.GreaterOrEqual(t, int(next), 0)
				assert.Less(t, int(next), a.Len())
			}
		}
	}
}

func TestTransitionTableEquivalence(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	patterns := randomPatterns(rng, 300, 7, "abcde")

	plain, _, err := New(patterns)
	require.NoError(t, err)
	cached, _, err := New(patterns, WithTransitionTable())
	require.NoError(t, err)

	require.Equal(t, plain.Len(), cached.Len())
	for n := 0; n < plain.Len(); n++ {
		for _, c := range []byte("abcdefz") {
			require.Equal(t, plain.Go(NodeIndex(n), c), cached.Go(NodeIndex(n), c),
				"node %d symbol %q", n, c)
		}
	}

	text := make([]byte, 2000)
	for i := range text {
		text[i] = "abcdef"[rng.Intn(6)]
	}
	assert.Equal(t, plain.NewMatcher().Scan(text), cached.NewMatcher().Scan(text))
}

func TestPatternIDAlphabet(t *testing.T) {
	t.Parallel()

	a, ids, err := New([][]PatternID{{0, 1}, {1, 1}, {NoPattern, 0}})
	require.NoError(t, err)
	assert.Equal(t, []PatternID{0, 1, 2}, ids)

	got := a.NewMatcher().Scan([]PatternID{NoPattern, 0, 1, 1, 1, 7})
	assert.Equal(t, []PatternID{NoPattern, 2, 0, 1, 1, NoPattern}, got)
}

func randomPatterns(rng *rand.Rand, count, maxLength int, alphabet string) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		p := make([]byte, rng.Intn(maxLength)+1)
		for j := range p {
			p[j] = alphabet[rng.Intn(len(alphabet))]
		}
		out[i] = p
	}
	return out
}

func TestBuildKeepsTrie(t *testing.T) {
	t.Parallel()

	patterns := bytePatterns("he", "she", "his", "hers", "she")

	fresh := trie.NewArena[byte](1)
	for _, p := range patterns {
		fresh.Insert(p)
	}

	for _, opts := range [][]Option{nil, {WithTransitionTable()}} {
		a, _, err := New(patterns, opts...)
		require.NoError(t, err)
		// failure links and tables are layered on top; nodes, edges and ids stay as inserted
		assert.True(t, fresh.Equal(a.arena))
		assert.Equal(t, fresh.String(), a.String())
	}

	other := trie.NewArena[byte](1)
	other.Insert([]byte("he"))
	assert.False(t, fresh.Equal(other))
}
