package trie

import (
	"testing"
)

func buildSpecificTrie(paths []string) *Arena[byte] {
	a := NewArena[byte](0)
	for _, path := range paths {
		a.Insert([]byte(path))
	}
	return a
}

func TestEqualCorrectness(t *testing.T) {
	tests := []struct {
		name     string
		paths1   []string
		paths2   []string
		expectEq bool
	}{
		{
			name:     "identical_empty_tries",
			expectEq: true,
		},
		{
			name:     "identical_single_path",
			paths1:   []string{"abc"},
			paths2:   []string{"abc"},
			expectEq: true,
		},
		{
			name:     "identical_multiple_paths",
			paths1:   []string{"abc", "abd", "xyz"},
			paths2:   []string{"abc", "abd", "xyz"},
			expectEq: true,
		},
		{
			name:     "different_paths",
			paths1:   []string{"abc"},
			paths2:   []string{"abd"},
			expectEq: false,
		},
		{
			name:     "different_number_of_paths",
			paths1:   []string{"abc"},
			paths2:   []string{"abc", "xyz"},
			expectEq: false,
		},
		{
			name:     "prefix_overlap",
			paths1:   []string{"abc", "ab"},
			paths2:   []string{"abc"},
			expectEq: false,
		},
		{
			// same shape, but ids are handed out in a different order
			name:     "different_order_different_ids",
			paths1:   []string{"abc", "xyz"},
			paths2:   []string{"xyz", "abc"},
			expectEq: false,
		},
		{
			name:     "duplicates_do_not_change_structure",
			paths1:   []string{"abc", "abc", "xyz"},
			paths2:   []string{"abc", "xyz", "xyz"},
			expectEq: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t1 := buildSpecificTrie(tt.paths1)
			t2 := buildSpecificTrie(tt.paths2)

			if got := t1.Equal(t2); got != tt.expectEq {
				t.Errorf("Equal() = %v, expected %v", got, tt.expectEq)
			}
		})
	}
}

func TestInsertAssignsSequentialIDs(t *testing.T) {
	a := NewArena[byte](0)

	inputs := []string{"he", "she", "he", "his", "she", "hers"}
	expected := []PatternID{0, 1, 0, 2, 1, 3}

	for i, in := range inputs {
		if got := a.Insert([]byte(in)); got != expected[i] {
			t.Errorf("Insert(%q) = %d, expected %d", in, got, expected[i])
		}
	}

	if a.PatternCount() != 4 {
		t.Errorf("PatternCount() = %d, expected 4", a.PatternCount())
	}
}

func TestInsertEmptySequence(t *testing.T) {
	a := NewArena[byte](0)

	id := a.Insert(nil)
	if id != 0 {
		t.Fatalf("Insert(nil) = %d, expected 0", id)
	}
	if a.Terminal(Root) != 0 {
		t.Errorf("root terminal = %d, expected 0", a.Terminal(Root))
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", a.Len())
	}
}

func TestArenaString(t *testing.T) {
	a := buildSpecificTrie([]string{"abc", "abd", "ae", "f"})

	expected := "a(b(c(*0)d(*1))e(*2))f(*3)"
	if str := a.String(); str != expected {
		t.Errorf("String() = %q, expected %q", str, expected)
	}
}

func TestNodeTopology(t *testing.T) {
	a := buildSpecificTrie([]string{"ab", "ac"})

	nodeA, ok := a.Child(Root, 'a')
	if !ok {
		t.Fatal("missing edge 'a' from root")
	}
	nodeB, ok := a.Child(nodeA, 'b')
	if !ok {
		t.Fatal("missing edge 'b'")
	}

	if a.Parent(nodeB) != nodeA {
		t.Errorf("Parent() = %d, expected %d", a.Parent(nodeB), nodeA)
	}
	if a.Symbol(nodeB) != 'b' {
		t.Errorf("Symbol() = %q, expected 'b'", a.Symbol(nodeB))
	}
	if a.Depth(nodeB) != 2 {
		t.Errorf("Depth() = %d, expected 2", a.Depth(nodeB))
	}
	if got := string(a.Path(nodeB)); got != "ab" {
		t.Errorf("Path() = %q, expected \"ab\"", got)
	}
	if got := string(a.Children(nodeA)); got != "bc" {
		t.Errorf("Children() = %q, expected \"bc\"", got)
	}
	if got := string(a.Alphabet()); got != "abc" {
		t.Errorf("Alphabet() = %q, expected \"abc\"", got)
	}
	if _, ok := a.Child(Root, 'z'); ok {
		t.Error("unexpected edge 'z' from root")
	}
}

func TestPatternIDAlphabet(t *testing.T) {
	a := NewArena[PatternID](0)
	a.Insert([]PatternID{0, 1})
	a.Insert([]PatternID{NoPattern, 1})

	expected := "[-1]([1](*1))[0]([1](*0))"
	if str := a.String(); str != expected {
		t.Errorf("String() = %q, expected %q", str, expected)
	}
}
