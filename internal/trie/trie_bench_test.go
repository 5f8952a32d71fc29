package trie

import (
	"math/rand"
	"testing"
)

func generateRandomSequences(count, maxLength int) [][]byte {
	sequences := make([][]byte, count)
	for i := 0; i < count; i++ {
		length := rand.Intn(maxLength) + 1
		sequence := make([]byte, length)
		for j := 0; j < length; j++ {
			sequence[j] = byte('a' + rand.Intn(26))
		}
		sequences[i] = sequence
	}
	return sequences
}

func BenchmarkInsert(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences := generateRandomSequences(size.count, size.maxLength)
			total := 1
			for _, seq := range sequences {
				total += len(seq)
			}
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				arena := NewArena[byte](total)
				for _, seq := range sequences {
					arena.Insert(seq)
				}
			}
		})
	}
}

func BenchmarkEqual(b *testing.B) {
	sequences := generateRandomSequences(1000, 10)
	t1 := NewArena[byte](0)
	t2 := NewArena[byte](0)
	for _, seq := range sequences {
		t1.Insert(seq)
		t2.Insert(seq)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		t1.Equal(t2)
	}
}

func BenchmarkString(b *testing.B) {
	sequences := generateRandomSequences(1000, 10)
	arena := NewArena[byte](0)
	for _, seq := range sequences {
		arena.Insert(seq)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = arena.String()
	}
}
