package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/acgrid/internal/types"
)

func sampleResult(filename string) tt.Result {
	return tt.Result{
		Filename: filename,
		Rows:     2,
		Cols:     2,
		Patterns: []tt.PatternCount{{Index: 0, Name: "pattern-0", ID: 0, Count: 1}},
		Matches:  []tt.Match{{Pattern: 0, Name: "pattern-0", Row: 0, Col: 0, Height: 2, Width: 2}},
		Cells:    [][]int{{-1, 0}, {-1, 1}},
		Grid:     []string{"aa", "ab"},
	}
}

func TestCache(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	filename := writeInput(t, tmpDir, "test.acg", "2 2\naa\nab\n1 2 2\naa\nab\n")

	t.Run("SetAndGet", func(t *testing.T) {
		result := sampleResult(filename)
		require.NoError(t, cache.Set(filename, result))

		cached, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, result, cached)
	})

	t.Run("ContentChange", func(t *testing.T) {
		require.NoError(t, cache.Set(filename, sampleResult(filename)))

		require.NoError(t, os.WriteFile(filename, []byte("2 2\nbb\nab\n1 2 2\naa\nab\n"), 0o644))

		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		require.NoError(t, cache.Set(filename, sampleResult(filename)))
		cache.SetMaxAge(time.Nanosecond)
		defer cache.SetMaxAge(defaultCacheMaxAge)

		time.Sleep(time.Millisecond)
		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		require.NoError(t, cache.Set(filename, sampleResult(filename)))
		require.NoError(t, cache.InvalidateAll())

		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, found := cache.Get(filepath.Join(tmpDir, "nope.acg"))
		assert.False(t, found)
		assert.Error(t, cache.Set(filepath.Join(tmpDir, "nope.acg"), tt.Result{}))
	})
}

func TestCachePersistence(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")
	filename := writeInput(t, tmpDir, "test.acg", "1 1\na\n1 1 1\na\n")

	cache, err := NewCache(cacheDir)
	require.NoError(t, err)
	require.NoError(t, cache.Set(filename, sampleResult(filename)))

	reloaded, err := NewCache(cacheDir)
	require.NoError(t, err)

	cached, found := reloaded.Get(filename)
	require.True(t, found)
	assert.Equal(t, sampleResult(filename), cached)
}

func TestCacheCorruptFile(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, cacheFileName), []byte("not gob"), 0o644))

	_, err := NewCache(cacheDir)
	assert.Error(t, err)
}

func TestCacheConcurrency(t *testing.T) {
	tmpDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	filename := writeInput(t, tmpDir, "test.acg", "1 1\na\n1 1 1\na\n")
	result := sampleResult(filename)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(filename, result))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(filename)
		}()
	}
	wg.Wait()

	_, found := cache.Get(filename)
	assert.True(t, found)
}

func TestCacheGetDoesNotBlockWhileHashing(t *testing.T) {
	tmpDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	filename := writeInput(t, tmpDir, "slow.acg", "1 1\na\n1 1 1\na\n")
	other := writeInput(t, tmpDir, "other.acg", "1 1\nb\n1 1 1\nb\n")
	require.NoError(t, cache.Set(filename, sampleResult(filename)))

	hashing := make(chan struct{})
	release := make(chan struct{})
	cache.metadata = func(name string) (fileMetadata, error) {
		if name == filename {
			close(hashing)
			<-release
		}
		return getFileMetadata(name)
	}

	got := make(chan bool, 1)
	go func() {
		_, found := cache.Get(filename)
		got <- found
	}()
	<-hashing

	// other callers proceed while the slow file is hashed
	done := make(chan struct{})
	go func() {
		defer close(done)
		cache.SetMaxAge(time.Hour)
		assert.NoError(t, cache.Set(other, sampleResult(other)))
		_, found := cache.Get(other)
		assert.True(t, found)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cache stayed locked while a file was hashed")
	}

	close(release)
	assert.True(t, <-got)
}

func TestCacheGetEntryReplacedWhileHashing(t *testing.T) {
	tmpDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	filename := writeInput(t, tmpDir, "test.acg", "1 1\na\n1 1 1\na\n")
	require.NoError(t, cache.Set(filename, sampleResult(filename)))

	calls := 0
	cache.metadata = func(name string) (fileMetadata, error) {
		calls++
		if calls == 1 {
			// the cache is cleared while the file is hashed
			require.NoError(t, cache.InvalidateAll())
		}
		return getFileMetadata(name)
	}

	_, found := cache.Get(filename)
	assert.False(t, found)
}
