package internal

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	tt "github.com/gnolang/acgrid/internal/types"
)

const (
	cacheFileName      = "scan_cache.gob"
	defaultCacheMaxAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type CacheEntry struct {
	Metadata     fileMetadata
	Result       tt.Result
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache keeps scan results on disk, keyed by input path and validated against the
// content digest of the input.
type Cache struct {
	CacheDir string
	entries  map[string]CacheEntry
	mutex    sync.RWMutex
	maxAge   time.Duration
	// metadata reads and hashes an input; it runs without the lock held.
	metadata func(string) (fileMetadata, error)
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]CacheEntry),
		maxAge:   defaultCacheMaxAge,
		metadata: getFileMetadata,
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	cacheFile := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Open(cacheFile)
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	return nil
}

func (c *Cache) save() error {
	cacheFile := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Create(cacheFile)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

func (c *Cache) Set(filename string, result tt.Result) error {
	metadata, err := c.metadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		Result:       result,
		CreatedAt:    now,
		LastAccessed: now,
	}

	return c.save()
}

func (c *Cache) Get(filename string) (tt.Result, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[filename]
	maxAge := c.maxAge
	c.mutex.RUnlock()

	if !exists || (maxAge > 0 && time.Since(entry.CreatedAt) > maxAge) {
		return tt.Result{}, false
	}

	current, err := c.metadata(filename)
	if err != nil || !entry.Metadata.matches(current) {
		return tt.Result{}, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// the entry may have been replaced while the file was hashed
	latest, exists := c.entries[filename]
	if !exists || !latest.CreatedAt.Equal(entry.CreatedAt) || !latest.Metadata.matches(current) {
		return tt.Result{}, false
	}
	latest.LastAccessed = time.Now()
	c.entries[filename] = latest

	return latest.Result, true
}

func (m fileMetadata) matches(other fileMetadata) bool {
	return m.Hash == other.Hash && m.LastModified.Equal(other.LastModified)
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	return c.save()
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         strconv.FormatUint(digest.Sum64(), 16),
		LastModified: info.ModTime(),
	}, nil
}
