package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

// DefaultTTLSeconds is the default cache TTL (1 hour).
const DefaultTTLSeconds = 3600

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore stores entries as JSON files in one directory. Safe for
// concurrent use within a process.
type FileStore struct {
	directory string
	ttl       time.Duration
	enabled   bool
	now       func() time.Time

	mu sync.RWMutex
}

// StoreOption configures a FileStore.
type StoreOption func(*FileStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFileStore returns a store rooted at directory whose entries live for ttl.
// A ttl of zero or less returns a disabled store; every operation on it
// reports ErrCacheDisabled. The directory is created if needed.
func NewFileStore(directory string, ttl time.Duration, opts ...StoreOption) (*FileStore, error) {
	s := &FileStore{directory: directory, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if ttl <= 0 {
		return s, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	s.enabled = true
	return s, nil
}

// Get returns the entry for key. Expired entries are removed and reported
// as ErrCacheExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.IsEnabled() {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	filePath := s.keyToFilePath(key)

	s.mu.RLock()
	data, err := os.ReadFile(filePath)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if entry.IsExpired(s.now()) {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}
	return &entry, nil
}

// Set stores data under key, replacing any existing entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	entryData, err := json.Marshal(newEntry(key, data, s.now(), s.ttl))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)

	// Write to temporary file first, then rename for atomicity
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}
	return nil
}

// Delete removes the entry for key. Deleting a missing entry is not an error.
func (s *FileStore) Delete(key string) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every cache file in the directory.
func (s *FileStore) Clear() error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExtension {
			continue
		}
		if removeErr := os.Remove(filepath.Join(s.directory, entry.Name())); removeErr != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), removeErr)
		}
	}
	return nil
}

// IsEnabled reports whether the store caches anything.
func (s *FileStore) IsEnabled() bool {
	return s != nil && s.enabled
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

// TTL returns how long new entries live.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// keyToFilePath hashes key into a file name inside the cache directory.
func (s *FileStore) keyToFilePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.directory, hex.EncodeToString(sum[:])+cacheFileExtension)
}
