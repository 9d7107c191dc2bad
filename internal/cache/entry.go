package cache

import (
	"encoding/json"
	"time"
)

// Entry is a single cached value with expiry metadata.
type Entry struct {
	// Key is the caller's key, kept for inspection; file names use its hash.
	Key string `json:"key"`

	// Data is the cached JSON document.
	Data json.RawMessage `json:"data"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newEntry(key string, data json.RawMessage, now time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(ttl).UTC(),
	}
}

// IsExpired reports whether the entry is past its expiry at now.
func (e *Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Age returns how old the entry is at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
