// Package cache provides file-based caching with TTL expiration for fetched
// country data.
//
// Key features:
//   - One JSON file per entry in ~/.countries/cache/ (or a configured directory)
//   - SHA256-based file names so any key (typically the endpoint URL) is filesystem safe
//   - Atomic writes via a temporary file and rename
//   - A TTL of zero disables the store entirely
//
// The cache lets repeated list runs and browser start-ups skip the network for
// data that rarely changes; explicit reloads bypass it.
package cache
