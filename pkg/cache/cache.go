// Package cache stores played rounds and rendered artifacts.
//
// # Overview
//
// [Cache] is a byte-oriented key/value store with optional expiry. Callers
// serialize values themselves; the store never interprets them. Four
// backends are provided:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: a Redis server via go-redis
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing (disables persistence)
//
// # Keys
//
// A [Keyer] derives every key, so backends can be shared between tools or
// users without collisions. [NewScopedKeyer] prefixes an existing keyer:
//
//	keys := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "class:3b:")
//	data, ok, err := c.Get(ctx, keys.RoundKey(id))
//
// # Errors
//
// Backends report a missing key as a miss (ok == false, err == nil), never
// as an error. Network backends wrap transient failures with [Retryable]
// and retry them with [RetryWithBackoff].
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default entry lifetimes.
const (
	// TTLRound keeps saved rounds for a school term.
	TTLRound = 120 * 24 * time.Hour

	// TTLArtifact bounds rendered images, which are cheap to recreate.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized rounds and artifacts.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored at key. A missing or expired key
	// returns ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data at key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// RoundKey is the key of a stored round.
	RoundKey(id string) string

	// LatestKey is the key holding the ID of the most recently saved round.
	LatestKey() string

	// ArtifactKey is the key of a rendered artifact of a round.
	ArtifactKey(roundID string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that distinguish artifacts.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width,omitempty"`
	Paths    bool    `json:"paths,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RoundKey returns "round:<id>".
func (DefaultKeyer) RoundKey(id string) string { return "round:" + id }

// LatestKey returns "round:latest".
func (DefaultKeyer) LatestKey() string { return "round:latest" }

// ArtifactKey returns "artifact:<hash>" over the round ID and options.
func (DefaultKeyer) ArtifactKey(roundID string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(struct {
		Round string          `json:"round"`
		Opts  ArtifactKeyOpts `json:"opts"`
	}{roundID, opts})
	return "artifact:" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
