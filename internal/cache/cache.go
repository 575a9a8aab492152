// Package cache integrates the key-value backend that stores computed
// savings plans. The cache is advisory: lookups report whether the backend
// answered instead of failing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/iwvelando/savings-plan/internal/plan"
	"github.com/iwvelando/savings-plan/pkg/constants"
)

var (
	// ErrUnavailable is returned when the cache backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrAuthentication is returned when the cache backend rejects the credentials.
	ErrAuthentication = errors.New("cache backend authentication failed")
)

// Outcome classifies a cache lookup.
type Outcome int

const (
	// Miss means the backend answered and holds no value for the key.
	Miss Outcome = iota
	// Hit means the backend returned a stored value.
	Hit
	// Unavailable means the backend did not answer.
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Lookup is the result of reading a key.
type Lookup struct {
	Outcome Outcome
	Value   []byte
	// Err is the backend error behind an Unavailable outcome.
	Err error
}

// Store is a key-value backend with per-entry expiry.
type Store interface {
	Lookup(ctx context.Context, key string) Lookup
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Key derives the cache key of a request from its canonical JSON encoding.
// Request encodes its fields in declaration order, so equal requests share
// a key however their source documents were ordered.
func Key(req plan.Request) string {
	canonical, err := json.Marshal(req.Canonical())
	if err != nil {
		// Request only holds numbers; Marshal cannot fail on finite values.
		panic(err)
	}
	sum := sha256.Sum256(canonical)
	return constants.CacheKeyPrefix + hex.EncodeToString(sum[:])
}
