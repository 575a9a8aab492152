package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions holds the backend coordinates.
type RedisOptions struct {
	Host         string
	Port         int
	DB           int
	Password     string // empty means no authentication
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns host:port.
func (o RedisOptions) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a store without contacting the backend.
func NewRedisStore(opts RedisOptions) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{
		Addr:         opts.Addr(),
		DB:           opts.DB,
		Password:     opts.Password,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		MaxRetries:   -1,
	})}
}

// Connect builds a store and probes the backend. A failed probe is returned
// as ErrAuthentication or ErrUnavailable with a diagnostic naming the
// settings to check; the store is closed in that case.
func Connect(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	store := NewRedisStore(opts)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Lookup reads key. redis.Nil is a miss; any other error makes the backend
// unavailable for this lookup.
func (s *RedisStore) Lookup(ctx context.Context, key string) Lookup {
	value, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return Lookup{Outcome: Hit, Value: value}
	case errors.Is(err, redis.Nil):
		return Lookup{Outcome: Miss}
	default:
		return Lookup{Outcome: Unavailable, Err: classify(err, "")}
	}
}

// Store writes value under key with the given expiry.
func (s *RedisStore) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return classify(err, "")
	}
	return nil
}

// Ping probes the backend.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return classify(err, s.client.Options().Addr)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// classify maps a backend error onto ErrAuthentication or ErrUnavailable.
func classify(err error, addr string) error {
	if isAuthError(err) {
		return fmt.Errorf("%w: check REDIS_PASSWORD configuration: %v", ErrAuthentication, err)
	}
	if addr != "" {
		return fmt.Errorf("%w: failed to connect to %s, check host and port settings: %v", ErrUnavailable, addr, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isAuthError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"NOAUTH", "WRONGPASS", "ERR AUTH", "ERR invalid password", "ERR Client sent AUTH"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
