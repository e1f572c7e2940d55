package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a missing refresh record for a username.
var ErrNotFound = errors.New("refresh record not found")

// Store keeps at most one live refresh token per username. Put overwrites
// any prior record, backing single-active-session-per-user semantics.
// Records self-expire after the configured TTL.
type Store interface {
	Put(ctx context.Context, username, token string) error
	Get(ctx context.Context, username string) (string, error)
	Exists(ctx context.Context, username string) (bool, error)
	Delete(ctx context.Context, username string) error
	Close(ctx context.Context) error
}

// Driver identifiers supported by the refresh store.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config describes the store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}
