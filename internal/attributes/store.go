// Package attributes persists session attributes across voice sessions so
// a returning speaker keeps their conversation context.
package attributes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Drivers accepted by NewStore.
const (
	DriverNone     = "none"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// ErrNotFound reports a key with no stored attributes.
var ErrNotFound = errors.New("attributes not found")

// Record is one persisted attribute set, keyed by platform user ID.
type Record struct {
	Key        string         `json:"key"`
	Attributes map[string]any `json:"attributes"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Store persists session attributes between sessions.
type Store interface {
	Load(ctx context.Context, key string) (map[string]any, error)
	Save(ctx context.Context, key string, attrs map[string]any) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, limit int) ([]Record, error)
}

// NewStore builds the configured store. The none driver returns a nil
// store: callers treat nil as persistence disabled.
func NewStore(driver string, pool *pgxpool.Pool, rdb *redis.Client) (Store, error) {
	switch driver {
	case "", DriverNone:
		return nil, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis attributes driver requires a redis client")
		}
		return NewRedisStore(rdb), nil
	case DriverPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres attributes driver requires a database pool")
		}
		return NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown attributes store driver: %s", driver)
	}
}

func copyAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
