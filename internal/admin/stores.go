package admin

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/halocare/halocare-admin/internal/listing"
)

// View state backends selectable through VIEWSTATE_BACKEND.
const (
	StoreSession  = "session"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// NewViewStateStore selects the store backing persisted list queries.
func NewViewStateStore(kind string, client *redis.Client, pool *pgxpool.Pool, ttl time.Duration) (listing.ViewStateStore, error) {
	switch kind {
	case "", StoreSession:
		return SessionStore{}, nil
	case StoreRedis:
		if client == nil {
			return nil, fmt.Errorf("admin: redis view state store needs a redis client")
		}
		return listing.NewRedisStore(client, ttl), nil
	case StorePostgres:
		if pool == nil {
			return nil, fmt.Errorf("admin: postgres view state store needs a pool")
		}
		return listing.NewPostgresStore(pool), nil
	case StoreMemory:
		return listing.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("admin: unknown view state store %q", kind)
	}
}
