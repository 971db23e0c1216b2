package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Shxbhx/RentGhar/pkg/config"
)

var (
	rdb *redis.Client
	ttl time.Duration
)

// Init connects the redis client. Caching is optional: with no address
// configured the client stays nil and reads go straight to the database.
func Init(cfg *config.Config) error {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	rdb = client
	ttl = cfg.Redis.TTL
	return nil
}

// Client returns the redis client, or nil when caching is disabled.
func Client() *redis.Client {
	return rdb
}

// TTL returns the configured cache entry lifetime.
func TTL() time.Duration {
	return ttl
}
