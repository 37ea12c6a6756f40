package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/deweycatalog/catalog/shared/config"
	"github.com/redis/go-redis/v9"
)

// Client is the connection behind the catalog read-model cache and the
// catalog event stream.
type Client struct {
	*redis.Client
}

// NewClient connects to cfg.Addr and pings it. The connection is named after
// service so CLIENT LIST shows which catalog process holds it.
func NewClient(ctx context.Context, cfg config.RedisConfig, service string) (*Client, error) {
	rdb := redis.NewClient(options(cfg, service))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Client{Client: rdb}, nil
}

func options(cfg config.RedisConfig, service string) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   "dewey-" + service,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	}
}
