package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the client used for barcode lookup caching and the
// low-stock worker queue. Connectivity is verified with a ping before
// the client is handed out.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
