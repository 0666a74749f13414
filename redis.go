package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// initRedis connects to the identity cache. It returns nil when no Redis URL
// is configured.
func initRedis(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}

	client := redis.NewClient(redisOptions(redisURL))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// redisOptions accepts both redis:// URLs and bare host:port addresses.
func redisOptions(redisURL string) *redis.Options {
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{Addr: strings.TrimPrefix(redisURL, "redis://")}
	}
	return opt
}
