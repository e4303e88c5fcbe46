package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisAddr = "localhost:6379"
	redisPingTimeout = 2 * time.Second
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// RedisSettings describes the optional Redis instance backing the session
// cache and the login rate limiter.
type RedisSettings struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// RedisSettingsFromEnv reads REDIS_ENABLED, REDIS_ADDR, REDIS_PASSWORD and
// REDIS_DB. Only the literal "true" enables Redis; an unparsable or negative
// REDIS_DB selects database 0.
func RedisSettingsFromEnv() RedisSettings {
	s := RedisSettings{
		Enabled:  os.Getenv("REDIS_ENABLED") == "true",
		Addr:     getEnv("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Printf("invalid REDIS_DB %q, using 0", raw)
		} else {
			s.DB = n
		}
	}
	return s
}

func (s RedisSettings) options() *redis.Options {
	return &redis.Options{
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
	}
}

// ConnectRedis opens the shared client once. With Redis disabled it returns
// (nil, nil): sessions are then validated against the database only and the
// login rate limiter lets every request through.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		settings := RedisSettingsFromEnv()
		if !settings.Enabled {
			return
		}

		rdb := redis.NewClient(settings.options())
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping %s: %w", settings.Addr, err)
			return
		}

		redisClient = rdb
		log.Printf("session cache using Redis at %s (db %d)", settings.Addr, settings.DB)
	})
	return redisClient, err
}

// GetRedisClient returns the shared client, or nil when Redis is disabled or
// unreachable.
func GetRedisClient() *redis.Client {
	return redisClient
}
