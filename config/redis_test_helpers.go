package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest injects a client (usually a redismock client) so the
// session cache and rate limiter can be exercised without a Redis server.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest forgets the injected client and re-arms ConnectRedis.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
