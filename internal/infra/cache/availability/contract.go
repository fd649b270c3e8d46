package availability

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client подмножество команд Redis, используемых кэшем
// Реализуется *redis.Client
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}
