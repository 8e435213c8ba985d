package slotlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "clinic:slotlock:"
	redisRetryInterval = 25 * time.Millisecond
)

// Снимаем блокировку, только если она все еще наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis блокировка-аренда в Redis, общая для всех инстансов сервиса
// Аренда истекает через ttl, даже если держатель упал и не вызвал release
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// Logger для ошибок снятия аренды
type Logger interface {
	Warn(format string, v ...interface{})
}

// NewRedis создает распределенную блокировку
func NewRedis(client *redis.Client, ttl time.Duration, logger Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Acquire пытается поставить ключ через SET NX PX до истечения timeout
func (r *Redis) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	fullKey := redisKeyPrefix + key
	token := uuid.NewString()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("slotlock: redis setnx %s: %w", fullKey, err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err(); err != nil {
					// Аренда останется до истечения ttl
					r.logger.Warn("slotlock: failed to release %s: %v", fullKey, err)
				}
			}, nil
		}

		select {
		case <-timer.C:
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisRetryInterval):
		}
	}
}
