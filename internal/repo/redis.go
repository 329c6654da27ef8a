package repo

import (
	"SwiftShare/config"
	"SwiftShare/model"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"log"
	"strings"
	"time"
)

var Redis *redis.Client

// FileExpiredHook, when set, is invoked after the TTL listener flips a record
// to EXPIRED. main wires it to the reclaim-task publisher; the sweep remains
// the fallback when no hook is set or publishing fails.
var FileExpiredHook func(ctx context.Context, fileUUID string)

type RedisLock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
}

// InitRedis initializes Redis client.
func InitRedis() {
	RedisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	_, err := RedisClient.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("init redis fail", err)
	}
	log.Println("init redis success")
	Redis = RedisClient
}

// EnableKeyspaceNotifications enables Redis keyspace expired events.
func EnableKeyspaceNotifications(ctx context.Context) error {
	if Redis == nil {
		return errors.New("redis not initialized")
	}
	return Redis.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err()
}

// NewRedisLock creates a Redis lock helper.
func NewRedisLock(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		rdb: rdb,
		key: key,
		ttl: ttl,
	}
}

// Lock acquires a Redis-based lock.
func (l *RedisLock) Lock(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("lock is busy")
	}
	l.token = token
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases a Redis-based lock.
func (l *RedisLock) Unlock(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	_, err := unlockScript.Run(
		ctx,
		l.rdb,
		[]string{l.key},
		l.token,
	).Result()
	return err
}

// FileTTLKey is the Redis key whose expiry mirrors a record's expires_at.
func FileTTLKey(fileUUID string) string {
	return "file:expire:" + fileUUID
}

// ListenRedisExpired listens for Redis expired events.
func ListenRedisExpired(ctx context.Context, rdb *redis.Client, ready chan<- struct{}) {
	pubsub := rdb.Subscribe(ctx, fmt.Sprintf("__keyevent@%d__:expired", config.AppConfig.RedisDB))
	_, err := pubsub.Receive(ctx)
	if err != nil {
		log.Fatalf("subscribe failed: %v", err)
	}
	close(ready)
	ch := pubsub.Channel()

	for msg := range ch {
		handleExpiredKey(ctx, msg.Payload)
	}
}

// handleExpiredKey dispatches expired-key handlers.
func handleExpiredKey(ctx context.Context, key string) {
	switch {
	case strings.HasPrefix(key, "file:expire:"):
		handleFileExpired(ctx, key)
	default:
	}
}

// handleFileExpired eagerly flips a timed-out record to EXPIRED. The update
// is conditional on ACTIVE so a concurrent download or sweep cannot be
// contradicted; losing the race is a no-op.
func handleFileExpired(ctx context.Context, key string) {
	fileUUID := strings.TrimPrefix(key, "file:expire:")
	res := Db.Model(&model.FileRecord{}).
		Where("uuid = ? AND status = ?", fileUUID, model.StatusActive).
		Update("status", model.StatusExpired)
	if res.Error != nil {
		log.Printf("expire %s failed: %v", fileUUID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		return
	}
	log.Println("file expired:", fileUUID)
	if FileExpiredHook != nil {
		FileExpiredHook(ctx, fileUUID)
	}
}
