package utils

import (
	"SwiftShare/internal/repo"
	"SwiftShare/model"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// GetCacheManager returns the cache manager.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyFileRecord = "file:record"
	CacheKeyUserInfo   = "user:info"
)

// GetFileRecordFromCache reads a cached file record by UUID.
func GetFileRecordFromCache(ctx context.Context, fileUUID string) (*model.FileRecord, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileRecord, fileUUID)

	var result model.FileRecord
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetFileRecordToCache writes a cached file record.
func SetFileRecordToCache(ctx context.Context, fileUUID string, data *model.FileRecord, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileRecord, fileUUID)
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateFileRecordCache clears a cached file record.
func InvalidateFileRecordCache(ctx context.Context, fileUUID string) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileRecord, fileUUID)
	return manager.cache.Delete(ctx, key)
}

// GetUserInfoFromCache reads cached user info.
func GetUserInfoFromCache(ctx context.Context, userId uint64) (*model.User, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyUserInfo, userId)

	var result model.User
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}

	return &result, true
}

// SetUserInfoToCache writes cached user info.
func SetUserInfoToCache(ctx context.Context, userId uint64, data *model.User, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyUserInfo, userId)
	return manager.cache.Set(ctx, key, data, expiration)
}
