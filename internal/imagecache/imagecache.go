package imagecache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache кэширует байты картинок (аватары, обложки) в Redis.
// Любая ошибка Redis трактуется как промах: ответ тогда собирается из базы.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func AvatarKey(userID string) string {
	return "img:avatar:" + userID
}

func CoverKey(postID string) string {
	return "img:cover:" + postID
}

// Get возвращает байты и content-type; false при промахе
func (c *Cache) Get(ctx context.Context, key string) ([]byte, string, bool) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil, "", false
	}

	data, ok := fields["data"]
	if !ok || data == "" {
		return nil, "", false
	}

	return []byte(data), fields["type"], true
}

// Set сохраняет байты с TTL; ошибки игнорируются
func (c *Cache) Set(ctx context.Context, key string, data []byte, contentType string) {
	if err := c.rdb.HSet(ctx, key, "data", data, "type", contentType).Err(); err != nil {
		return
	}
	c.rdb.Expire(ctx, key, c.ttl)
}

// Invalidate сбрасывает запись после изменения картинки
func (c *Cache) Invalidate(ctx context.Context, key string) {
	c.rdb.Del(ctx, key)
}
