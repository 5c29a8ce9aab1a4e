// Package rediscache wraps a store.Store with a Redis cache of the board
// snapshot.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
)

// BoardKey is the Redis key holding the cached board.
const BoardKey = "taskboard:board"

// Cache serves LoadBoard from Redis when possible and writes through on save.
// Event calls go straight to the backing store.
type Cache struct {
	base  store.Store
	redis *redis.Client
	ttl   time.Duration
}

var _ store.Store = (*Cache)(nil)

// New wraps base. A nil client or a zero ttl disables caching.
func New(base store.Store, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("rediscache.New: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) LoadBoard(ctx context.Context) (*model.Board, error) {
	if b, ok := c.loadFromCache(ctx); ok {
		return b, nil
	}
	b, err := c.base.LoadBoard(ctx)
	if err != nil || b == nil {
		return b, err
	}
	c.storeBoard(ctx, b)
	return b, nil
}

func (c *Cache) SaveBoard(ctx context.Context, b *model.Board) error {
	if err := c.base.SaveBoard(ctx, b); err != nil {
		c.evict(ctx)
		return err
	}
	c.storeBoard(ctx, b)
	return nil
}

func (c *Cache) RecordEvent(ctx context.Context, e *model.Event) error {
	return c.base.RecordEvent(ctx, e)
}

func (c *Cache) ListEvents(ctx context.Context, f model.EventFilter) ([]*model.Event, error) {
	return c.base.ListEvents(ctx, f)
}

// Close closes the backing store. The Redis client belongs to the caller.
func (c *Cache) Close() error {
	return c.base.Close()
}

func (c *Cache) loadFromCache(ctx context.Context) (*model.Board, bool) {
	if c.redis == nil || c.ttl == 0 {
		return nil, false
	}
	data, err := c.redis.Get(ctx, BoardKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			_ = c.redis.Del(ctx, BoardKey).Err()
		}
		return nil, false
	}
	var b model.Board
	if err := json.Unmarshal(data, &b); err != nil {
		_ = c.redis.Del(ctx, BoardKey).Err()
		return nil, false
	}
	if err := model.CheckInvariants(&b); err != nil {
		_ = c.redis.Del(ctx, BoardKey).Err()
		return nil, false
	}
	return &b, true
}

func (c *Cache) storeBoard(ctx context.Context, b *model.Board) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, BoardKey, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, BoardKey).Err()
}
