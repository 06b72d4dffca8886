package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const RoomCachePrefix = "rooms:"

// RoomCache is a two level cache for the public room catalogue: an in-process
// ccache in front of an optional Redis shared by all instances.
type RoomCache struct {
	local  *ccache.Cache[[]byte]
	remote *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRoomCache(remote *redis.Client, ttl time.Duration, log *logrus.Logger) *RoomCache {
	return &RoomCache{
		local:  ccache.New(ccache.Configure[[]byte]().MaxSize(1000)),
		remote: remote,
		ttl:    ttl,
		log:    log,
	}
}

// Get decodes the cached value for key into dest and reports a hit.
func (c *RoomCache) Get(ctx context.Context, key string, dest any) bool {
	key = RoomCachePrefix + key

	if item := c.local.Get(key); item != nil && !item.Expired() {
		if err := json.Unmarshal(item.Value(), dest); err == nil {
			return true
		}
		c.local.Delete(key)
	}

	if c.remote == nil {
		return false
	}
	raw, err := c.remote.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Warn("room cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("room cache entry corrupt")
		return false
	}
	c.local.Set(key, raw, c.ttl)
	return true
}

func (c *RoomCache) Set(ctx context.Context, key string, value any) {
	key = RoomCachePrefix + key
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("room cache encode failed")
		return
	}
	c.local.Set(key, raw, c.ttl)
	if c.remote != nil {
		if err := c.remote.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.WithError(err).WithField("key", key).Warn("room cache write failed")
		}
	}
}

// Invalidate drops every room entry. Called after any room mutation.
func (c *RoomCache) Invalidate(ctx context.Context) {
	c.local.DeletePrefix(RoomCachePrefix)
	if c.remote == nil {
		return
	}
	iter := c.remote.Scan(ctx, 0, RoomCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithError(err).Warn("room cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := c.remote.Del(ctx, keys...).Err(); err != nil {
			c.log.WithError(err).Warn("room cache invalidate failed")
		}
	}
}

func (c *RoomCache) Stop() {
	c.local.Stop()
}
