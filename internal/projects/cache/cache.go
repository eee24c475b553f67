// Package cache keeps read-through copies of public project reads in Redis.
// Failures are logged and reported as misses; the database stays the source
// of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
)

const (
	slugKeyPrefix = "projects:slug:" // projects:slug:{slug} -> project JSON
	listKey       = "projects:list"  // ordered project list JSON
	genKey        = "projects:gen"   // bumped by every invalidation
)

// fillScript writes KEYS[2] only while KEYS[1] still holds the generation
// the caller read before loading from storage.
var fillScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// Cache is the read cache consulted by the project service.
//
// Fills are generation-checked: read Generation before loading from storage
// and pass it to SetProject/SetList. If an invalidation ran in between, the
// fill is dropped, so a slow reader cannot put back a row a writer just
// changed or deleted.
type Cache interface {
	// Generation returns the current invalidation generation; ok is false
	// when it cannot be read, and the caller should skip the fill.
	Generation(ctx context.Context) (gen int64, ok bool)
	GetProject(ctx context.Context, slug string) (*domain.Project, bool)
	SetProject(ctx context.Context, gen int64, p *domain.Project)
	GetList(ctx context.Context) ([]domain.Project, bool)
	SetList(ctx context.Context, gen int64, items []domain.Project)
	// Invalidate bumps the generation and drops the list and the given slug entries.
	Invalidate(ctx context.Context, slugs ...string)
}

// RedisCache implements Cache on a go-redis client.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, log: log.Named("cache")}
}

func (c *RedisCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn("generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *RedisCache) GetProject(ctx context.Context, slug string) (*domain.Project, bool) {
	var p domain.Project
	if !c.get(ctx, slugKeyPrefix+slug, &p) {
		return nil, false
	}
	return &p, true
}

func (c *RedisCache) SetProject(ctx context.Context, gen int64, p *domain.Project) {
	c.set(ctx, gen, slugKeyPrefix+p.Slug, p)
}

func (c *RedisCache) GetList(ctx context.Context) ([]domain.Project, bool) {
	var items []domain.Project
	if !c.get(ctx, listKey, &items) {
		return nil, false
	}
	if items == nil {
		items = []domain.Project{}
	}
	return items, true
}

func (c *RedisCache) SetList(ctx context.Context, gen int64, items []domain.Project) {
	c.set(ctx, gen, listKey, items)
}

func (c *RedisCache) Invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs)+1)
	keys = append(keys, listKey)
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, slugKeyPrefix+s)
		}
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.log.Warn("invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("corrupt entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, gen int64, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	stored, err := fillScript.Run(ctx, c.client, []string{genKey, key}, gen, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn("set failed", zap.String("key", key), zap.Error(err))
		return
	}
	if stored == 0 {
		c.log.Debug("stale fill dropped", zap.String("key", key), zap.Int64("gen", gen))
	}
}

// Noop is used when Redis is not configured.
type Noop struct{}

func (Noop) Generation(context.Context) (int64, bool) { return 0, false }
func (Noop) GetProject(context.Context, string) (*domain.Project, bool) { return nil, false }
func (Noop) SetProject(context.Context, int64, *domain.Project) {}
func (Noop) GetList(context.Context) ([]domain.Project, bool) { return nil, false }
func (Noop) SetList(context.Context, int64, []domain.Project) {}
func (Noop) Invalidate(context.Context, ...string) {}
