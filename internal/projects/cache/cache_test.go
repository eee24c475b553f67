package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showcase-labs/showcase-backend/internal/projects/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisCache_Project(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, nil)
	ctx := context.Background()

	_, ok := c.GetProject(ctx, "demo")
	assert.False(t, ok, "empty cache must miss")

	desc := "a demo"
	c.SetProject(ctx, 0, &domain.Project{ID: 1, Name: "Demo", Slug: "demo", Description: &desc})

	got, ok := c.GetProject(ctx, "demo")
	require.True(t, ok)
	assert.Equal(t, "Demo", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "a demo", *got.Description)

	assert.True(t, mr.Exists("projects:slug:demo"))
	assert.Equal(t, time.Minute, mr.TTL("projects:slug:demo"))

	mr.FastForward(2 * time.Minute)
	_, ok = c.GetProject(ctx, "demo")
	assert.False(t, ok, "entry must expire")
}

func TestRedisCache_List(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, nil)
	ctx := context.Background()

	_, ok := c.GetList(ctx)
	assert.False(t, ok)

	c.SetList(ctx, 0, []domain.Project{{ID: 2, Slug: "b"}, {ID: 1, Slug: "a"}})
	items, ok := c.GetList(ctx)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Slug)

	c.SetList(ctx, 0, []domain.Project{})
	items, ok = c.GetList(ctx)
	require.True(t, ok)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRedisCache_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, nil)
	ctx := context.Background()

	c.SetList(ctx, 0, []domain.Project{{ID: 1, Slug: "a"}})
	c.SetProject(ctx, 0, &domain.Project{ID: 1, Slug: "a"})
	c.SetProject(ctx, 0, &domain.Project{ID: 2, Slug: "b"})

	c.Invalidate(ctx, "a", "")

	assert.False(t, mr.Exists("projects:list"))
	assert.False(t, mr.Exists("projects:slug:a"))
	assert.True(t, mr.Exists("projects:slug:b"))

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), gen)
}

func TestRedisCache_FillAfterInvalidateIsDropped(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, nil)
	ctx := context.Background()

	// reader captures the generation, then a writer invalidates before the fill lands
	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	c.Invalidate(ctx, "doomed")

	c.SetProject(ctx, gen, &domain.Project{ID: 7, Slug: "doomed"})
	c.SetList(ctx, gen, []domain.Project{{ID: 7, Slug: "doomed"}})

	assert.False(t, mr.Exists("projects:slug:doomed"))
	assert.False(t, mr.Exists("projects:list"))

	// a fill carrying the current generation is accepted
	gen, ok = c.Generation(ctx)
	require.True(t, ok)
	c.SetList(ctx, gen, []domain.Project{})
	assert.True(t, mr.Exists("projects:list"))
	assert.Equal(t, time.Minute, mr.TTL("projects:list"))
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, time.Minute, nil)

	require.NoError(t, mr.Set("projects:slug:bad", "{not json"))
	_, ok := c.GetProject(context.Background(), "bad")
	assert.False(t, ok)
}

func TestRedisCache_ServerDownIsMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	c := NewRedisCache(client, time.Minute, nil)

	_, ok := c.GetList(context.Background())
	assert.False(t, ok)
	_, ok = c.Generation(context.Background())
	assert.False(t, ok)
	c.SetList(context.Background(), 0, nil)
	c.Invalidate(context.Background(), "x")
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	_, ok := c.Generation(ctx)
	assert.False(t, ok)

	c.SetProject(ctx, 0, &domain.Project{Slug: "a"})
	_, ok = c.GetProject(ctx, "a")
	assert.False(t, ok)

	c.SetList(ctx, 0, nil)
	_, ok = c.GetList(ctx)
	assert.False(t, ok)
}
