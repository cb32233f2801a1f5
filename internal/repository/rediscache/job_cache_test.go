package rediscache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
	"social-automation-service/internal/repository/rediscache"
)

type memStore struct {
	jobs  map[string]*entity.Job
	reads int
}

func (m *memStore) Create(ctx context.Context, job *entity.Job) error {
	if m.jobs == nil {
		m.jobs = map[string]*entity.Job{}
	}
	j := *job
	m.jobs[job.ID] = &j
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	m.reads++
	j, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *j
	return &out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob(id string) *entity.Job {
	return &entity.Job{
		ID:        id,
		UserID:    "u1",
		Status:    entity.StatusPending,
		Type:      "image_generation",
		Prompt:    "sunset",
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func newCache(t *testing.T) (*rediscache.JobCache, *memStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := &memStore{}
	return rediscache.NewJobCache(store, rdb, "test:", time.Minute, quietLogger()), store, mr
}

func TestJobCache_PendingJob_ReadsThroughToStore(t *testing.T) {
	cache, store, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Create(ctx, testJob("j1")))
	assert.False(t, mr.Exists("test:j1"), "pending job must not be cached on create")

	got, err := cache.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.False(t, mr.Exists("test:j1"), "pending job must not be cached on read")

	// the automation backend finishes the job
	store.jobs["j1"].Status = entity.StatusDone

	got, err = cache.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, got.Status)
	assert.Equal(t, 2, store.reads)
}

func TestJobCache_TerminalJob_ServedFromCache(t *testing.T) {
	cache, store, mr := newCache(t)
	ctx := context.Background()

	job := testJob("j2")
	job.Status = entity.StatusError
	require.NoError(t, store.Create(ctx, job))

	first, err := cache.GetByID(ctx, "j2")
	require.NoError(t, err)
	second, err := cache.GetByID(ctx, "j2")
	require.NoError(t, err)

	assert.Equal(t, job, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.reads)
	assert.True(t, mr.Exists("test:j2"))
	assert.Greater(t, mr.TTL("test:j2"), time.Duration(0))
}

func TestJobCache_NonTerminalEntryIsIgnored(t *testing.T) {
	cache, store, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, testJob("j3")))
	store.jobs["j3"].Status = entity.StatusDone
	// entry left behind by an older build that cached pending rows
	require.NoError(t, mr.Set("test:j3", `{"id":"j3","status":"pending"}`))

	got, err := cache.GetByID(ctx, "j3")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, got.Status)
	assert.Equal(t, 1, store.reads)
}

func TestJobCache_Missing(t *testing.T) {
	cache, _, mr := newCache(t)

	_, err := cache.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, mr.Exists("test:missing"))
}

// Every redis call fails here and the cache must fall through.
func TestJobCache_RedisDown_FallsBackToStore(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	store := &memStore{}
	cache := rediscache.NewJobCache(store, rdb, "test:", time.Minute, quietLogger())
	ctx := context.Background()

	job := testJob("j1")
	job.Status = entity.StatusDone
	require.NoError(t, cache.Create(ctx, job))

	got, err := cache.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = cache.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
