package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(client, ttl, nil)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisSessionStoreLifecycle(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))
	err := store.Create(ctx, models.NewConsoleState("s-1", time.Now()))
	assert.True(t, errors.Is(err, appErrors.ErrSessionConflict))

	updated, err := store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
		s.Filter.Search = "Iv"
		s.Teachers = []models.TeacherSummary{{ID: 1, LastName: "Petrov"}}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Iv", updated.Filter.Search)

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Iv", loaded.Filter.Search)
	require.Len(t, loaded.Teachers, 1)
	assert.NotNil(t, loaded.Sequences)

	_, err = store.Update(ctx, "s-1", func(*models.ConsoleState) error {
		return errors.New("abort")
	})
	require.Error(t, err)
	loaded, err = store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Iv", loaded.Filter.Search)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Load(ctx, "s-1")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
	_, err = store.Update(ctx, "s-1", func(*models.ConsoleState) error { return nil })
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestRedisSessionStoreConcurrentUpdatesAreSerialised(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int64
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
				s.Sequences[models.QueryTeachers]++
				return nil
			})
			if err == nil {
				mu.Lock()
				committed++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, appErrors.ErrSessionConflict), err)
		}()
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Positive(t, committed)
	assert.Equal(t, committed, loaded.Sequences[models.QueryTeachers])
}

func TestRedisSessionStoreRetriesAfterConcurrentWrite(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = other.Close() })
	touch := func() {
		raw, err := other.Get(ctx, sessionKey("s-1")).Result()
		require.NoError(t, err)
		require.NoError(t, other.Set(ctx, sessionKey("s-1"), raw, time.Minute).Err())
	}

	calls := 0
	updated, err := store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
		calls++
		if calls == 1 {
			touch()
		}
		s.Filter.Search = "Ivan"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Ivan", updated.Filter.Search)

	calls = 0
	_, err = store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
		calls++
		touch()
		s.Filter.Search = "never"
		return nil
	})
	assert.True(t, errors.Is(err, appErrors.ErrSessionConflict))
	assert.Equal(t, maxUpdateAttempts, calls)

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Ivan", loaded.Filter.Search)
}

func TestRedisSessionStoreSlidingExpiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))
	assert.Equal(t, time.Minute, mr.TTL(sessionKey("s-1")))

	mr.FastForward(45 * time.Second)
	_, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(sessionKey("s-1")))

	mr.FastForward(45 * time.Second)
	_, err = store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
		s.ActiveView = models.ViewStatistics
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(sessionKey("s-1")))

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "s-1")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}
