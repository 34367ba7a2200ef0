package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

func TestMemorySessionStoreLifecycle(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()
	state := models.NewConsoleState("s-1", time.Now())

	require.NoError(t, store.Create(ctx, state))
	require.Error(t, store.Create(ctx, state))

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

	loaded.Teachers[0].LastName = "mutated"
	again, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Petrov", again.Teachers[0].LastName)

	require.NoError(t, store.Delete(ctx, "s-1"))
	_, err = store.Load(ctx, "s-1")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestMemorySessionStoreFailedUpdateLeavesState(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))

	_, err := store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
		s.Filter.Search = "half-written"
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Filter.Search)
}

func TestMemorySessionStoreConcurrentUpdatesSerialise(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, models.NewConsoleState("s-1", time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update(ctx, "s-1", func(s *models.ConsoleState) error {
				s.Sequences[models.QueryTeachers]++
				return nil
			})
		}()
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), loaded.Sequences[models.QueryTeachers])
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, nil)
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, models.NewConsoleState("old", now)))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Create(ctx, models.NewConsoleState("fresh", now)))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "fresh")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestMemorySessionStoreSweeperStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := NewMemorySessionStore(time.Minute, nil)
	store.StartSweeper(context.Background(), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Close())
}
