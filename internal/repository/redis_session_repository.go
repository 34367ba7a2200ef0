package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

const (
	sessionKeyPrefix  = "console:session:"
	maxUpdateAttempts = 16
)

// RedisSessionStore keeps console state in Redis so several console replicas
// can serve one browser session. Updates use WATCH/MULTI so concurrent
// requests never lose each other's writes.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionStore constructs a Redis-backed store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionStore{client: client, ttl: ttl, logger: logger}
}

// Create registers a new session; it fails if the id is taken.
func (r *RedisSessionStore) Create(ctx context.Context, state *models.ConsoleState) error {
	if state == nil || state.SessionID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session id required")
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.SessionID, err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(state.SessionID), payload, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", state.SessionID, err)
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrSessionConflict, "session already exists")
	}
	return nil
}

// Load returns the stored state and refreshes its TTL.
func (r *RedisSessionStore) Load(ctx context.Context, id string) (*models.ConsoleState, error) {
	raw, err := r.client.GetEx(ctx, sessionKey(id), r.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return decodeState(id, raw)
}

// Update applies fn inside an optimistic transaction, retrying when another
// request wrote the same session in between. fn may therefore run more than
// once and must confine its effects to the state it is given.
func (r *RedisSessionStore) Update(ctx context.Context, id string, fn func(*models.ConsoleState) error) (*models.ConsoleState, error) {
	key := sessionKey(id)
	var result *models.ConsoleState

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return appErrors.ErrSessionNotFound
			}
			return fmt.Errorf("redis get %s: %w", id, err)
		}
		state, err := decodeState(id, raw)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		payload, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal session %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err == nil {
			result = state
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		r.logger.Debug("session update raced, retrying", zap.String("session_id", id), zap.Int("attempt", attempt+1))
	}
	return nil, appErrors.ErrSessionConflict
}

// Delete ends a session.
func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisSessionStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func decodeState(id string, raw []byte) (*models.ConsoleState, error) {
	var state models.ConsoleState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	if state.Sequences == nil {
		state.Sequences = map[string]int64{}
	}
	return &state, nil
}
