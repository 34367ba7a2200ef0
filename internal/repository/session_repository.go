package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/models"
	appErrors "github.com/noah-isme/staff-directory-console/pkg/errors"
)

type memoryEntry struct {
	mu        sync.Mutex
	state     *models.ConsoleState
	expiresAt time.Time
}

// MemorySessionStore keeps console state in process memory with a sliding TTL.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemorySessionStore constructs an in-memory store.
func NewMemorySessionStore(ttl time.Duration, logger *zap.Logger) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemorySessionStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Create registers a new session.
func (s *MemorySessionStore) Create(_ context.Context, state *models.ConsoleState) error {
	if state == nil || state.SessionID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[state.SessionID]; exists {
		return appErrors.Clone(appErrors.ErrSessionConflict, "session already exists")
	}
	s.entries[state.SessionID] = &memoryEntry{state: state.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Load returns a copy of the session state.
func (s *MemorySessionStore) Load(_ context.Context, id string) (*models.ConsoleState, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.expiresAt = s.now().Add(s.ttl)
	return entry.state.Clone(), nil
}

// Update applies fn atomically. When fn fails the stored state is untouched.
func (s *MemorySessionStore) Update(_ context.Context, id string, fn func(*models.ConsoleState) error) (*models.ConsoleState, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.state.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.state = working
	entry.expiresAt = s.now().Add(s.ttl)
	return working.Clone(), nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len reports the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops sessions whose TTL has passed and returns how many were removed.
func (s *MemorySessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.entries {
		entry.mu.Lock()
		expired := now.After(entry.expiresAt)
		entry.mu.Unlock()
		if expired {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx ends or Close is called.
func (s *MemorySessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.logger.Debug("expired console sessions removed", zap.Int("count", n))
				}
			}
		}
	}()
}

// Close stops the sweeper, if running, and waits for it to exit.
func (s *MemorySessionStore) Close() error {
	s.mu.RLock()
	stop, done := s.stop, s.done
	s.mu.RUnlock()
	if stop == nil {
		return nil
	}
	s.stopOnce.Do(func() { close(stop) })
	<-done
	return nil
}

func (s *MemorySessionStore) entry(id string) (*memoryEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	entry.mu.Lock()
	expired := s.now().After(entry.expiresAt)
	entry.mu.Unlock()
	if expired {
		_ = s.Delete(context.Background(), id)
		return nil, appErrors.ErrSessionNotFound
	}
	return entry, nil
}
