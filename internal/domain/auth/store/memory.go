package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryRecord struct {
	token     string
	expiresAt time.Time
}

type memoryStore struct {
	items       map[string]memoryRecord
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory refresh store, intended for development and
// tests where no redis is available.
func NewMemory(cfg Config) Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]memoryRecord),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) removeExpired() {
	now := time.Now()
	s.mutex.Lock()
	for username, rec := range s.items {
		if now.After(rec.expiresAt) {
			delete(s.items, username)
		}
	}
	s.mutex.Unlock()
}

func (s *memoryStore) Put(_ context.Context, username, token string) error {
	if username == "" {
		return fmt.Errorf("username required")
	}
	s.mutex.Lock()
	s.items[username] = memoryRecord{
		token:     token,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Get(_ context.Context, username string) (string, error) {
	s.mutex.RLock()
	rec, ok := s.items[username]
	s.mutex.RUnlock()
	if !ok || time.Now().After(rec.expiresAt) {
		return "", ErrNotFound
	}
	return rec.token, nil
}

func (s *memoryStore) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.Get(ctx, username)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *memoryStore) Delete(_ context.Context, username string) error {
	s.mutex.Lock()
	delete(s.items, username)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return nil
}
