package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStorage is the fallback when no redis address is configured.
// Expired entries are dropped lazily on read.
type MemoryStorage struct {
	mtx     sync.RWMutex
	entries map[string]memoryEntry
}

func (s *MemoryStorage) Get(ctx context.Context, key string, val any) error {
	s.mtx.RLock()
	entry, ok := s.entries[key]
	s.mtx.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mtx.Lock()
		delete(s.entries, key)
		s.mtx.Unlock()
		return ErrNotFound
	}
	return json.Unmarshal(entry.data, val)
}

func (s *MemoryStorage) Set(ctx context.Context, key string, val any, expiresIn time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if expiresIn > 0 {
		entry.expiresAt = time.Now().Add(expiresIn)
	}
	s.mtx.Lock()
	s.entries[key] = entry
	s.mtx.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.entries[key]; !ok {
		return ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
	}
}
