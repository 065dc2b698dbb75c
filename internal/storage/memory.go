package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a mutex-guarded map. It backs tests and the throwaway
// "memory" backend; nothing survives process exit.
type MemoryStore struct {
	mu      sync.Mutex
	blobs   map[string]string
	backups int

	// FailSaves forces every Save to error; tests use it to exercise the
	// repository's no-partial-state guarantee.
	FailSaves bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return fmt.Errorf("save %s: simulated storage failure", key)
	}
	s.blobs[key] = value
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blobs[key], nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) Backup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups++
	return fmt.Sprintf("mem:backup:%d", s.backups), nil
}
