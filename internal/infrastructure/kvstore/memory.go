// Package kvstore provides the backings of the key-value document store.
package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
)

// MemoryStore keeps documents in process memory. With a positive quota it
// refuses writes that would take the total size of keys and values past it.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	size  int
	quota int
}

// NewMemoryStore creates a memory store; quota <= 0 means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), quota: quota}
}

var _ domainRepo.KVStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	newSize := s.size + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		newSize -= len(key) + len(old)
	}
	if s.quota > 0 && newSize > s.quota {
		return fmt.Errorf("%w: writing %q needs %d bytes, quota is %d", domainRepo.ErrQuotaExceeded, key, newSize, s.quota)
	}
	s.data[key] = bytes.Clone(value)
	s.size = newSize
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.size -= len(key) + len(old)
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Size returns the bytes currently counted against the quota.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}
