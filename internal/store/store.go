// Package store provides the key-addressed local repositories backing
// favorites, search history, price alerts and vendor contacts. Each key
// holds one JSON-serialized array, read in full and rewritten in full on
// every mutation — no partial updates, no migrations.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys. One file per key under the data directory.
const (
	KeyFavorites   = "favorites"
	KeyHistory     = "search-history"
	KeyPriceAlerts = "price-alerts"
	KeyVendors     = "vendors"
)

// Repository is the persistence contract injected into anything that
// touches saved state, so tests can swap in MemStore.
type Repository[T any] interface {
	Load() ([]T, error)
	Save(items []T) error
}

// FileStore persists one record list as a JSON file.
type FileStore[T any] struct {
	path string
	mu   sync.Mutex
}

func NewFileStore[T any](dir, key string) *FileStore[T] {
	return &FileStore[T]{path: filepath.Join(dir, key+".json")}
}

// Load returns the stored records; a missing file is an empty list.
func (s *FileStore[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return items, nil
}

// Save rewrites the full list. The write goes through a temp file and
// rename so a crash can't leave a half-written store behind.
func (s *FileStore[T]) Save(items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}

// MemStore is the in-memory Repository used by tests.
type MemStore[T any] struct {
	mu    sync.Mutex
	items []T
}

func NewMemStore[T any]() *MemStore[T] {
	return &MemStore[T]{}
}

func (s *MemStore[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...), nil
}

func (s *MemStore[T]) Save(items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T(nil), items...)
	return nil
}
