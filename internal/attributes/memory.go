package attributes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps attributes in process memory. State is lost on
// restart, which is fine for development and single-node trials.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAttrs(rec.Attributes), nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, attrs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = Record{
		Key:        key,
		Attributes: copyAttrs(attrs),
		UpdatedAt:  time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		rec.Attributes = copyAttrs(rec.Attributes)
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
