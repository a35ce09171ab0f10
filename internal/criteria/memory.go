package criteria

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps criteria for the process lifetime only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates a store seeded with the defaults.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: Defaults()}
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
}

func (s *MemoryStore) Put(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Name == entry.Name {
			s.entries[i].Explanation = entry.Explanation
			return nil
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = Defaults()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
