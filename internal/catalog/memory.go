package catalog

import (
	"fmt"
	"sync"
)

// MemStore is a map-backed Store used in tests and dry runs.
type MemStore struct {
	mu    sync.RWMutex
	files map[string][]byte

	// FailRead and FailWrite, when set, simulate local I/O failures for
	// the matching entry/suffix pair.
	FailRead  func(entry *Entry, suffix string) bool
	FailWrite func(entry *Entry, suffix string) bool
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func key(entry *Entry, suffix string) string {
	return entry.ID + "/" + suffix
}

func (s *MemStore) Has(entry *Entry, suffix string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[key(entry, suffix)]
	return ok
}

func (s *MemStore) Read(entry *Entry, suffix string) ([]byte, error) {
	if s.FailRead != nil && s.FailRead(entry, suffix) {
		return nil, fmt.Errorf("read %s %s: simulated failure", entry.ID, suffix)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.files[key(entry, suffix)]
	if !ok {
		return nil, fmt.Errorf("read %s %s: not found", entry.ID, suffix)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *MemStore) Write(entry *Entry, suffix string, data []byte) error {
	if s.FailWrite != nil && s.FailWrite(entry, suffix) {
		return fmt.Errorf("write %s %s: simulated failure", entry.ID, suffix)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	s.files[key(entry, suffix)] = b
	return nil
}
