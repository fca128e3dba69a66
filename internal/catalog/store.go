package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store attaches named artifacts to entries. Implementations must be safe
// for concurrent use across different entries.
type Store interface {
	// Has reports whether the artifact named by suffix exists for the entry.
	Has(entry *Entry, suffix string) bool
	// Read returns the artifact bytes for the entry.
	Read(entry *Entry, suffix string) ([]byte, error)
	// Write persists the artifact bytes for the entry, replacing any
	// previous artifact under the same suffix.
	Write(entry *Entry, suffix string, data []byte) error
}

// FileStore keeps artifacts on the local filesystem under
// <root>/<id[0:2]>/<id>/<suffix>, sharded by the first two characters of
// the entry ID to keep directory fan-out bounded.
type FileStore struct {
	root string
}

// NewFileStore resolves root to an absolute path and returns a store
// rooted there. The directory is created lazily on first write.
func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", root, err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the resolved storage root.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) entryPath(entry *Entry, suffix string) string {
	shard := entry.ID
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.root, shard, entry.ID, suffix)
}

func (s *FileStore) Has(entry *Entry, suffix string) bool {
	info, err := os.Stat(s.entryPath(entry, suffix))
	return err == nil && !info.IsDir()
}

func (s *FileStore) Read(entry *Entry, suffix string) ([]byte, error) {
	b, err := os.ReadFile(s.entryPath(entry, suffix))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", entry.ID, suffix, err)
	}
	return b, nil
}

func (s *FileStore) Write(entry *Entry, suffix string, data []byte) error {
	path := s.entryPath(entry, suffix)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create entry dir for %s: %w", entry.ID, err)
	}
	// Write through a temp file so readers never observe partial artifacts.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+suffix+".*")
	if err != nil {
		return fmt.Errorf("write %s %s: %w", entry.ID, suffix, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s %s: %w", entry.ID, suffix, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s %s: %w", entry.ID, suffix, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s %s: %w", entry.ID, suffix, err)
	}
	return nil
}
