package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type entryRecord struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ReadEntries loads a catalog listing: a JSON array of {id, type}
// records. Unknown types map to TypeOther; records without an id are
// rejected.
func ReadEntries(path string) ([]*Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries file: %w", err)
	}

	var records []entryRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse entries file %s: %w", path, err)
	}

	entries := make([]*Entry, 0, len(records))
	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("entries file %s: record %d has no id", path, i)
		}
		entries = append(entries, &Entry{ID: id, Type: ParseEntryType(rec.Type)})
	}
	return entries, nil
}
