// Package index writes the compressed file index for a media directory.
package index

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TypeFileIndex versions the persisted index structure.
const TypeFileIndex = "gallerykit/fileindex@1.0"

// File is one row of the index.
type File struct {
	Directory string    `json:"directory"`
	File      string    `json:"file"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
}

// Index is the persisted structure: all files below Base, sorted by
// directory descending, then file name ascending.
type Index struct {
	Type    string `json:"type"`
	Created string `json:"created"`
	Base    string `json:"base"`
	Data    []File `json:"data"`
}

type Options struct {
	// Base is the media root to scan.
	Base string
	// Output is the target path for the gzip-compressed JSON index.
	Output string
	// DryRun builds and returns the index without writing it.
	DryRun bool
}

// Write scans the base directory and persists the index. In dry-run mode
// the structure is returned without touching the output path.
func Write(opts Options) (*Index, error) {
	base, err := filepath.Abs(strings.TrimSpace(opts.Base))
	if err != nil {
		return nil, fmt.Errorf("resolve index base %q: %w", opts.Base, err)
	}

	var data []File
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			dir = ""
		}
		data = append(data, File{
			Directory: dir,
			File:      filepath.Base(rel),
			Size:      info.Size(),
			Modified:  info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}

	sort.Slice(data, func(i, j int) bool {
		if data[i].Directory != data[j].Directory {
			return data[i].Directory > data[j].Directory
		}
		return data[i].File < data[j].File
	})

	idx := &Index{
		Type:    TypeFileIndex,
		Created: time.Now().UTC().Format(time.RFC3339),
		Base:    base,
		Data:    data,
	}
	if opts.DryRun {
		return idx, nil
	}
	if err := write(idx, opts.Output); err != nil {
		return nil, err
	}
	return idx, nil
}

func write(idx *Index, output string) error {
	output = strings.TrimSpace(output)
	if output == "" {
		return fmt.Errorf("index output path is required")
	}

	b, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	// Write through a temp file so readers never observe a truncated index.
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*")
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	tmpName := tmp.Name()
	gz := gzip.NewWriter(tmp)
	if _, err := gz.Write(b); err != nil {
		_ = gz.Close()
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmpName, output); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
