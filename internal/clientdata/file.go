package clientdata

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileTier stores one JSON document per key under dir.
type FileTier struct {
	dir string
	now Clock
}

// NewFileTier creates dir if needed.
func NewFileTier(dir string, now Clock) (*FileTier, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileTier{dir: dir, now: now}, nil
}

// Path returns the document path for key. The readable prefix is
// sanitized, and the hash suffix keeps sanitized collisions apart.
func (f *FileTier) Path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return filepath.Join(f.dir, fmt.Sprintf("%s-%08x.json", safe, h.Sum32()))
}

// Get checks existence and age before reading. Unreadable or malformed
// documents report FileCorrupt rather than an error.
func (f *FileTier) Get(key string, maxAge time.Duration) ([]byte, FileState) {
	path := f.Path(key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, FileMissing
	}

	data, err := os.ReadFile(path)
	if err != nil || !json.Valid(data) {
		return nil, FileCorrupt
	}

	if f.now().Sub(info.ModTime()) >= maxAge {
		return data, FileStale
	}
	return data, FileFresh
}

// Set writes payload atomically through a temp file and rename.
func (f *FileTier) Set(key string, payload []byte) error {
	path := f.Path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Delete removes the document for key, ignoring missing files.
func (f *FileTier) Delete(key string) error {
	if err := os.Remove(f.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Prune removes documents whose modification age is at least maxAge.
// Returns the number of files deleted.
func (f *FileTier) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache directory: %w", err)
	}

	deleted := 0
	now := f.now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) >= maxAge {
			if err := os.Remove(filepath.Join(f.dir, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
