package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"housing-agent/utils"
)

// timestampLayout is ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FileStore keeps the seen-set as a JSON object of url -> first-seen time.
// Saves replace the file atomically so an interrupted write never leaves a
// truncated document behind.
type FileStore struct {
	*seenSet
	path   string
	logger *utils.Logger
}

// OpenFileStore loads the seen-set at path. A missing or unreadable file
// yields an empty store; the problem is logged, never returned.
func OpenFileStore(path string, logger *utils.Logger) *FileStore {
	fs := &FileStore{seenSet: newSeenSet(), path: path, logger: logger}

	if err := fs.readFile(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("[store] No seen-set at %s yet, starting empty", path)
		} else {
			logger.Error("[store] Error loading seen listings from %s: %v, treating as empty", path, err)
			fs.seenSet = newSeenSet()
		}
	}
	return fs
}

func (fs *FileStore) readFile() error {
	info, err := os.Stat(fs.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for url, stamp := range raw {
		at, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			// The url is still known; its file's mtime bounds when it was seen.
			fs.logger.Warn("[store] Bad timestamp %q for %s, using file time", stamp, url)
			at = info.ModTime().UTC()
		}
		fs.seenSet.load(url, at)
	}
	return nil
}

// SetClock replaces the time source used for new records.
func (fs *FileStore) SetClock(now func() time.Time) { fs.now = now }

// Save writes the whole seen-set to a temp file and renames it over the
// previous version.
func (fs *FileStore) Save() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make(map[string]string, len(fs.first))
	for url, at := range fs.first {
		out[url] = at.UTC().Format(timestampLayout)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("store: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("store: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", fs.path, err)
	}

	fs.logger.Info("[store] Saved %d new listings to state (total: %d)", len(fs.pending), len(fs.first))
	fs.pending = nil
	return nil
}

func (fs *FileStore) Close() error { return nil }
