package docs

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Andrei15193/CodeMap-sub002/internal/config"
)

type cachedEntry struct {
	ID   string    `json:"id"`
	Docs *BlockSet `json:"docs"`
}

// storeCachePath maps a documentation source to its cache file.
func storeCachePath(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(config.DocsCacheDir(), fmt.Sprintf("%x.json.zst", sum[:12]))
}

// SaveStoreCache compresses and saves a parsed store for source.
func SaveStoreCache(store *MemoryStore, source string) error {
	dir := config.DocsCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating docs cache dir: %w", err)
	}

	f, err := os.Create(storeCachePath(source))
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	entries := make([]cachedEntry, 0, store.Len())
	for _, id := range store.IDs() {
		b, _ := store.TryFind(id)
		entries = append(entries, cachedEntry{ID: id, Docs: b})
	}
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// LoadStoreCache loads the cached store for source.
func LoadStoreCache(source string) (*MemoryStore, error) {
	f, err := os.Open(storeCachePath(source))
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	var entries []cachedEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding cached documentation: %w", err)
	}
	store := NewMemoryStore()
	for _, e := range entries {
		if e.Docs == nil {
			e.Docs = &BlockSet{}
		}
		store.Add(e.ID, e.Docs)
	}
	return store, nil
}

// HasFreshStoreCache reports whether a cache for source exists and is newer
// than the source file.
func HasFreshStoreCache(source string) bool {
	cached, err := os.Stat(storeCachePath(source))
	if err != nil {
		return false
	}
	src, err := os.Stat(source)
	if err != nil {
		return false
	}
	return !cached.ModTime().Before(src.ModTime())
}

// ClearStoreCache removes every cached store.
func ClearStoreCache() error {
	if err := os.RemoveAll(config.DocsCacheDir()); err != nil {
		return fmt.Errorf("removing docs cache: %w", err)
	}
	return nil
}
