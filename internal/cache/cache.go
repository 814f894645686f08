package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// Cache provides file-based caching for per-file analysis results. Entries
// are invalidated by content hash and by age.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is one cached analysis result.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a cache rooted at dir. A disabled cache is a no-op and never
// touches the filesystem.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// HashBytes computes a BLAKE3 hash and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetWithHash retrieves a cached entry only if its content hash matches and
// it has not expired.
func (c *Cache) GetWithHash(key, hash string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.keyPath(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Hash != hash {
		return nil, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}
	return entry.Data, true
}

// Set stores data under key with the given content hash. Failures are
// silent: the cache is an optimization, not a store of record.
func (c *Cache) Set(key, hash string, data []byte) {
	if !c.enabled {
		return
	}
	entry := Entry{Hash: hash, Timestamp: time.Now(), Data: data}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.keyPath(key), raw, 0o644)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, HashBytes([]byte(key))+".json")
}
