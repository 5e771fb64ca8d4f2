package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// splitCache is a two-layer cache for fetched splits: a process-local memory
// layer in front of a disk layer, so repeated runs against the same dataset do
// not re-download rows. A zero-value cache (empty dir) disables the disk layer.
type splitCache struct {
	dir string
	ttl time.Duration
	mem *gocache.Cache
}

func newSplitCache(dir string, ttl time.Duration) *splitCache {
	return &splitCache{
		dir: dir,
		ttl: ttl,
		mem: gocache.New(ttl, 10*time.Minute),
	}
}

// cacheKey identifies a split by dataset, config and split name.
func cacheKey(dataset, config, split string) string {
	hash := sha256.Sum256([]byte(dataset + "\x00" + config + "\x00" + split))
	return "nertune:v1:" + hex.EncodeToString(hash[:16])
}

type cacheEntry struct {
	Split     *Split    `json:"split"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *splitCache) get(key string) (*Split, bool) {
	if v, ok := c.mem.Get(key); ok {
		if s, ok := v.(*Split); ok {
			return s, true
		}
	}
	if c.dir == "" {
		return nil, false
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false
	}

	c.mem.Set(key, entry.Split, gocache.DefaultExpiration)
	return entry.Split, true
}

// set stores a fully loaded split. The disk write goes through a temporary
// file and rename so a crash mid-write never leaves a truncated entry behind.
func (c *splitCache) set(key string, split *Split) error {
	c.mem.Set(key, split, gocache.DefaultExpiration)
	if c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	entry := cacheEntry{Split: split, ExpiresAt: time.Now().Add(c.ttl)}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "split-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func (c *splitCache) delete(key string) {
	c.mem.Delete(key)
	if c.dir != "" {
		_ = os.Remove(c.path(key))
	}
}

func (c *splitCache) path(key string) string {
	return filepath.Join(c.dir, key+".cache")
}
