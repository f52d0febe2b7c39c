package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"vane/internal/ir"
)

// cacheEntry is the on-disk shape of one cached translation, msgpack-coded.
type cacheEntry struct {
	Name   string
	Vector ir.Vector
}

// cacheKey fingerprints one file's content plus the knobs that affect
// translation, so a pointer-size change can't serve a stale cache hit.
func cacheKey(content []byte, ptrSize int) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{byte(ptrSize)})
	return hex.EncodeToString(h.Sum(nil))
}

func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "vane", "mods")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// loadCache looks up a previously translated single-file vector by key.
func loadCache(key string) (cacheEntry, bool) {
	dir, err := cacheDir()
	if err != nil {
		return cacheEntry{}, false
	}
	// #nosec G304 -- key is a hex sha256 digest this package computed itself
	data, err := os.ReadFile(filepath.Join(dir, key+".mp"))
	if err != nil {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return cacheEntry{}, false
	}
	return entry, true
}

// storeCache persists a translated single-file vector under key. Failures
// are silent: the cache is an optimization, never a build requirement.
func storeCache(key string, entry cacheEntry) {
	dir, err := cacheDir()
	if err != nil {
		return
	}
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, key+".mp"), data, 0o644)
}
