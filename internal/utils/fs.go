package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// CacheDir is the root for downloaded definitions and media. Empty disables caching.
var CacheDir string

// DefaultCacheDir returns $XDG_CACHE_HOME/linux-shadertoy (or the OS equivalent).
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "linux-shadertoy")
	}
	return filepath.Join(base, "linux-shadertoy")
}

// CachePath maps a key (usually a URL) to a stable file path under CacheDir/kind.
// The original extension is kept so decoders can sniff the format from the name.
func CachePath(kind, key string) string {
	if CacheDir == "" {
		return ""
	}

	sum := sha1.Sum([]byte(key))
	name := hex.EncodeToString(sum[:])

	ext := filepath.Ext(key)
	if i := strings.IndexAny(ext, "?#"); i != -1 {
		ext = ext[:i]
	}
	if len(ext) > 0 && len(ext) <= 6 {
		name += strings.ToLower(ext)
	}

	return filepath.Join(CacheDir, kind, name)
}

// ReadCached returns the cached bytes for key, if present.
func ReadCached(kind, key string) ([]byte, bool) {
	path := CachePath(kind, key)
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	Debug("Cache: hit %s (%s)", key, path)
	return data, true
}

// WriteCached stores data for key. Failures are logged and otherwise ignored.
func WriteCached(kind, key string, data []byte) {
	path := CachePath(kind, key)
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		Warn("Cache: could not create %s: %v", filepath.Dir(path), err)
		return
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		Warn("Cache: could not write %s: %v", path, err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		Warn("Cache: could not move %s: %v", tmp, err)
		os.Remove(tmp)
	}
}
