package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/xyproto/env/v2"
)

const (
	cacheKeep   = 20               // entries to retain during cleanup
	cacheMinAge = 7 * 24 * 60 * 60 // seconds before an entry may be removed
)

// defaultCacheDir resolves the build-cache directory: GITZCACHE when set,
// otherwise the platform cache location.
func defaultCacheDir() string {
	if dir := env.Str("GITZCACHE"); dir != "" {
		return dir
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := env.Str("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "gitz")
		}
		return filepath.Join(homeDir, "AppData", "Local", "gitz")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "gitz")
	default:
		if xdg := env.Str("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "gitz")
		}
		return filepath.Join(homeDir, ".cache", "gitz")
	}
}

// cacheKey hashes the source together with the compiler version and the
// optimization setting, so either change misses the cache.
func cacheKey(source []byte, optimize bool) (shortHash, fullHash string) {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte(Version))
	if optimize {
		h.Write([]byte("opt"))
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return sum[:8], sum
}

// isHashDir returns true if name is an 8-char hex string (matches shortHash format).
func isHashDir(name string) bool {
	if len(name) != 8 {
		return false
	}
	_, err := hex.DecodeString(name)
	return err == nil
}

// lookupCache returns the cached JavaScript for the key, if present and not
// a hash collision.
func lookupCache(cacheDir, shortHash, fullHash string) (string, bool) {
	dir := filepath.Join(cacheDir, shortHash)
	stored, err := os.ReadFile(filepath.Join(dir, ".hash"))
	if err != nil || string(stored) != fullHash {
		return "", false
	}
	js, err := os.ReadFile(filepath.Join(dir, "out.js"))
	if err != nil {
		return "", false
	}
	return string(js), true
}

// storeCache writes the emitted JavaScript under the key. The whole
// operation holds a file lock so concurrent gitz runs do not clobber each
// other's entries.
func storeCache(cacheDir, shortHash, fullHash, js string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	lock := flock.New(filepath.Join(cacheDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer lock.Unlock()

	cleanupCache(cacheDir, cacheKeep, cacheMinAge)

	dir := filepath.Join(cacheDir, shortHash)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "out.js"), []byte(js), 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	// The hash file doubles as the completion marker.
	if err := os.WriteFile(filepath.Join(dir, ".hash"), []byte(fullHash), 0644); err != nil {
		return fmt.Errorf("write hash file: %w", err)
	}
	return nil
}

// cleanupCache removes old cache entries. Only deletes entries older than
// minAge seconds, and keeps at least the 'keep' most recent regardless.
func cleanupCache(cacheDir string, keep int, minAge int64) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) <= keep {
		return
	}

	type dirInfo struct {
		name  string
		mtime int64
	}
	var dirs []dirInfo
	for _, e := range entries {
		if e.IsDir() && isHashDir(e.Name()) {
			if info, err := e.Info(); err == nil {
				dirs = append(dirs, dirInfo{e.Name(), info.ModTime().Unix()})
			}
		}
	}

	if len(dirs) <= keep {
		return
	}

	cutoff := time.Now().Unix() - minAge
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].mtime < dirs[j].mtime })
	for i := 0; i < len(dirs)-keep; i++ {
		if dirs[i].mtime < cutoff {
			path := filepath.Join(cacheDir, dirs[i].name)
			if err := os.RemoveAll(path); err != nil {
				fmt.Printf("warning: failed to remove old cache entry %s: %v\n", path, err)
			}
		}
	}
}
