// ABOUTME: On-disk cache for synthesized WAV clips
// ABOUTME: Files are keyed by a sha256 of provider and text and written atomically
package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Cache stores WAV clips in a directory
type Cache struct {
	dir string
}

// NewCache creates a cache in dir, or in a temp subdirectory when dir is empty
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "mindverse-tts")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// Key derives a cache key from the provider identity, output rate and text
func Key(provider string, sampleRate int, text string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", provider, sampleRate, text)))
	return hex.EncodeToString(hash[:16])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}

// Get returns the cached clip for key
func (c *Cache) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached clip: %w", err)
	}
	return data, true, nil
}

// Put stores data under key. Readers never see a partial file.
func (c *Cache) Put(key string, data []byte) error {
	f, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit cache file: %w", err)
	}
	return nil
}

// Cleanup removes every cached clip
func (c *Cache) Cleanup() error {
	return os.RemoveAll(c.dir)
}
