// Package cache persists the last compilation outcome per session
// configuration, so a fresh controller process can report prior results
// and skip rebuilds whose inputs have not changed.
//
// Metadata lives in BoltDB keyed by a sha256 of the configuration's
// wire encoding; values are wire-encoded entries, reusing the same
// codec the worker protocol uses.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/croftbox/hsworker/internal/config"
	"github.com/croftbox/hsworker/internal/wire"
)

const (
	// DefaultCacheDir is the default cache directory name
	DefaultCacheDir = ".hsworker-cache"

	// bucketName is the BoltDB bucket name for result entries
	bucketName = "results"
)

// Cache manages persisted compilation results using BoltDB
type Cache struct {
	db   *bbolt.DB
	root string
}

// New creates a new cache instance
// If cacheDir is empty, uses DefaultCacheDir in current working directory
func New(cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		cacheDir = filepath.Join(cwd, DefaultCacheDir)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, "cache.db")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Cache{
		db:   db,
		root: cacheDir,
	}, nil
}

// Close closes the cache database
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}

	return nil
}

// Get retrieves the entry cached for a configuration
// Returns nil if cache miss
func (c *Cache) Get(cfg config.Config) (*Entry, error) {
	var entry *Entry

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data := b.Get([]byte(wire.ConfigKey(cfg)))
		if data == nil {
			return nil // Cache miss
		}

		e, err := decodeEntry(data)
		if err != nil {
			return err
		}

		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Put saves the entry for a configuration
func (c *Cache) Put(cfg config.Config, entry *Entry) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put([]byte(wire.ConfigKey(cfg)), entry.encode())
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket([]byte(bucketName))
	})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Stats returns the entry count and the total size of scratch output
// under root, if root exists
func (c *Cache) Stats(scratchRoot string) (int, int64, error) {
	var count int
	var totalSize int64

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	err = filepath.Walk(scratchRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if !info.IsDir() {
			totalSize += info.Size()
		}

		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return count, totalSize, err
	}

	return count, totalSize, nil
}
