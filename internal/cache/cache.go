package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/ofensivaria/ofbuild/internal/paths"
)

var ErrCache = errors.New("layer cache error")

// A content-addressed store of dependency-stage archives.
type Cache struct {
	dir string // Directory holding cached archives.
}

// Creates a cache rooted at the given directory.
//
// The directory is created lazily on the first Put.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Computes the cache key for a dependency stage.
//
// The key covers everything the stage's result depends on: the base image
// reference, the raw bytes of the dependency manifest, and the target
// platform. Each input is length-prefixed so that no two input combinations
// can collide by concatenation.
func Key(baseImage string, manifest []byte, platform string) digest.Digest {
	digester := digest.SHA256.Digester()
	h := digester.Hash()

	for _, part := range [][]byte{[]byte(baseImage), manifest, []byte(platform)} {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write(part)
	}

	return digester.Digest()
}

// Returns the path of the cached archive for a key, and whether it exists.
func (c *Cache) Get(key digest.Digest) (string, bool) {
	path := c.entryPath(key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Stores the archive at src under the given key and returns the cached path.
//
// The archive is moved into place with a rename so that concurrent readers
// never observe a partially written entry. When src is on a different
// filesystem the content is copied through a temp file in the cache
// directory and then renamed.
func (c *Cache) Put(key digest.Digest, src string) (string, error) {
	if err := os.MkdirAll(c.dir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCache, err)
	}

	dest := c.entryPath(key)

	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}

	if err := c.copyIn(src, dest); err != nil {
		return "", err
	}
	os.Remove(src)

	return dest, nil
}

// Removes the entry for a key. Removing a missing entry is not an error.
func (c *Cache) Remove(key digest.Digest) error {
	if err := os.Remove(c.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	return nil
}

// Copies src into the cache via a temp file and an atomic rename.
func (c *Cache) copyIn(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(c.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCache, err)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrCache, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrCache, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrCache, err)
	}

	return nil
}

// Returns the on-disk path for a key.
func (c *Cache) entryPath(key digest.Digest) string {
	return filepath.Join(c.dir, key.Encoded()+".tar")
}
