package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestKeyDeterministic(t *testing.T) {
	manifest := []byte("flask==3.0.0\nredis==5.0.1\n")

	a := Key("docker.io/library/python:3.12-slim", manifest, "linux/amd64")
	b := Key("docker.io/library/python:3.12-slim", manifest, "linux/amd64")

	if a != b {
		t.Fatalf("same inputs produced different keys: %s vs %s", a, b)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("key is not a valid digest: %v", err)
	}
}

func TestKeySensitivity(t *testing.T) {
	base := Key("docker.io/library/python:3.12-slim", []byte("flask\n"), "linux/amd64")

	tests := []struct {
		name string
		key  digest.Digest
	}{
		{
			name: "base image changes the key",
			key:  Key("docker.io/library/python:3.11-slim", []byte("flask\n"), "linux/amd64"),
		},
		{
			name: "manifest contents change the key",
			key:  Key("docker.io/library/python:3.12-slim", []byte("flask\nredis\n"), "linux/amd64"),
		},
		{
			name: "platform changes the key",
			key:  Key("docker.io/library/python:3.12-slim", []byte("flask\n"), "linux/arm64"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Fatal("key did not change")
			}
		})
	}
}

// The inputs are length-prefixed, so shifting bytes between adjacent inputs
// must not produce the same key.
func TestKeyBoundaries(t *testing.T) {
	a := Key("python:3", []byte(".12flask\n"), "linux/amd64")
	b := Key("python:3.12", []byte("flask\n"), "linux/amd64")

	if a == b {
		t.Fatal("inputs with shifted boundaries collide")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	key := Key("docker.io/library/python:3.12-slim", []byte("flask\n"), "linux/amd64")

	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache reported a hit")
	}

	src := filepath.Join(t.TempDir(), "deps.tar")
	if err := os.WriteFile(src, []byte("layer data"), 0644); err != nil {
		t.Fatal(err)
	}

	stored, err := c.Put(key, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(stored, ".tar") {
		t.Fatalf("cached path %q does not end in .tar", stored)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source archive still present after Put: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("cache miss after Put")
	}
	if got != stored {
		t.Fatalf("Get = %q, Put returned %q", got, stored)
	}

	contents, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(contents) != "layer data" {
		t.Fatalf("cached contents = %q", contents)
	}

	if err := c.Remove(key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatal("cache hit after Remove")
	}
}

func TestCacheRemoveMissing(t *testing.T) {
	c := New(t.TempDir())
	key := Key("docker.io/library/python:3.12-slim", nil, "linux/amd64")

	if err := c.Remove(key); err != nil {
		t.Fatalf("removing a missing entry failed: %v", err)
	}
}

func TestCachePutCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "layers")
	c := New(dir)

	src := filepath.Join(t.TempDir(), "deps.tar")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	key := Key("img", []byte("m"), "linux/amd64")
	if _, err := c.Put(key, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(key); !ok {
		t.Fatal("cache miss after Put into a fresh directory")
	}
}
