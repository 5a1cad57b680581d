package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSocket(t *testing.T) {
	socket := Socket()

	if !filepath.IsAbs(socket) {
		t.Fatalf("socket path %q is not absolute", socket)
	}
	if filepath.Base(socket) != "ofbuild.sock" {
		t.Fatalf("socket filename = %q, want ofbuild.sock", filepath.Base(socket))
	}
	if filepath.Dir(socket) != Runtime() {
		t.Fatalf("socket %q is not inside the runtime dir %q", socket, Runtime())
	}
}

func TestPIDFile(t *testing.T) {
	pid := PIDFile()

	if filepath.Base(pid) != "ofbuild.pid" {
		t.Fatalf("pid filename = %q, want ofbuild.pid", filepath.Base(pid))
	}
	if filepath.Dir(pid) != Runtime() {
		t.Fatalf("pid file %q is not inside the runtime dir %q", pid, Runtime())
	}
}

func TestImageCache(t *testing.T) {
	cache := ImageCache()

	if !filepath.IsAbs(cache) {
		t.Fatalf("cache path %q is not absolute", cache)
	}
	if !strings.Contains(cache, toolName) {
		t.Fatalf("cache path %q is not scoped to the tool", cache)
	}
	if filepath.Base(cache) != "layers" {
		t.Fatalf("cache dir = %q, want layers", filepath.Base(cache))
	}
}
