package runtime

import (
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

func TestApplyExportConfig(t *testing.T) {
	t.Run("nil config leaves image untouched", func(t *testing.T) {
		config := ocispec.Image{
			Config: ocispec.ImageConfig{
				Entrypoint: []string{"/bin/sh"},
				Cmd:        []string{"-c", "sleep infinity"},
			},
		}

		applyExportConfig(&config, nil)

		if len(config.Config.Entrypoint) != 1 || config.Config.Entrypoint[0] != "/bin/sh" {
			t.Fatalf("entrypoint changed: %v", config.Config.Entrypoint)
		}
		if len(config.Config.Cmd) != 2 {
			t.Fatalf("cmd changed: %v", config.Config.Cmd)
		}
	})

	t.Run("entrypoint resets inherited cmd", func(t *testing.T) {
		config := ocispec.Image{
			Config: ocispec.ImageConfig{
				Entrypoint: []string{"/bin/sh"},
				Cmd:        []string{"-c", "sleep infinity"},
			},
		}

		applyExportConfig(&config, &ExportConfig{Entrypoint: []string{"python"}})

		if len(config.Config.Entrypoint) != 1 || config.Config.Entrypoint[0] != "python" {
			t.Fatalf("entrypoint = %v, want [python]", config.Config.Entrypoint)
		}
		if config.Config.Cmd != nil {
			t.Fatalf("inherited cmd leaked into launch arguments: %v", config.Config.Cmd)
		}
	})

	t.Run("full launch metadata", func(t *testing.T) {
		config := ocispec.Image{}

		applyExportConfig(&config, &ExportConfig{
			Entrypoint:   []string{"python"},
			Cmd:          []string{"-m", "ofensivaria.app"},
			ExposedPorts: []string{"8000/tcp"},
			Volumes:      []string{"/code"},
			WorkingDir:   "/code",
		})

		if got := config.Config.Cmd; len(got) != 2 || got[0] != "-m" || got[1] != "ofensivaria.app" {
			t.Fatalf("cmd = %v", got)
		}
		if config.Config.WorkingDir != "/code" {
			t.Fatalf("workdir = %q", config.Config.WorkingDir)
		}
		if _, ok := config.Config.ExposedPorts["8000/tcp"]; !ok {
			t.Fatalf("ports = %v, missing 8000/tcp", config.Config.ExposedPorts)
		}
		if _, ok := config.Config.Volumes["/code"]; !ok {
			t.Fatalf("volumes = %v, missing /code", config.Config.Volumes)
		}
	})

	t.Run("ports and volumes merge with inherited", func(t *testing.T) {
		config := ocispec.Image{
			Config: ocispec.ImageConfig{
				ExposedPorts: map[string]struct{}{"5432/tcp": {}},
				Volumes:      map[string]struct{}{"/var/lib/data": {}},
			},
		}

		applyExportConfig(&config, &ExportConfig{
			ExposedPorts: []string{"8000/tcp"},
			Volumes:      []string{"/code"},
		})

		if len(config.Config.ExposedPorts) != 2 {
			t.Fatalf("ports = %v, want both inherited and new", config.Config.ExposedPorts)
		}
		if len(config.Config.Volumes) != 2 {
			t.Fatalf("volumes = %v, want both inherited and new", config.Config.Volumes)
		}
	})
}

func TestManifestGCLabels(t *testing.T) {
	m := ocispec.Manifest{
		Config: ocispec.Descriptor{Digest: digest.FromString("config")},
		Layers: []ocispec.Descriptor{
			{Digest: digest.FromString("layer0")},
			{Digest: digest.FromString("layer1")},
		},
	}

	labels := manifestGCLabels(m)

	if got := labels["containerd.io/gc.ref.content.config"]; got != m.Config.Digest.String() {
		t.Fatalf("config label = %q", got)
	}
	if got := labels["containerd.io/gc.ref.content.l.0"]; got != m.Layers[0].Digest.String() {
		t.Fatalf("layer 0 label = %q", got)
	}
	if got := labels["containerd.io/gc.ref.content.l.1"]; got != m.Layers[1].Digest.String() {
		t.Fatalf("layer 1 label = %q", got)
	}
	if len(labels) != 3 {
		t.Fatalf("labels = %v, want 3 entries", labels)
	}
}

func TestIndexGCLabels(t *testing.T) {
	idx := ocispec.Index{
		Manifests: []ocispec.Descriptor{
			{Digest: digest.FromString("manifest0")},
		},
	}

	labels := indexGCLabels(idx)

	if got := labels["containerd.io/gc.ref.content.m.0"]; got != idx.Manifests[0].Digest.String() {
		t.Fatalf("manifest 0 label = %q", got)
	}
	if len(labels) != 1 {
		t.Fatalf("labels = %v, want 1 entry", labels)
	}
}
