package build

import (
	"path/filepath"
	"testing"

	"github.com/ofensivaria/ofbuild/internal/recipe"
)

func TestPlatformSlug(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"linux/amd64", "linux-amd64"},
		{"linux/arm64", "linux-arm64"},
		{"linux/arm/v7", "linux-arm-v7"},
		{"linux", "linux"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			if got := platformSlug(tt.platform); got != tt.want {
				t.Fatalf("platformSlug(%q) = %q, want %q", tt.platform, got, tt.want)
			}
		})
	}
}

func TestPlatformOutput(t *testing.T) {
	t.Run("single platform uses output directly", func(t *testing.T) {
		p := &pipeline{output: "dist", platforms: []string{"linux/amd64"}}

		if got := p.platformOutput("linux/amd64"); got != "dist" {
			t.Fatalf("platformOutput = %q, want dist", got)
		}
	})

	t.Run("multi platform gets subdirectories", func(t *testing.T) {
		p := &pipeline{output: "dist", platforms: []string{"linux/amd64", "linux/arm64"}}

		want := filepath.Join("dist", "linux-arm64")
		if got := p.platformOutput("linux/arm64"); got != want {
			t.Fatalf("platformOutput = %q, want %q", got, want)
		}
	})
}

func TestContainerID(t *testing.T) {
	p := &pipeline{rec: recipe.Default()}

	if got, want := p.containerID("deps", "linux/amd64"), "ofensivaria-linux-amd64-deps"; got != want {
		t.Fatalf("containerID = %q, want %q", got, want)
	}
	if got, want := p.containerID("source", "linux/arm64"), "ofensivaria-linux-arm64-source"; got != want {
		t.Fatalf("containerID = %q, want %q", got, want)
	}
}

func TestExportConfig(t *testing.T) {
	tests := []struct {
		name    string
		mode    recipe.LaunchMode
		wantCmd []string
	}{
		{
			name:    "module mode",
			mode:    recipe.LaunchModule,
			wantCmd: []string{"-m", "ofensivaria.app"},
		},
		{
			name:    "script mode",
			mode:    recipe.LaunchScript,
			wantCmd: []string{"/code/app.py"},
		},
		{
			name:    "installed-module mode",
			mode:    recipe.LaunchInstalledModule,
			wantCmd: []string{"-m", "ofensivaria.app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recipe.Default()
			rec.LaunchMode = tt.mode
			p := &pipeline{rec: rec}

			cfg := p.exportConfig()

			if len(cfg.Entrypoint) != 1 || cfg.Entrypoint[0] != "python" {
				t.Fatalf("entrypoint = %v, want [python]", cfg.Entrypoint)
			}
			if len(cfg.Cmd) != len(tt.wantCmd) {
				t.Fatalf("cmd = %v, want %v", cfg.Cmd, tt.wantCmd)
			}
			for i := range cfg.Cmd {
				if cfg.Cmd[i] != tt.wantCmd[i] {
					t.Fatalf("cmd[%d] = %q, want %q", i, cfg.Cmd[i], tt.wantCmd[i])
				}
			}
			if len(cfg.ExposedPorts) != 1 || cfg.ExposedPorts[0] != "8000/tcp" {
				t.Fatalf("exposed ports = %v, want [8000/tcp]", cfg.ExposedPorts)
			}
			if len(cfg.Volumes) != 1 || cfg.Volumes[0] != "/code" {
				t.Fatalf("volumes = %v, want [/code]", cfg.Volumes)
			}
			if cfg.WorkingDir != "/code" {
				t.Fatalf("workdir = %q, want /code", cfg.WorkingDir)
			}
		})
	}
}
