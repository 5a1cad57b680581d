package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ofensivaria/ofbuild/internal/recipe"
)

func TestRunNilRecipe(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{
		Context: t.TempDir(),
		Output:  t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, recipe.ErrInvalidRecipe) {
		t.Fatalf("error %v is not ErrInvalidRecipe", err)
	}
}

func TestRunInvalidRecipe(t *testing.T) {
	rec := recipe.Default()
	rec.LaunchMode = "daemon"

	_, err := Run(context.Background(), nil, Options{
		Recipe:  rec,
		Context: t.TempDir(),
		Output:  t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, recipe.ErrInvalidRecipe) {
		t.Fatalf("error %v is not ErrInvalidRecipe", err)
	}
}

// A missing manifest must abort the build before any container work starts.
// The nil runtime makes any attempt to start one panic the test.
func TestRunManifestNotFound(t *testing.T) {
	ctx := t.TempDir()

	_, err := Run(context.Background(), nil, Options{
		Recipe:  recipe.Default(),
		Context: ctx,
		Output:  t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("error %v is not ErrManifestNotFound", err)
	}
}

func TestRunManifestNotFoundNamesPath(t *testing.T) {
	ctx := t.TempDir()

	_, err := Run(context.Background(), nil, Options{
		Recipe:  recipe.Default(),
		Context: ctx,
		Output:  t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	want := filepath.Join(ctx, "requirements.txt")
	if got := err.Error(); !strings.Contains(got, want) {
		t.Fatalf("error %q does not name the manifest path %q", got, want)
	}
}

func TestRunCustomManifestName(t *testing.T) {
	ctx := t.TempDir()
	if err := os.WriteFile(filepath.Join(ctx, "requirements.txt"), []byte("flask\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := recipe.Default()
	rec.ManifestFile = "requirements-dev.txt"

	_, err := Run(context.Background(), nil, Options{
		Recipe:  rec,
		Context: ctx,
		Output:  t.TempDir(),
	})
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("error %v is not ErrManifestNotFound", err)
	}
}
