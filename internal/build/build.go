package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ofensivaria/ofbuild/internal/cache"
	"github.com/ofensivaria/ofbuild/internal/paths"
	"github.com/ofensivaria/ofbuild/internal/recipe"
	"github.com/ofensivaria/ofbuild/internal/runtime"
)

// Filename of the OCI archive written to each output directory.
const archiveFilename = "image.tar"

// Controls build execution.
type Options struct {
	Recipe    *recipe.Recipe // Recipe to build.
	Context   string         // Build context directory holding the manifest and source tree.
	Output    string         // Directory for the exported image.
	Platforms []string       // Target platforms (e.g., ["linux/amd64"]). Defaults to host.
	Cache     *cache.Cache   // Dependency layer cache. Nil disables caching.
}

// Returned after successful build execution.
type Result struct {
	Output string // Directory containing the exported image.
}

// Executes a recipe against the container runtime.
//
// The dependency manifest must exist in the build context before anything
// else happens; a missing manifest aborts the build without starting a
// container. Each target platform is built independently and exports its
// own archive.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.Recipe == nil {
		return nil, fmt.Errorf("%w: no recipe given", recipe.ErrInvalidRecipe)
	}
	if err := opts.Recipe.Validate(); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(opts.Context, opts.Recipe.ManifestFile)
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, manifestPath)
		}
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	if len(opts.Platforms) == 0 {
		opts.Platforms = []string{runtime.DefaultPlatform()}
	}

	slog.Info("building image",
		"base", opts.Recipe.BaseImage,
		"mode", opts.Recipe.LaunchMode,
		"output", opts.Output,
		"platforms", opts.Platforms,
	)

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	return newPipeline(rt, opts, manifest).build(ctx)
}
