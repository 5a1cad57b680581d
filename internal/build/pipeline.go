package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/ofensivaria/ofbuild/internal/cache"
	"github.com/ofensivaria/ofbuild/internal/paths"
	"github.com/ofensivaria/ofbuild/internal/recipe"
	"github.com/ofensivaria/ofbuild/internal/runtime"
)

// Holds shared state for building a recipe across all target platforms.
type pipeline struct {
	rt         *runtime.Runtime     // Container runtime for image and container operations.
	rec        *recipe.Recipe       // Recipe being built.
	context    string               // Build context, root for resolving copy sources.
	output     string               // Output directory for the final build artifact.
	cache      *cache.Cache         // Dependency layer cache; nil disables caching.
	platforms  []string             // Target platforms to build for.
	manifest   []byte               // Raw dependency manifest contents, input to the cache key.
	containers []*runtime.Container // All stage containers, destroyed when the build completes.
}

// Creates a new [pipeline] from the given options.
func newPipeline(rt *runtime.Runtime, opts Options, manifest []byte) *pipeline {
	return &pipeline{
		rt:        rt,
		rec:       opts.Recipe,
		context:   opts.Context,
		output:    opts.Output,
		cache:     opts.Cache,
		platforms: opts.Platforms,
		manifest:  manifest,
	}
}

// Builds the recipe end-to-end against the container runtime.
//
// Each target platform is built independently. All stage containers are
// destroyed when the build completes, whether it succeeded or not.
func (p *pipeline) build(ctx context.Context) (*Result, error) {
	defer p.destroyContainers(ctx)

	plan := p.rec.Plan()

	for _, platform := range p.platforms {
		if err := p.buildPlatform(ctx, plan, platform); err != nil {
			return nil, fmt.Errorf("%w: platform %s: %w", ErrBuild, platform, err)
		}
	}

	return &Result{Output: p.output}, nil
}

// Builds one platform: dependency stage, source stage, export.
func (p *pipeline) buildPlatform(ctx context.Context, plan *recipe.Plan, platform string) error {
	slog.Info("building platform", "platform", platform)

	output := p.platformOutput(platform)
	if err := os.MkdirAll(output, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	ctr, err := p.startSourceContainer(ctx, plan, platform)
	if err != nil {
		return err
	}

	if err := p.executeSteps(ctx, ctr, plan.Source, newStepState()); err != nil {
		return err
	}

	if err := ctr.Stop(ctx); err != nil {
		return err
	}

	archive := filepath.Join(output, archiveFilename)
	if err := ctr.Export(ctx, archive, p.exportConfig()); err != nil {
		// No partial images: a failed export leaves no artifact behind.
		os.Remove(archive)
		return err
	}

	return nil
}

// Starts the container the source stage runs in.
//
// With caching disabled, the dependency steps execute directly on a
// container started from the base image, and the same container carries on
// into the source stage. With caching enabled, the source container always
// starts from a dependency-stage archive: a cached one when the key matches,
// or one built and cached on the spot.
func (p *pipeline) startSourceContainer(ctx context.Context, plan *recipe.Plan, platform string) (*runtime.Container, error) {
	if p.cache == nil || !p.rec.CacheDeps {
		ctr, err := p.rt.Start(ctx, p.rec.BaseImage, p.containerID("build", platform), platform)
		if err != nil {
			return nil, err
		}
		p.containers = append(p.containers, ctr)

		if err := p.executeSteps(ctx, ctr, plan.Deps, newStepState()); err != nil {
			return nil, err
		}
		return ctr, nil
	}

	key := cache.Key(p.rec.BaseImage, p.manifest, platform)

	archive, ok := p.cache.Get(key)
	if ok {
		slog.Info("dependency layer reused from cache", "key", key.Encoded()[:12])
	} else {
		var err error
		if archive, err = p.buildDepsArchive(ctx, plan, platform, key); err != nil {
			return nil, err
		}
	}

	ctr, err := p.rt.StartFromArchive(ctx, archive, p.containerID("source", platform), platform)
	if err != nil {
		return nil, err
	}
	p.containers = append(p.containers, ctr)

	return ctr, nil
}

// Runs the dependency stage and commits its result to the layer cache.
//
// The stage container is stopped before export so the snapshot is stable,
// then the archive is moved into the cache under the stage's key.
func (p *pipeline) buildDepsArchive(ctx context.Context, plan *recipe.Plan, platform string, key digest.Digest) (string, error) {
	ctr, err := p.rt.Start(ctx, p.rec.BaseImage, p.containerID("deps", platform), platform)
	if err != nil {
		return "", err
	}
	p.containers = append(p.containers, ctr)

	if err := p.executeSteps(ctx, ctr, plan.Deps, newStepState()); err != nil {
		return "", err
	}

	if err := ctr.Stop(ctx); err != nil {
		return "", err
	}

	tmp := filepath.Join(p.output, ".deps-"+platformSlug(platform)+".tar")
	if err := ctr.Export(ctx, tmp, nil); err != nil {
		os.Remove(tmp)
		return "", err
	}

	archive, err := p.cache.Put(key, tmp)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}

	slog.Info("dependency layer cached", "key", key.Encoded()[:12])
	return archive, nil
}

// Returns the image configuration metadata for the exported archive.
func (p *pipeline) exportConfig() *runtime.ExportConfig {
	return &runtime.ExportConfig{
		Entrypoint:   p.rec.Entrypoint(),
		Cmd:          p.rec.Command(),
		ExposedPorts: []string{p.rec.ExposedPort()},
		Volumes:      []string{p.rec.CodePath},
		WorkingDir:   p.rec.CodePath,
	}
}

// Destroys all stage containers.
func (p *pipeline) destroyContainers(ctx context.Context) {
	for _, ctr := range p.containers {
		ctr.Destroy(ctx)
	}
}

// Returns a unique container ID for a stage, scoped to this package and
// platform.
func (p *pipeline) containerID(stage, platform string) string {
	return fmt.Sprintf("%s-%s-%s", p.rec.PackageName, platformSlug(platform), stage)
}

// Returns the output directory for a specific platform.
//
// When building for a single platform, the output directory is left as-is
// to preserve the {output}/image.tar convention. For multi-platform builds,
// each platform gets a subdirectory (e.g., {output}/linux-amd64).
func (p *pipeline) platformOutput(platform string) string {
	if len(p.platforms) == 1 {
		return p.output
	}
	return filepath.Join(p.output, platformSlug(platform))
}

// Converts a platform string to a filesystem-safe slug.
//
// Replaces slashes with dashes (e.g., "linux/amd64" becomes "linux-amd64").
func platformSlug(platform string) string {
	return strings.ReplaceAll(platform, "/", "-")
}
