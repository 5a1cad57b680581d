package cli

import (
	"context"

	"github.com/ofensivaria/ofbuild/internal/build"
	"github.com/ofensivaria/ofbuild/internal/cache"
	"github.com/ofensivaria/ofbuild/internal/paths"
	"github.com/ofensivaria/ofbuild/internal/recipe"
	"github.com/ofensivaria/ofbuild/internal/runtime"
)

// Represents the 'ofbuild build' command.
type BuildCmd struct {
	Context  string   `arg:"" optional:"" default:"." type:"existingdir" help:"Build context directory."`
	Recipe   string   `short:"r" type:"path" help:"Recipe file. Defaults apply when omitted." placeholder:"FILE"`
	Output   string   `short:"o" default:"dist" help:"Output directory for the image archive." placeholder:"DIR"`
	Platform []string `short:"p" help:"Target platform(s), e.g. linux/amd64. Defaults to the host." placeholder:"OS/ARCH"`
	NoCache  bool     `help:"Skip the dependency layer cache for this build."`

	ContainerdAddress   string `default:"${containerd_address}" help:"Containerd socket address." placeholder:"PATH"`
	ContainerdNamespace string `default:"${containerd_namespace}" help:"Containerd namespace." placeholder:"NAME"`
}

// Executes the build command.
//
// Loads the recipe (file plus OFBUILD_* environment overrides), connects to
// containerd, and runs the build pipeline in-process.
func (c *BuildCmd) Run(ctx context.Context) error {
	rec, err := recipe.Load(c.Recipe)
	if err != nil {
		return err
	}

	rt, err := runtime.New(c.ContainerdAddress, c.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	var layerCache *cache.Cache
	if !c.NoCache {
		layerCache = cache.New(paths.ImageCache())
	}

	_, err = build.Run(ctx, rt, build.Options{
		Recipe:    rec,
		Context:   c.Context,
		Output:    c.Output,
		Platforms: c.Platform,
		Cache:     layerCache,
	})
	return err
}
